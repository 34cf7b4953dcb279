package mail

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEscapesInput(t *testing.T) {
	html, err := Render(TemplateLeadAudit, LeadConfirmationData{Name: "<script>x</script>", Company: "Acme"})

	require.NoError(t, err)
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "for Acme")
}

func TestRenderProposalSigned(t *testing.T) {
	html, err := Render(TemplateProposalSigned, ProposalSignedData{
		ClientName: "Jane", MonthlyTotal: "$1,799.00", SetupTotal: "$500.00", Addons: []string{"SEO Blog"},
	})

	require.NoError(t, err)
	assert.Contains(t, html, "<li>SEO Blog</li>")
	assert.Contains(t, html, "$1,799.00")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("missing.html", nil)
	assert.Error(t, err)
}

func TestNewSenderFallsBackToConsole(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewSender(Config{}, logger)

	_, ok := s.(*ConsoleSender)
	assert.True(t, ok)
	assert.NoError(t, s.Send(context.Background(), Message{To: "a@b.c", Subject: "hi"}))
}
