package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

type fakeResult struct{ rows int64 }

func (f fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (f fakeResult) RowsAffected() (int64, error) { return f.rows, nil }

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert proposal: %w", &pq.Error{Code: "23505", Constraint: "proposals_slug_key"})

	assert.True(t, isUniqueViolation(err, "proposals_slug_key"))
	assert.True(t, isUniqueViolation(err, ""))
	assert.False(t, isUniqueViolation(err, "signed_proposals_idempotency_key_key"))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(errors.New("boom"), ""))
}

func TestNotFoundMapsNoRows(t *testing.T) {
	assert.ErrorIs(t, notFound(sql.ErrNoRows), entity.ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, notFound(other))
}

func TestExpectOne(t *testing.T) {
	assert.NoError(t, expectOne(fakeResult{rows: 1}))
	assert.ErrorIs(t, expectOne(fakeResult{rows: 0}), entity.ErrStaleTransition)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	body, err := migrations.ReadFile(names[0])
	require.NoError(t, err)
	for _, table := range []string{"leads", "proposals", "signed_proposals", "admin_codes", "notification_outbox"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestSchemaAllowsOneSignaturePerProposal(t *testing.T) {
	body, err := migrations.ReadFile("migrations/001_schema.sql")
	require.NoError(t, err)

	assert.Contains(t, string(body), "signed_proposals_proposal_id_key ON signed_proposals (proposal_id)")
	dup := &pq.Error{Code: "23505", Constraint: "signed_proposals_proposal_id_key"}
	assert.True(t, isUniqueViolation(dup, "signed_proposals_proposal_id_key"))
	assert.False(t, isUniqueViolation(dup, "signed_proposals_idempotency_key_key"))
}
