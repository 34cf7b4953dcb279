package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	TemplateAdminCode      = "admin_code.html"
	TemplateLeadAudit      = "lead_audit.html"
	TemplateLeadPackage    = "lead_package.html"
	TemplateProposalSent   = "proposal_sent.html"
	TemplateProposalSigned = "proposal_signed.html"
)

func Render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return body.String(), nil
}
