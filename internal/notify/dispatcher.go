package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/infra/integration/telegram"
	"github.com/northpeak-digital/agency-api/internal/infra/mail"
)

type Chat interface {
	IsEnabled() bool
	SendMessage(ctx context.Context, msg telegram.Message) error
}

type Config struct {
	SiteURL  string
	ReplyTo  string
	TeamName string
}

// Dispatcher turns notification intents into an email to the prospect and a
// chat message to the team.
type Dispatcher struct {
	mailer mail.Sender
	chat   Chat
	cfg    Config
	logger *slog.Logger
}

func NewDispatcher(mailer mail.Sender, chat Chat, cfg Config, logger *slog.Logger) *Dispatcher {
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return &Dispatcher{mailer: mailer, chat: chat, cfg: cfg, logger: logger}
}

// Dispatch delivers both channels and returns their joined errors. A retry
// delivers both again, so delivery is at least once per channel.
func (d *Dispatcher) Dispatch(ctx context.Context, intent *entity.NotificationIntent) error {
	var email *mail.Message
	var chat telegram.Message
	var err error

	switch intent.Kind {
	case entity.NotificationLeadCreated:
		var p entity.LeadCreatedPayload
		if err := intent.Decode(&p); err != nil {
			return err
		}
		email, err = d.leadEmail(p)
		chat = d.leadChat(p)
	case entity.NotificationProposalSent:
		var p entity.ProposalSentPayload
		if err := intent.Decode(&p); err != nil {
			return err
		}
		email, err = d.proposalSentEmail(p)
		chat = d.proposalSentChat(p)
	case entity.NotificationProposalSigned:
		var p entity.ProposalSignedPayload
		if err := intent.Decode(&p); err != nil {
			return err
		}
		email, err = d.proposalSignedEmail(p)
		chat = d.proposalSignedChat(p)
	default:
		return fmt.Errorf("unknown notification kind %q", intent.Kind)
	}
	if err != nil {
		return err
	}

	var errs []error
	if email != nil {
		if err := d.mailer.Send(ctx, *email); err != nil {
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
	}
	if d.chat != nil && d.chat.IsEnabled() {
		if err := d.chat.SendMessage(ctx, chat); err != nil {
			errs = append(errs, fmt.Errorf("chat: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) SendAdminCode(ctx context.Context, to, code string, ttl time.Duration) error {
	html, err := mail.Render(mail.TemplateAdminCode, mail.AdminCodeData{Code: code, TTLMinutes: int(ttl.Minutes())})
	if err != nil {
		return err
	}
	return d.mailer.Send(ctx, mail.Message{
		To:      to,
		Subject: "Your admin login code: " + code,
		HTML:    html,
	})
}

func (d *Dispatcher) leadEmail(p entity.LeadCreatedPayload) (*mail.Message, error) {
	data := mail.LeadConfirmationData{Name: p.Name, Company: p.Company, Industry: string(p.Industry)}
	tmpl := mail.TemplateLeadAudit
	subject := "We received your free audit request"
	if p.LeadType == entity.LeadTypePackage {
		tmpl = mail.TemplateLeadPackage
		if p.SelectedTier != nil {
			data.Tier = string(*p.SelectedTier)
		}
		subject = "Thanks for choosing a plan"
	}
	html, err := mail.Render(tmpl, data)
	if err != nil {
		return nil, err
	}
	return &mail.Message{To: p.Email, Subject: subject, HTML: html, ReplyTo: d.cfg.ReplyTo}, nil
}

func (d *Dispatcher) leadChat(p entity.LeadCreatedPayload) telegram.Message {
	var b strings.Builder
	title := "New audit request"
	if p.LeadType == entity.LeadTypePackage {
		title = "New package lead"
		if p.SelectedTier != nil {
			title += " (" + string(*p.SelectedTier) + ")"
		}
	}
	fmt.Fprintf(&b, "<b>%s</b>\n", telegram.Escape(title))
	fmt.Fprintf(&b, "%s &lt;%s&gt;\n", telegram.Escape(p.Name), telegram.Escape(p.Email))
	line(&b, "Company", p.Company)
	line(&b, "Phone", p.Phone)
	line(&b, "Website", p.Website)
	line(&b, "Industry", string(p.Industry))
	line(&b, "Size", p.BusinessSize)
	line(&b, "Challenge", p.Challenge)
	line(&b, "Source", firstNonEmpty(p.Attribution.UTMSource, p.Attribution.Source))
	line(&b, "Campaign", p.Attribution.UTMCampaign)

	return telegram.Message{
		Text: b.String(),
		Buttons: [][]telegram.Button{{
			{Text: "Generate proposal", CallbackData: "proposal:generate:" + p.LeadID},
			{Text: "Mark contacted", CallbackData: "lead:contacted:" + p.LeadID},
		}},
	}
}

func (d *Dispatcher) proposalURL(slug string) string {
	return d.cfg.SiteURL + "/proposal/" + slug
}

func (d *Dispatcher) proposalSentEmail(p entity.ProposalSentPayload) (*mail.Message, error) {
	html, err := mail.Render(mail.TemplateProposalSent, mail.ProposalSentData{
		ClientName:   p.ClientName,
		Company:      p.Company,
		ProposalURL:  d.proposalURL(p.Slug),
		MonthlyPrice: FormatUSD(p.MonthlyPrice),
		SetupFee:     FormatUSD(p.SetupFee),
	})
	if err != nil {
		return nil, err
	}
	return &mail.Message{To: p.ClientEmail, Subject: "Your proposal is ready", HTML: html, ReplyTo: d.cfg.ReplyTo}, nil
}

func (d *Dispatcher) proposalSentChat(p entity.ProposalSentPayload) telegram.Message {
	var b strings.Builder
	b.WriteString("<b>Proposal sent</b>\n")
	fmt.Fprintf(&b, "%s &lt;%s&gt;\n", telegram.Escape(p.ClientName), telegram.Escape(p.ClientEmail))
	line(&b, "Company", p.Company)
	line(&b, "Monthly", FormatUSD(p.MonthlyPrice))
	return telegram.Message{
		Text:    b.String(),
		Buttons: [][]telegram.Button{{{Text: "Open proposal", URL: d.proposalURL(p.Slug)}}},
	}
}

func (d *Dispatcher) proposalSignedEmail(p entity.ProposalSignedPayload) (*mail.Message, error) {
	names := make([]string, 0, len(p.SelectedAddons))
	for _, a := range p.SelectedAddons {
		names = append(names, a.Name+" ("+FormatUSD(a.Price)+"/mo)")
	}
	html, err := mail.Render(mail.TemplateProposalSigned, mail.ProposalSignedData{
		ClientName:   p.ClientName,
		BusinessName: p.BusinessName,
		MonthlyTotal: FormatUSD(p.MonthlyTotal),
		SetupTotal:   FormatUSD(p.SetupTotal),
		Addons:       names,
	})
	if err != nil {
		return nil, err
	}
	subject := "Welcome aboard"
	if d.cfg.TeamName != "" {
		subject += " to " + d.cfg.TeamName
	}
	return &mail.Message{To: p.ClientEmail, Subject: subject, HTML: html, ReplyTo: d.cfg.ReplyTo}, nil
}

func (d *Dispatcher) proposalSignedChat(p entity.ProposalSignedPayload) telegram.Message {
	var b strings.Builder
	b.WriteString("<b>Proposal signed</b>\n")
	fmt.Fprintf(&b, "%s &lt;%s&gt;\n", telegram.Escape(p.ClientName), telegram.Escape(p.ClientEmail))
	line(&b, "Business", p.BusinessName)
	line(&b, "Monthly", FormatUSD(p.MonthlyTotal))
	line(&b, "Setup", FormatUSD(p.SetupTotal))
	line(&b, "FB ads budget", p.FBAdsBudget)
	for _, a := range p.SelectedAddons {
		fmt.Fprintf(&b, "+ %s\n", telegram.Escape(a.Name))
	}
	return telegram.Message{Text: b.String()}
}

func line(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, telegram.Escape(value))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
