package mailer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"netrates/internal/config"
	"netrates/internal/domain"
	"netrates/internal/modules/pricelist"
	"netrates/internal/pkg/metrics"
)

type Service struct {
	drafts   DraftReader
	exports  Exporter
	log      EmailLog
	settings *config.SettingsStore
	logger   *zap.Logger

	// chain is rebuilt per send so settings edits take effect immediately.
	chain func() []Provider
}

func NewService(drafts DraftReader, exports Exporter, log EmailLog, settings *config.SettingsStore, logger *zap.Logger) *Service {
	s := &Service{
		drafts:   drafts,
		exports:  exports,
		log:      log,
		settings: settings,
		logger:   logger,
	}
	s.chain = s.defaultChain
	return s
}

// defaultChain builds the provider list in priority order: SendGrid from
// settings, SendGrid from the environment, the delivery webhook, then plain
// SMTP from settings.
func (s *Service) defaultChain() []Provider {
	var chain []Provider

	settings := s.settings.Get()
	if settings.SMTP.Provider == config.ProviderSendGrid &&
		settings.SMTP.SendGridAPIKey != "" && settings.SMTP.SendGridFromEmail != "" {
		chain = append(chain, newSendGridProvider(settings.SMTP.SendGridAPIKey, settings.SMTP.SendGridFromEmail))
	}

	if key := os.Getenv("SENDGRID_API_KEY"); key != "" {
		from := os.Getenv("SENDGRID_FROM_EMAIL")
		if from == "" {
			from = settings.Admin.DefaultAdminEmail
		}
		if from != "" {
			chain = append(chain, newSendGridProvider(key, from))
		}
	}

	if url := os.Getenv("WEBHOOK_EMAIL_URL"); url != "" {
		chain = append(chain, newWebhookProvider(url))
	}

	if cfg := settings.SMTPConfig(); cfg.Enabled && cfg.Provider != config.ProviderSendGrid {
		chain = append(chain, newSMTPProvider(cfg))
	}

	return chain
}

// Send emails the price list with the Excel and JSON exports attached. When
// no provider is configured (or every attempt fails) the result comes back
// "prepared" with the content so it can be sent by hand.
func (s *Service) Send(ctx context.Context, publicID string, req SendRequest) (*SendResult, error) {
	view, err := s.drafts.Get(ctx, publicID)
	if err != nil {
		return nil, err
	}

	settings := s.settings.Get()

	recipient := strings.TrimSpace(req.Recipient)
	if recipient == "" {
		recipient = strings.TrimSpace(view.PriceList.CustomerEmail)
	}
	if recipient == "" {
		recipient = strings.TrimSpace(settings.Admin.DefaultAdminEmail)
	}
	if recipient == "" {
		return nil, ErrNoRecipient
	}

	excel, err := s.exports.Excel(ctx, publicID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.exports.JSON(ctx, publicID)
	if err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = defaultSubject(view.PriceList.CustomerName)
	}
	body := req.Body
	if strings.TrimSpace(body) == "" {
		body = defaultBody(view.PriceList.CustomerName, view.SheetName)
	}
	if req.IncludeTransport {
		body += transportTable(view.Transport)
	}

	msg := Message{
		To:      []string{recipient},
		CC:      splitEmails(settings.Admin.CCEmails),
		Subject: subject,
		Body:    body,
		Attachments: []Attachment{
			{Name: excel.Name, ContentType: excel.ContentType, Data: excel.Data},
			{Name: snapshot.Name, ContentType: snapshot.ContentType, Data: snapshot.Data},
		},
	}

	result := &SendResult{Recipient: recipient, Subject: subject}

	var lastErr error
	for _, p := range s.chain() {
		if err := p.Send(ctx, msg); err != nil {
			lastErr = err
			s.logger.Warn("email provider failed",
				zap.String("provider", p.Name()),
				zap.Error(err))
			s.record(ctx, view, recipient, p.Name(), domain.EmailFailed, err.Error())
			continue
		}

		result.Status = domain.EmailSent
		result.Provider = p.Name()
		s.record(ctx, view, recipient, p.Name(), domain.EmailSent, "")
		return result, nil
	}

	result.Status = domain.EmailPrepared
	result.Body = body
	if lastErr != nil {
		result.Error = lastErr.Error()
	}
	s.record(ctx, view, recipient, "none", domain.EmailPrepared, result.Error)
	return result, nil
}

func (s *Service) record(ctx context.Context, view *pricelist.View, recipient, provider string, status domain.EmailStatus, errMsg string) {
	rec := &domain.EmailRecord{
		PriceListID:  view.PriceList.PublicID,
		CustomerName: view.PriceList.CustomerName,
		Recipient:    recipient,
		Provider:     provider,
		Status:       status,
		Error:        errMsg,
	}
	if err := s.log.Create(ctx, rec); err != nil {
		s.logger.Error("failed to write email log", zap.Error(err))
	}
	metrics.Emails.WithLabelValues(provider, string(status)).Inc()
}

// TestConfig reports which provider a send would use right now.
func (s *Service) TestConfig() ConfigStatus {
	chain := s.chain()
	if len(chain) == 0 {
		return ConfigStatus{}
	}
	return ConfigStatus{Configured: true, Provider: chain[0].Name()}
}

func (s *Service) Analytics(ctx context.Context, limit int) (*Analytics, error) {
	summary, err := s.log.Summary(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.log.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &Analytics{Summary: summary, Recent: recent}, nil
}

// Settings returns the settings document with secrets masked.
func (s *Service) Settings() SettingsView {
	v := s.settings.Get()
	maskSecrets(&v.SMTP)
	return SettingsView{SMTP: v.SMTP, Admin: v.Admin, App: v.App}
}

// UpdateSettings replaces the settings document. A masked secret coming back
// unchanged keeps the stored value.
func (s *Service) UpdateSettings(req UpdateSettingsRequest) (SettingsView, error) {
	updated, err := s.settings.Update(func(cur *config.Settings) {
		unmaskInto(&req.SMTP, cur.SMTP)
		cur.SMTP = req.SMTP
		cur.Admin = req.Admin
		cur.App = req.App
	})
	if err != nil {
		return SettingsView{}, err
	}

	maskSecrets(&updated.SMTP)
	return SettingsView{SMTP: updated.SMTP, Admin: updated.Admin, App: updated.App}, nil
}

func maskSecrets(m *config.SMTPSettings) {
	m.SendGridAPIKey = maskKey(m.SendGridAPIKey)
	m.GmailPassword = maskPassword(m.GmailPassword)
	m.O365Password = maskPassword(m.O365Password)
	m.CustomPassword = maskPassword(m.CustomPassword)
}

// unmaskInto restores stored secrets where the request carries a masked
// placeholder.
func unmaskInto(req *config.SMTPSettings, stored config.SMTPSettings) {
	if req.SendGridAPIKey == maskKey(stored.SendGridAPIKey) {
		req.SendGridAPIKey = stored.SendGridAPIKey
	}
	if req.GmailPassword == maskPassword(stored.GmailPassword) {
		req.GmailPassword = stored.GmailPassword
	}
	if req.O365Password == maskPassword(stored.O365Password) {
		req.O365Password = stored.O365Password
	}
	if req.CustomPassword == maskPassword(stored.CustomPassword) {
		req.CustomPassword = stored.CustomPassword
	}
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 12 {
		return strings.Repeat("*", len(key))
	}
	return key[:8] + "..." + key[len(key)-4:]
}

func maskPassword(pw string) string {
	if pw == "" {
		return ""
	}
	return "********"
}

func splitEmails(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func defaultSubject(customer string) string {
	if customer == "" {
		return "Your Net Rates Price List"
	}
	return fmt.Sprintf("Net Rates Price List - %s", customer)
}

func transportTable(charges []domain.TransportCharge) string {
	var b strings.Builder
	b.WriteString("<h3>Transport Charges (each way)</h3><table border=\"1\" cellpadding=\"4\">")
	for _, c := range charges {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>", c.DeliveryType, c.Charge)
	}
	b.WriteString("</table>")
	return b.String()
}

func defaultBody(customer, sheet string) string {
	greeting := "Hello"
	if customer != "" {
		greeting = "Hello " + customer
	}
	return fmt.Sprintf(
		"<p>%s,</p><p>Please find attached your net rates price list (based on %s). "+
			"The spreadsheet holds the full breakdown and the JSON file can be loaded "+
			"back in to pick up where we left off.</p><p>Kind regards</p>",
		greeting, sheet)
}
