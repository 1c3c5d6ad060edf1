package mailer

import (
	"netrates/internal/config"
	"netrates/internal/domain"
)

// Message is a provider-independent outbound email. The sender address is
// each provider's own configured from address.
type Message struct {
	To          []string
	CC          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// SendRequest overrides the draft's stored recipient and the default
// subject/body when set. IncludeTransport appends the transport charge
// table to the message body.
type SendRequest struct {
	Recipient        string `json:"recipient"`
	Subject          string `json:"subject"`
	Body             string `json:"body"`
	IncludeTransport bool   `json:"include_transport"`
}

// SendResult reports how the dispatch ended. Status "prepared" means no
// provider is configured (or all failed) and the content is returned for
// manual sending.
type SendResult struct {
	Status    domain.EmailStatus `json:"status"`
	Provider  string             `json:"provider,omitempty"`
	Recipient string             `json:"recipient"`
	Subject   string             `json:"subject"`
	Body      string             `json:"body,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// ConfigStatus is the dry-run check of the provider chain.
type ConfigStatus struct {
	Configured bool   `json:"configured"`
	Provider   string `json:"provider,omitempty"`
}

type Analytics struct {
	Summary []domain.EmailStatusCount `json:"summary"`
	Recent  []domain.EmailRecord      `json:"recent"`
}

// SettingsView is the settings document with secrets masked for display.
type SettingsView struct {
	SMTP  config.SMTPSettings  `json:"smtp_settings"`
	Admin config.AdminSettings `json:"admin_settings"`
	App   config.AppSettings   `json:"app_settings"`
}

// UpdateSettingsRequest replaces the settings document. Masked secret values
// round-tripped from SettingsView keep the stored secret.
type UpdateSettingsRequest struct {
	SMTP  config.SMTPSettings  `json:"smtp_settings"`
	Admin config.AdminSettings `json:"admin_settings"`
	App   config.AppSettings   `json:"app_settings"`
}
