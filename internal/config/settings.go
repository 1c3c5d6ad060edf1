package config

import (
	"encoding/json"
	"os"
	"sync"
)

// Settings is the persisted email/admin settings document (config.json).
// The file holds credentials and is gitignored; config.json.template is the
// checked-in shape.
type Settings struct {
	SMTP  SMTPSettings  `json:"smtp_settings"`
	Admin AdminSettings `json:"admin_settings"`
	App   AppSettings   `json:"app_settings"`
}

type SMTPSettings struct {
	Provider          string `json:"provider"`
	SendGridAPIKey    string `json:"sendgrid_api_key"`
	SendGridFromEmail string `json:"sendgrid_from_email"`
	GmailUser         string `json:"gmail_user"`
	GmailPassword     string `json:"gmail_password"`
	O365User          string `json:"o365_user"`
	O365Password      string `json:"o365_password"`
	CustomServer      string `json:"custom_server"`
	CustomPort        int    `json:"custom_port"`
	CustomUser        string `json:"custom_user"`
	CustomPassword    string `json:"custom_password"`
	CustomFrom        string `json:"custom_from"`
	CustomUseTLS      bool   `json:"custom_use_tls"`
}

type AdminSettings struct {
	DefaultAdminEmail string `json:"default_admin_email"`
	CCEmails          string `json:"cc_emails"`
	AutoSend          bool   `json:"auto_send"`
}

type AppSettings struct {
	DefaultDiscount float64 `json:"default_discount"`
	Currency        string  `json:"currency"`
}

const (
	ProviderSendGrid = "SendGrid"
	ProviderGmail    = "Gmail"
	ProviderO365     = "Outlook/Office365"
	ProviderCustom   = "Custom SMTP"
)

// SMTPConfig is the resolved transport for whichever provider is selected.
type SMTPConfig struct {
	Enabled  bool
	Provider string
	Server   string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

func DefaultSettings() Settings {
	return Settings{
		SMTP: SMTPSettings{
			CustomPort:   587,
			CustomUseTLS: true,
		},
		Admin: AdminSettings{
			DefaultAdminEmail: "netrates@example.co.uk",
		},
		App: AppSettings{
			Currency: "GBP",
		},
	}
}

// SMTPConfig resolves the selected provider to concrete SMTP parameters,
// mirroring the provider presets the settings panel offers.
func (s Settings) SMTPConfig() SMTPConfig {
	m := s.SMTP
	switch m.Provider {
	case ProviderSendGrid:
		if m.SendGridAPIKey != "" && m.SendGridFromEmail != "" {
			return SMTPConfig{
				Enabled: true, Provider: ProviderSendGrid,
				Server: "smtp.sendgrid.net", Port: 587,
				Username: "apikey", Password: m.SendGridAPIKey,
				From: m.SendGridFromEmail, UseTLS: true,
			}
		}
	case ProviderGmail:
		if m.GmailUser != "" && m.GmailPassword != "" {
			return SMTPConfig{
				Enabled: true, Provider: ProviderGmail,
				Server: "smtp.gmail.com", Port: 587,
				Username: m.GmailUser, Password: m.GmailPassword,
				From: m.GmailUser, UseTLS: true,
			}
		}
	case ProviderO365:
		if m.O365User != "" && m.O365Password != "" {
			return SMTPConfig{
				Enabled: true, Provider: ProviderO365,
				Server: "smtp.office365.com", Port: 587,
				Username: m.O365User, Password: m.O365Password,
				From: m.O365User, UseTLS: true,
			}
		}
	case ProviderCustom:
		if m.CustomServer != "" && m.CustomUser != "" && m.CustomPassword != "" {
			from := m.CustomFrom
			if from == "" {
				from = m.CustomUser
			}
			port := m.CustomPort
			if port == 0 {
				port = 587
			}
			return SMTPConfig{
				Enabled: true, Provider: ProviderCustom,
				Server: m.CustomServer, Port: port,
				Username: m.CustomUser, Password: m.CustomPassword,
				From: from, UseTLS: m.CustomUseTLS,
			}
		}
	}
	return SMTPConfig{}
}

// SettingsStore serializes concurrent handler access to the settings file.
type SettingsStore struct {
	mu       sync.RWMutex
	path     string
	settings Settings
}

// OpenSettings loads the settings document, writing defaults when the file
// does not exist yet.
func OpenSettings(path string) (*SettingsStore, error) {
	st := &SettingsStore{path: path, settings: DefaultSettings()}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := st.write(); err != nil {
			return nil, err
		}
		return st, nil
	}

	// Unmarshal over defaults so keys added since the file was written keep
	// their default values.
	if err := json.Unmarshal(data, &st.settings); err != nil {
		return nil, err
	}
	return st, nil
}

func (st *SettingsStore) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings
}

func (st *SettingsStore) Update(fn func(*Settings)) (Settings, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.settings)
	if err := st.write(); err != nil {
		return st.settings, err
	}
	return st.settings, nil
}

func (st *SettingsStore) write() error {
	data, err := json.MarshalIndent(st.settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(st.path, data, 0o600)
}
