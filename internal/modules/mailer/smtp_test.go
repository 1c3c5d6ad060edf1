package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netrates/internal/config"
)

func TestSMTPProvider_DialerTLS(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.SMTPConfig
		wantSSL bool
		wantTLS bool
	}{
		{
			name:    "starttls on 587",
			cfg:     config.SMTPConfig{Server: "smtp.gmail.com", Port: 587, UseTLS: true},
			wantSSL: false,
			wantTLS: true,
		},
		{
			name:    "implicit tls on 465",
			cfg:     config.SMTPConfig{Server: "mail.example.co.uk", Port: 465, UseTLS: true},
			wantSSL: true,
			wantTLS: true,
		},
		{
			name:    "plaintext relay",
			cfg:     config.SMTPConfig{Server: "relay.internal", Port: 25, UseTLS: false},
			wantSSL: false,
			wantTLS: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newSMTPProvider(tc.cfg).dialer()

			assert.Equal(t, tc.cfg.Server, d.Host)
			assert.Equal(t, tc.cfg.Port, d.Port)
			assert.Equal(t, tc.wantSSL, d.SSL)
			if tc.wantTLS {
				require.NotNil(t, d.TLSConfig)
				assert.Equal(t, tc.cfg.Server, d.TLSConfig.ServerName)
			} else {
				assert.Nil(t, d.TLSConfig)
			}
		})
	}
}
