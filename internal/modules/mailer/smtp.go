package mailer

import (
	"context"
	"crypto/tls"
	"io"

	gomail "gopkg.in/gomail.v2"

	"netrates/internal/config"
)

type smtpProvider struct {
	cfg config.SMTPConfig
}

func newSMTPProvider(cfg config.SMTPConfig) *smtpProvider {
	return &smtpProvider{cfg: cfg}
}

func (p *smtpProvider) Name() string { return "smtp" }

func (p *smtpProvider) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", p.cfg.From)
	m.SetHeader("To", msg.To...)
	if len(msg.CC) > 0 {
		m.SetHeader("Cc", msg.CC...)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)

	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	d := p.dialer()

	// gomail dials synchronously; honor a cancelled context before starting.
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.DialAndSend(m)
}

func (p *smtpProvider) dialer() *gomail.Dialer {
	d := gomail.NewDialer(p.cfg.Server, p.cfg.Port, p.cfg.Username, p.cfg.Password)
	if p.cfg.UseTLS {
		// Port 465 is implicit TLS; other ports negotiate STARTTLS with
		// certificate verification against the configured host.
		d.SSL = p.cfg.Port == 465
		d.TLSConfig = &tls.Config{ServerName: p.cfg.Server}
	}
	return d
}
