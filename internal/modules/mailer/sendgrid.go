package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridProvider struct {
	apiKey string
	from   string
}

func newSendGridProvider(apiKey, from string) *sendGridProvider {
	return &sendGridProvider{apiKey: apiKey, from: from}
}

func (p *sendGridProvider) Name() string { return "sendgrid" }

func (p *sendGridProvider) Send(ctx context.Context, msg Message) error {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail("", p.from))
	m.Subject = msg.Subject

	pz := mail.NewPersonalization()
	for _, to := range msg.To {
		pz.AddTos(mail.NewEmail("", to))
	}
	for _, cc := range msg.CC {
		pz.AddCCs(mail.NewEmail("", cc))
	}
	m.AddPersonalizations(pz)
	m.AddContent(mail.NewContent("text/html", msg.Body))

	for _, a := range msg.Attachments {
		att := mail.NewAttachment()
		att.SetFilename(a.Name)
		att.SetType(a.ContentType)
		att.SetContent(base64.StdEncoding.EncodeToString(a.Data))
		att.SetDisposition("attachment")
		m.AddAttachment(att)
	}

	client := sendgrid.NewSendClient(p.apiKey)
	resp, err := client.SendWithContext(ctx, m)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
