package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// webhookProvider hands the message to an external delivery endpoint as a
// JSON POST with base64 attachments.
type webhookProvider struct {
	url    string
	client *http.Client
}

func newWebhookProvider(url string) *webhookProvider {
	return &webhookProvider{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *webhookProvider) Name() string { return "webhook" }

type webhookAttachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

type webhookPayload struct {
	To          []string            `json:"to"`
	CC          []string            `json:"cc,omitempty"`
	Subject     string              `json:"subject"`
	Body        string              `json:"body"`
	Attachments []webhookAttachment `json:"attachments,omitempty"`
}

func (p *webhookProvider) Send(ctx context.Context, msg Message) error {
	payload := webhookPayload{
		To:      msg.To,
		CC:      msg.CC,
		Subject: msg.Subject,
		Body:    msg.Body,
	}
	for _, a := range msg.Attachments {
		payload.Attachments = append(payload.Attachments, webhookAttachment{
			Filename:    a.Name,
			ContentType: a.ContentType,
			Content:     base64.StdEncoding.EncodeToString(a.Data),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: status %d", resp.StatusCode)
	}
	return nil
}
