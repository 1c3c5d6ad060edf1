package mailer

import (
	"context"

	"netrates/internal/domain"
	"netrates/internal/modules/export"
	"netrates/internal/modules/pricelist"
)

// DraftReader resolves the draft the email is about.
type DraftReader interface {
	Get(ctx context.Context, publicID string) (*pricelist.View, error)
}

// Exporter renders the attachments.
type Exporter interface {
	Excel(ctx context.Context, publicID string) (*export.File, error)
	JSON(ctx context.Context, publicID string) (*export.File, error)
}

// EmailLog records dispatch attempts and serves the analytics panel.
type EmailLog interface {
	Create(ctx context.Context, rec *domain.EmailRecord) error
	Summary(ctx context.Context) ([]domain.EmailStatusCount, error)
	Recent(ctx context.Context, limit int) ([]domain.EmailRecord, error)
}

// Provider is one way of getting a message out the door.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}
