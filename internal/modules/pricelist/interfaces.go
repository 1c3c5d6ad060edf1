package pricelist

import (
	"context"

	"netrates/internal/domain"
)

// PriceListRepository persists draft state.
type PriceListRepository interface {
	Create(ctx context.Context, p *domain.PriceList) error
	GetByPublicID(ctx context.Context, publicID string) (*domain.PriceList, error)
	Update(ctx context.Context, p *domain.PriceList) error
	Delete(ctx context.Context, publicID string) error
}

// SheetReader provides the rate sheet rows a draft prices against.
type SheetReader interface {
	GetByID(ctx context.Context, id int64) (*domain.RateSheet, error)
	GetItems(ctx context.Context, sheetID int64) ([]domain.EquipmentItem, error)
}
