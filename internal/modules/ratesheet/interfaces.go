package ratesheet

import (
	"context"

	"netrates/internal/domain"
)

// SheetRepository persists rate sheets and their rows.
type SheetRepository interface {
	CreateWithItems(ctx context.Context, sheet *domain.RateSheet, items []domain.EquipmentItem) error
	List(ctx context.Context) ([]domain.RateSheet, error)
	GetByID(ctx context.Context, id int64) (*domain.RateSheet, error)
	GetItems(ctx context.Context, sheetID int64) ([]domain.EquipmentItem, error)
	Delete(ctx context.Context, id int64) error
}
