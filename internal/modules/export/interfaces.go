package export

import (
	"context"

	"netrates/internal/modules/pricelist"
)

// PriceListSource resolves drafts into the rows the export formats render.
type PriceListSource interface {
	Get(ctx context.Context, publicID string) (*pricelist.View, error)
	Snapshot(ctx context.Context, publicID string) (*pricelist.Snapshot, error)
}
