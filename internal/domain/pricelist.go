package domain

import "time"

// PriceList is a draft net-rates quote built against one rate sheet. The
// discount and price maps mirror what the user has typed so far; resolved
// prices are always recomputed from these inputs, never stored.
type PriceList struct {
	ID             int64              `json:"-"`
	PublicID       string             `json:"id"`
	SheetID        int64              `json:"sheet_id"`
	CustomerName   string             `json:"customer_name"`
	CustomerEmail  string             `json:"customer_email"`
	GlobalDiscount float64            `json:"global_discount"`
	GroupDiscounts map[string]float64 `json:"group_discounts"` // keyed by GroupKey
	CustomPrices   map[int64]float64  `json:"custom_prices"`   // keyed by item ID
	Transport      map[string]string  `json:"transport"`       // keyed by delivery type
	HeaderTemplate string             `json:"header_template"`
	Logo           []byte             `json:"-"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// TransportCharge is one delivery/collection line of the transport table.
type TransportCharge struct {
	DeliveryType string `json:"delivery_type"`
	Charge       string `json:"charge"`
	Fixed        bool   `json:"fixed"`
}
