package pricelist

import (
	"time"

	"netrates/internal/domain"
)

type CreateRequest struct {
	SheetID       int64  `json:"sheet_id" binding:"required"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

// UpdateRequest carries partial edits; nil fields are left untouched.
type UpdateRequest struct {
	CustomerName   *string  `json:"customer_name"`
	CustomerEmail  *string  `json:"customer_email"`
	GlobalDiscount *float64 `json:"global_discount"`
	HeaderTemplate *string  `json:"header_template"`
}

type GroupDiscountRequest struct {
	GroupName  string  `json:"group_name" binding:"required"`
	SubSection string  `json:"sub_section"`
	Percent    float64 `json:"percent"`
}

// CustomPriceRequest sets or clears (nil price) one item's override.
type CustomPriceRequest struct {
	ItemID int64    `json:"item_id" binding:"required"`
	Price  *float64 `json:"price"`
}

type TransportRequest struct {
	DeliveryType string `json:"delivery_type" binding:"required"`
	Charge       string `json:"charge"`
}

// Snapshot is the JSON save/load document. Restoring it against the same
// sheet reproduces the exact resolved prices.
type Snapshot struct {
	SheetID        int64              `json:"sheet_id"`
	SheetName      string             `json:"sheet_name"`
	CustomerName   string             `json:"customer_name"`
	CustomerEmail  string             `json:"customer_email"`
	GlobalDiscount float64            `json:"global_discount"`
	GroupDiscounts map[string]float64 `json:"group_discounts"`
	CustomPrices   map[int64]float64  `json:"custom_prices"`
	Transport      map[string]string  `json:"transport"`
	HeaderTemplate string             `json:"header_template"`
	SavedAt        time.Time          `json:"saved_at"`
}

// ResolvedGroup is one (group, subsection) block of the resolved quote.
type ResolvedGroup struct {
	GroupName  string        `json:"group_name"`
	SubSection string        `json:"sub_section"`
	Rows       []ResolvedRow `json:"rows"`
}

// View is the fully resolved draft, shared with the export and mailer
// modules.
type View struct {
	PriceList domain.PriceList         `json:"price_list"`
	SheetName string                   `json:"sheet_name"`
	Rows      []ResolvedRow            `json:"rows"`
	Groups    []ResolvedGroup          `json:"groups"`
	Warnings  []Warning                `json:"warnings"`
	Summary   Summary                  `json:"summary"`
	Transport []domain.TransportCharge `json:"transport"`
}
