package domain

import "time"

// RateSheet is one imported rates workbook.
type RateSheet struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	SourceFile string    `json:"source_file"`
	ItemCount  int       `json:"item_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// EquipmentItem is a single row of a rate sheet. POA rows carry no usable
// HireRateWeekly; the flag wins over the stored zero.
type EquipmentItem struct {
	ID             int64   `json:"id"`
	SheetID        int64   `json:"sheet_id"`
	ItemCategory   string  `json:"item_category"`
	EquipmentName  string  `json:"equipment_name"`
	HireRateWeekly float64 `json:"hire_rate_weekly"`
	POA            bool    `json:"poa"`
	GroupName      string  `json:"group_name"`
	SubSection     string  `json:"sub_section"`
	MaxDiscount    float64 `json:"max_discount"`
	Include        bool    `json:"include"`
	SortOrder      int     `json:"order"`
}

// GroupKey builds the map key used for group-level discounts.
func GroupKey(group, subSection string) string {
	return group + "|" + subSection
}
