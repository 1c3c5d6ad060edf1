package ratesheet

import "netrates/internal/domain"

// SheetGroup is one (group, subsection) block of a sheet in presentation
// order.
type SheetGroup struct {
	GroupName  string                 `json:"group_name"`
	SubSection string                 `json:"sub_section"`
	Items      []domain.EquipmentItem `json:"items"`
}

type SheetDetails struct {
	Sheet  domain.RateSheet `json:"sheet"`
	Groups []SheetGroup     `json:"groups"`
}
