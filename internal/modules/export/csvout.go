package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"netrates/internal/modules/pricelist"
)

// buildCSV flattens the resolved draft into one row per item, followed by
// the transport table.
func buildCSV(view *pricelist.View) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Group", "Sub Section", "Category", "Equipment", "Weekly Rate", "Discount %", "Net Price"}); err != nil {
		return nil, err
	}

	for _, r := range view.Rows {
		discount := ""
		if r.HasDiscount {
			discount = fmt.Sprintf("%.1f", r.DiscountPercent)
		}
		record := []string{
			r.GroupName,
			r.SubSection,
			r.ItemCategory,
			r.EquipmentName,
			fmt.Sprintf("%.2f", r.HireRateWeekly),
			discount,
			r.DisplayPrice,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	if err := w.Write(nil); err != nil {
		return nil, err
	}
	if err := w.Write([]string{"Delivery Type", "Charge"}); err != nil {
		return nil, err
	}
	for _, t := range view.Transport {
		if err := w.Write([]string{t.DeliveryType, formatCharge(t.Charge)}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &buf, nil
}
