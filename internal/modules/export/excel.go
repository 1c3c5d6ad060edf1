package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"netrates/internal/modules/pricelist"
)

const (
	sheetPriceList = "Price List"
	sheetTransport = "Transport Charges"
	sheetSummary   = "Summary"
)

// buildWorkbook renders the resolved draft into a three-sheet workbook.
func buildWorkbook(view *pricelist.View) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetPriceList); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return nil, err
	}
	groupStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Italic: true},
	})
	if err != nil {
		return nil, err
	}

	title := "Net Rates Price List"
	if view.PriceList.CustomerName != "" {
		title = fmt.Sprintf("Net Rates Price List - %s", view.PriceList.CustomerName)
	}
	if err := f.MergeCell(sheetPriceList, "A1", "E1"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheetPriceList, "A1", title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetPriceList, "A1", "E1", titleStyle); err != nil {
		return nil, err
	}

	row := 3
	header := []interface{}{"Category", "Equipment", "Weekly Rate", "Discount %", "Net Price"}
	if err := f.SetSheetRow(sheetPriceList, fmt.Sprintf("A%d", row), &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetPriceList, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), headerStyle); err != nil {
		return nil, err
	}
	row++

	for _, group := range view.Groups {
		label := group.GroupName
		if group.SubSection != "" {
			label = fmt.Sprintf("%s - %s", group.GroupName, group.SubSection)
		}
		cell := fmt.Sprintf("A%d", row)
		if err := f.MergeCell(sheetPriceList, cell, fmt.Sprintf("E%d", row)); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetPriceList, cell, label); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetPriceList, cell, cell, groupStyle); err != nil {
			return nil, err
		}
		row++

		for _, r := range group.Rows {
			discount := ""
			if r.HasDiscount {
				discount = fmt.Sprintf("%.1f", r.DiscountPercent)
			}
			line := []interface{}{r.ItemCategory, r.EquipmentName, r.HireRateWeekly, discount, r.DisplayPrice}
			if err := f.SetSheetRow(sheetPriceList, fmt.Sprintf("A%d", row), &line); err != nil {
				return nil, err
			}
			row++
		}
		row++
	}

	if err := f.SetColWidth(sheetPriceList, "A", "B", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetPriceList, "C", "E", 14); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetTransport); err != nil {
		return nil, err
	}
	transportHeader := []interface{}{"Delivery Type", "Charge"}
	if err := f.SetSheetRow(sheetTransport, "A1", &transportHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetTransport, "A1", "B1", headerStyle); err != nil {
		return nil, err
	}
	for i, t := range view.Transport {
		line := []interface{}{t.DeliveryType, formatCharge(t.Charge)}
		if err := f.SetSheetRow(sheetTransport, fmt.Sprintf("A%d", i+2), &line); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheetTransport, "A", "B", 26); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, err
	}
	created := view.PriceList.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	summary := [][]interface{}{
		{"Customer", view.PriceList.CustomerName},
		{"Rate Sheet", view.SheetName},
		{"Created", created.Format("02/01/2006")},
		{"Global Discount %", view.PriceList.GlobalDiscount},
		{"Items", view.Summary.ItemCount},
		{"POA Items", view.Summary.POACount},
		{"Custom Priced", view.Summary.CustomPriced},
		{"Average Discount %", view.Summary.AverageDiscount},
		{"Total Weekly", view.Summary.TotalWeekly},
	}
	for i, line := range summary {
		if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", i+1), &line); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheetSummary, "A", "A", 22); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

// formatCharge prefixes numeric transport charges with the currency symbol
// and leaves text values (Negotiable) alone.
func formatCharge(charge string) string {
	if charge == "" {
		return charge
	}
	for _, r := range charge {
		if (r < '0' || r > '9') && r != '.' {
			return charge
		}
	}
	return "£" + charge
}
