package ratesheet

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"netrates/internal/domain"
)

// Column headings the workbook must carry, exactly as the master sheet
// names them.
var requiredColumns = []string{
	"ItemCategory",
	"EquipmentName",
	"HireRateWeekly",
	"GroupName",
	"Sub Section",
	"Max Discount",
	"Include",
	"Order",
}

const poaSentinel = "POA"

// ParseWorkbook reads the first sheet of a rates workbook into equipment
// items. All rows are returned, including excluded ones; the Include flag is
// applied at query time.
func ParseWorkbook(r io.Reader) ([]domain.EquipmentItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable .xlsx workbook", ErrValidation)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	cols, missing := mapColumns(rows[0])
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	items := make([]domain.EquipmentItem, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		name := strings.TrimSpace(cell(row, cols["EquipmentName"]))
		if name == "" {
			continue
		}

		it := domain.EquipmentItem{
			ItemCategory:  strings.TrimSpace(cell(row, cols["ItemCategory"])),
			EquipmentName: name,
			GroupName:     strings.TrimSpace(cell(row, cols["GroupName"])),
			SubSection:    strings.TrimSpace(cell(row, cols["Sub Section"])),
		}

		rate := strings.TrimSpace(cell(row, cols["HireRateWeekly"]))
		if strings.EqualFold(rate, poaSentinel) {
			it.POA = true
		} else {
			v, err := parseNumber(rate)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("%w: row %d: invalid HireRateWeekly %q", ErrValidation, i+1, rate)
			}
			it.HireRateWeekly = v
		}

		maxDisc := strings.TrimSpace(cell(row, cols["Max Discount"]))
		if maxDisc == "" {
			it.MaxDiscount = 100 // no ceiling configured
		} else {
			v, err := parseNumber(maxDisc)
			if err != nil || v < 0 || v > 100 {
				return nil, fmt.Errorf("%w: row %d: invalid Max Discount %q", ErrValidation, i+1, maxDisc)
			}
			it.MaxDiscount = v
		}

		inc, err := parseBool(cell(row, cols["Include"]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: invalid Include %q", ErrValidation, i+1, cell(row, cols["Include"]))
		}
		it.Include = inc

		ord := strings.TrimSpace(cell(row, cols["Order"]))
		if ord != "" {
			v, err := parseNumber(ord)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: invalid Order %q", ErrValidation, i+1, ord)
			}
			it.SortOrder = int(v)
		}

		items = append(items, it)
	}

	if len(items) == 0 {
		return nil, ErrEmptySheet
	}

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].GroupName != items[b].GroupName {
			return items[a].GroupName < items[b].GroupName
		}
		if items[a].SubSection != items[b].SubSection {
			return items[a].SubSection < items[b].SubSection
		}
		return items[a].SortOrder < items[b].SortOrder
	})

	return items, nil
}

func mapColumns(header []string) (map[string]int, []string) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	return cols, missing
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseNumber accepts comma decimal separators the way exported sheets often
// carry them.
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized boolean %q", s)
}
