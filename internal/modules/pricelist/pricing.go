package pricelist

import (
	"fmt"
	"math"

	"netrates/internal/domain"
)

// ResolvedRow is one priced line of the quote. POA rows without a custom
// price carry no numeric price or discount.
type ResolvedRow struct {
	ItemID          int64   `json:"item_id"`
	ItemCategory    string  `json:"item_category"`
	EquipmentName   string  `json:"equipment_name"`
	GroupName       string  `json:"group_name"`
	SubSection      string  `json:"sub_section"`
	HireRateWeekly  float64 `json:"hire_rate_weekly"`
	POA             bool    `json:"poa"`
	Price           float64 `json:"price"`
	DisplayPrice    string  `json:"display_price"`
	DiscountPercent float64 `json:"discount_percent"`
	HasDiscount     bool    `json:"has_discount"`
	CustomPrice     bool    `json:"custom_price"`
}

// Warning flags a discount above the row's configured ceiling. Non-fatal:
// the price stands, the warning travels with the response.
type Warning struct {
	ItemID        int64   `json:"item_id"`
	EquipmentName string  `json:"equipment_name"`
	Requested     float64 `json:"requested"`
	MaxDiscount   float64 `json:"max_discount"`
}

type Summary struct {
	ItemCount       int     `json:"item_count"`
	POACount        int     `json:"poa_count"`
	CustomPriced    int     `json:"custom_priced"`
	AverageDiscount float64 `json:"average_discount"`
	TotalWeekly     float64 `json:"total_weekly"`
}

// Resolve computes the effective price for every item: a custom price wins,
// then the item's group discount, then the global discount. Discount
// percentages above a row's Max Discount are collected as warnings.
func Resolve(items []domain.EquipmentItem, p *domain.PriceList) ([]ResolvedRow, []Warning, Summary) {
	rows := make([]ResolvedRow, 0, len(items))
	var warnings []Warning
	var sum Summary

	var discountTotal float64
	var discounted int

	for _, it := range items {
		row := ResolvedRow{
			ItemID:         it.ID,
			ItemCategory:   it.ItemCategory,
			EquipmentName:  it.EquipmentName,
			GroupName:      it.GroupName,
			SubSection:     it.SubSection,
			HireRateWeekly: it.HireRateWeekly,
			POA:            it.POA,
		}

		custom, hasCustom := p.CustomPrices[it.ID]

		switch {
		case hasCustom:
			row.Price = round2(custom)
			row.CustomPrice = true
			if !it.POA && it.HireRateWeekly > 0 {
				row.DiscountPercent = round1((it.HireRateWeekly - custom) / it.HireRateWeekly * 100)
				row.HasDiscount = true
			}
			row.DisplayPrice = formatGBP(row.Price)

		case it.POA:
			row.DisplayPrice = "POA"

		default:
			discount := p.GlobalDiscount
			if g, ok := p.GroupDiscounts[domain.GroupKey(it.GroupName, it.SubSection)]; ok {
				discount = g
			}
			row.Price = round2(it.HireRateWeekly * (1 - discount/100))
			row.DiscountPercent = round1(discount)
			row.HasDiscount = true
			row.DisplayPrice = formatGBP(row.Price)
		}

		if row.HasDiscount && row.DiscountPercent > it.MaxDiscount {
			warnings = append(warnings, Warning{
				ItemID:        it.ID,
				EquipmentName: it.EquipmentName,
				Requested:     row.DiscountPercent,
				MaxDiscount:   it.MaxDiscount,
			})
		}

		if row.POA && !hasCustom {
			sum.POACount++
		} else {
			sum.TotalWeekly = round2(sum.TotalWeekly + row.Price)
		}
		if row.CustomPrice {
			sum.CustomPriced++
		}
		if row.HasDiscount {
			discountTotal += row.DiscountPercent
			discounted++
		}

		rows = append(rows, row)
	}

	sum.ItemCount = len(rows)
	if discounted > 0 {
		sum.AverageDiscount = round1(discountTotal / float64(discounted))
	}

	return rows, warnings, sum
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

func formatGBP(v float64) string { return fmt.Sprintf("£%.2f", v) }
