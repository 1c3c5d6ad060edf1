package pricelist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"netrates/internal/domain"
)

func testItems() []domain.EquipmentItem {
	return []domain.EquipmentItem{
		{ID: 1, EquipmentName: "Breaker", ItemCategory: "Breaking", GroupName: "Tools", SubSection: "Electric", HireRateWeekly: 100, MaxDiscount: 50},
		{ID: 2, EquipmentName: "Drill", ItemCategory: "Drilling", GroupName: "Tools", SubSection: "Electric", HireRateWeekly: 80, MaxDiscount: 20},
		{ID: 3, EquipmentName: "Boom Lift", ItemCategory: "Access", GroupName: "Access", SubSection: "", POA: true, MaxDiscount: 100},
	}
}

func TestResolve_GlobalDiscount(t *testing.T) {
	p := &domain.PriceList{
		GlobalDiscount: 10,
		GroupDiscounts: map[string]float64{},
		CustomPrices:   map[int64]float64{},
	}

	rows, warnings, sum := Resolve(testItems(), p)

	assert.Len(t, rows, 3)
	assert.Equal(t, 90.0, rows[0].Price)
	assert.Equal(t, "£90.00", rows[0].DisplayPrice)
	assert.Equal(t, 10.0, rows[0].DiscountPercent)
	assert.Equal(t, 72.0, rows[1].Price)
	assert.Empty(t, warnings)
	assert.Equal(t, 3, sum.ItemCount)
	assert.Equal(t, 1, sum.POACount)
	assert.Equal(t, 162.0, sum.TotalWeekly)
}

func TestResolve_GroupOverridesGlobal(t *testing.T) {
	p := &domain.PriceList{
		GlobalDiscount: 10,
		GroupDiscounts: map[string]float64{domain.GroupKey("Tools", "Electric"): 20},
		CustomPrices:   map[int64]float64{},
	}

	rows, _, _ := Resolve(testItems(), p)

	assert.Equal(t, 80.0, rows[0].Price)
	assert.Equal(t, 20.0, rows[0].DiscountPercent)
}

func TestResolve_CustomPriceWins(t *testing.T) {
	p := &domain.PriceList{
		GlobalDiscount: 10,
		GroupDiscounts: map[string]float64{domain.GroupKey("Tools", "Electric"): 20},
		CustomPrices:   map[int64]float64{1: 75},
	}

	rows, _, sum := Resolve(testItems(), p)

	assert.Equal(t, 75.0, rows[0].Price)
	assert.True(t, rows[0].CustomPrice)
	assert.Equal(t, 25.0, rows[0].DiscountPercent)
	assert.Equal(t, 1, sum.CustomPriced)
}

func TestResolve_POA(t *testing.T) {
	p := &domain.PriceList{
		GlobalDiscount: 50,
		GroupDiscounts: map[string]float64{},
		CustomPrices:   map[int64]float64{},
	}

	rows, _, sum := Resolve(testItems(), p)

	poa := rows[2]
	assert.True(t, poa.POA)
	assert.Equal(t, "POA", poa.DisplayPrice)
	assert.False(t, poa.HasDiscount)
	assert.Equal(t, 0.0, poa.Price)
	assert.Equal(t, 1, sum.POACount)
}

func TestResolve_CustomPriceOnPOAItem(t *testing.T) {
	p := &domain.PriceList{
		GroupDiscounts: map[string]float64{},
		CustomPrices:   map[int64]float64{3: 250},
	}

	rows, _, sum := Resolve(testItems(), p)

	poa := rows[2]
	assert.Equal(t, 250.0, poa.Price)
	assert.Equal(t, "£250.00", poa.DisplayPrice)
	// No reference rate, so no discount percentage either.
	assert.False(t, poa.HasDiscount)
	assert.Equal(t, 0, sum.POACount)
	assert.Equal(t, 250.0, sum.TotalWeekly)
}

func TestResolve_WarningAboveMaxDiscount(t *testing.T) {
	p := &domain.PriceList{
		GlobalDiscount: 30,
		GroupDiscounts: map[string]float64{},
		CustomPrices:   map[int64]float64{},
	}

	rows, warnings, _ := Resolve(testItems(), p)

	// Drill has MaxDiscount 20; the price still applies.
	assert.Equal(t, 56.0, rows[1].Price)
	assert.Len(t, warnings, 1)
	assert.Equal(t, int64(2), warnings[0].ItemID)
	assert.Equal(t, 30.0, warnings[0].Requested)
	assert.Equal(t, 20.0, warnings[0].MaxDiscount)
}

func TestResolve_CustomAboveRateWarnsWhenNegativeBelowFloor(t *testing.T) {
	// A custom price above list produces a negative discount, which can never
	// breach the ceiling.
	p := &domain.PriceList{
		GroupDiscounts: map[string]float64{},
		CustomPrices:   map[int64]float64{1: 120},
	}

	rows, warnings, _ := Resolve(testItems(), p)

	assert.Equal(t, -20.0, rows[0].DiscountPercent)
	assert.Empty(t, warnings)
}

func TestResolve_Rounding(t *testing.T) {
	items := []domain.EquipmentItem{
		{ID: 1, EquipmentName: "Saw", GroupName: "Tools", HireRateWeekly: 99.99, MaxDiscount: 100},
	}
	p := &domain.PriceList{
		GlobalDiscount: 33.333,
		GroupDiscounts: map[string]float64{},
		CustomPrices:   map[int64]float64{},
	}

	rows, _, _ := Resolve(items, p)

	assert.Equal(t, 66.66, rows[0].Price)
	assert.Equal(t, 33.3, rows[0].DiscountPercent)
}

func TestResolveTransport_Defaults(t *testing.T) {
	charges := ResolveTransport(nil)

	assert.Len(t, charges, 8)
	byType := map[string]domain.TransportCharge{}
	for _, c := range charges {
		byType[c.DeliveryType] = c
	}
	assert.Equal(t, "5", byType["Standard - small tools"].Charge)
	assert.Equal(t, "7.5", byType["Towables"].Charge)
	assert.Equal(t, "Negotiable", byType["Powered Access"].Charge)
	assert.True(t, byType["Powered Access"].Fixed)
}

func TestResolveTransport_OverridesSkipFixedRows(t *testing.T) {
	charges := ResolveTransport(map[string]string{
		"Towables":       "12",
		"Powered Access": "99",
	})

	byType := map[string]domain.TransportCharge{}
	for _, c := range charges {
		byType[c.DeliveryType] = c
	}
	assert.Equal(t, "12", byType["Towables"].Charge)
	assert.Equal(t, "Negotiable", byType["Powered Access"].Charge)
}
