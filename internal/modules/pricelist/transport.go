package pricelist

import "netrates/internal/domain"

// transportDefaults is the fixed delivery/collection table, in display order.
// Powered Access is always negotiated and never carries an editable charge.
var transportDefaults = []domain.TransportCharge{
	{DeliveryType: "Standard - small tools", Charge: "5"},
	{DeliveryType: "Towables", Charge: "7.5"},
	{DeliveryType: "Non-mechanical", Charge: "10"},
	{DeliveryType: "Fencing", Charge: "15"},
	{DeliveryType: "Tower", Charge: "5"},
	{DeliveryType: "Powered Access", Charge: "Negotiable", Fixed: true},
	{DeliveryType: "Low-level Access", Charge: "5"},
	{DeliveryType: "Long Distance", Charge: "15"},
}

// DefaultTransport returns a fresh copy of the default table.
func DefaultTransport() []domain.TransportCharge {
	out := make([]domain.TransportCharge, len(transportDefaults))
	copy(out, transportDefaults)
	return out
}

// ResolveTransport overlays user overrides on the defaults. Overrides for
// fixed rows are ignored.
func ResolveTransport(overrides map[string]string) []domain.TransportCharge {
	out := DefaultTransport()
	for i := range out {
		if out[i].Fixed {
			continue
		}
		if v, ok := overrides[out[i].DeliveryType]; ok {
			out[i].Charge = v
		}
	}
	return out
}

func transportEntry(deliveryType string) (domain.TransportCharge, bool) {
	for _, t := range transportDefaults {
		if t.DeliveryType == deliveryType {
			return t, true
		}
	}
	return domain.TransportCharge{}, false
}
