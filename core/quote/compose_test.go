package quote

import (
	"testing"

	"github.com/shopspring/decimal"

	"procost/core/catalog"
	"procost/core/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func composeFactory() *types.Factory {
	return &types.Factory{
		ID:       "f1",
		Name:     "Test Factory",
		Currency: "NOK",
		RateData: []types.RateRow{
			{Product: "Salmon", TrimType: "A", RMSpec: "1-2kg", RatePerKg: dec("5.0")},
		},
		PackagingData: []types.PackagingRow{
			{ProductType: "Fresh", Product: "Salmon", BoxQty: "10", PackagingType: "Box", TransportMode: "Truck", Rate: dec("1.0")},
			{ProductType: "Frozen", Product: "Salmon", BoxQty: "10", PackagingType: "Box", TransportMode: "Truck", Rate: dec("1.0")},
		},
		PalletCharge:     dec("2"),
		TerminalCharge:   dec("3"),
		ReceptionFee:     dec("0.5"),
		DispatchFee:      dec("0.3"),
		EnvironmentalPct: dec("10"),
		StorageRate:      dec("4"),
	}
}

func freshJob() types.JobSpec {
	return types.JobSpec{
		ProductType:   types.ProductFresh,
		Product:       "Salmon",
		TrimType:      "A",
		RMSpec:        "1-2kg",
		Quantity:      dec("100"),
		BoxQty:        "10",
		PackagingType: "Box",
	}
}

func TestComposeFresh(t *testing.T) {
	cat := catalog.New(composeFactory())
	job := freshJob()
	toggles := DefaultToggles()

	b := Compose(cat, &job, toggles, nil)

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"filleting", b.FilletingAmount, "5.0"},
		{"packaging", b.PackagingAmount, "1.0"},
		{"additional", b.AdditionalCharges, "5"},
		{"freezing", b.FreezingCharge, "0"},
		{"frozen flat fees", b.FrozenFlatFees, "0"},
		{"subtotal", b.Subtotal, "11.0"},
		{"percentage fees", b.PercentageFees, "0"},
		{"total", b.Total, "11.0"},
		{"cost per kg", b.CostPerKg, "0.11"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("%s: expected %s, got %s", c.name, c.want, c.got)
		}
	}
}

// TestComposeFrozen proves the frozen fee path: per-kg reception/dispatch
// fees scale with quantity and the percentage fees are computed over the
// subtotal that already includes them.
func TestComposeFrozen(t *testing.T) {
	cat := catalog.New(composeFactory())
	job := freshJob()
	job.ProductType = types.ProductFrozen
	job.FreezingMethod = types.FreezingTunnel

	toggles := DefaultToggles()
	toggles.ReceptionFee = true
	toggles.DispatchFee = true
	toggles.EnvironmentalFee = true
	toggles.ElectricityFee = true // factory rate unset, contributes zero

	b := Compose(cat, &job, toggles, nil)

	if !b.FreezingCharge.Equal(dec("1.65")) {
		t.Errorf("freezing charge: expected 1.65, got %s", b.FreezingCharge)
	}
	if !b.FrozenFlatFees.Equal(dec("80")) {
		t.Errorf("frozen flat fees: expected 80, got %s", b.FrozenFlatFees)
	}
	if !b.Subtotal.Equal(dec("92.65")) {
		t.Errorf("subtotal: expected 92.65, got %s", b.Subtotal)
	}
	if !b.PercentageFees.Equal(dec("9.265")) {
		t.Errorf("percentage fees: expected 9.265, got %s", b.PercentageFees)
	}
	if !b.Total.Equal(dec("101.915")) {
		t.Errorf("total: expected 101.915, got %s", b.Total)
	}
}

// TestComposeStorageRounding proves fractional storage weeks bill as whole
// weeks, for both the charge and the displayed week count.
func TestComposeStorageRounding(t *testing.T) {
	cat := catalog.New(composeFactory())
	job := freshJob()
	job.ProductType = types.ProductFrozen
	job.IsStorageRequired = true
	job.NumberOfWeeks = 1.4

	toggles := DefaultToggles()
	b := Compose(cat, &job, toggles, nil)

	if b.StorageWeeks != 2 {
		t.Errorf("storage weeks: expected 2, got %d", b.StorageWeeks)
	}
	// 2 weeks x storage rate 4
	if !b.FrozenFlatFees.Equal(dec("8")) {
		t.Errorf("frozen flat fees: expected 8, got %s", b.FrozenFlatFees)
	}
}

// Frozen-only fees must not leak into a fresh job even with their toggles on.
func TestComposeFreshIgnoresFrozenFees(t *testing.T) {
	cat := catalog.New(composeFactory())
	job := freshJob()
	job.IsStorageRequired = true
	job.NumberOfWeeks = 3

	toggles := DefaultToggles()
	toggles.ReceptionFee = true
	toggles.DispatchFee = true
	toggles.EnvironmentalFee = true

	b := Compose(cat, &job, toggles, nil)

	if !b.FrozenFlatFees.IsZero() {
		t.Errorf("frozen flat fees on a fresh job: got %s", b.FrozenFlatFees)
	}
	if !b.PercentageFees.IsZero() {
		t.Errorf("percentage fees on a fresh job: got %s", b.PercentageFees)
	}
	if !b.Total.Equal(dec("11.0")) {
		t.Errorf("total: expected 11.0, got %s", b.Total)
	}
}

func TestComposeZeroQuantity(t *testing.T) {
	cat := catalog.New(composeFactory())
	job := freshJob()
	job.Quantity = decimal.Zero

	b := Compose(cat, &job, DefaultToggles(), nil)

	if !b.CostPerKg.IsZero() {
		t.Errorf("cost per kg with zero quantity: expected 0, got %s", b.CostPerKg)
	}
	if !b.Total.Equal(dec("11.0")) {
		t.Errorf("currency amounts must still compute: expected total 11.0, got %s", b.Total)
	}
}

func TestComposeOptionalCharges(t *testing.T) {
	cat := catalog.New(composeFactory())
	job := freshJob()

	charges := []types.OptionalCharge{
		{Name: "Extra Handling", Value: dec("1.5")},
		{Name: "Ice Pack", Value: dec("0.5")},
	}
	b := Compose(cat, &job, DefaultToggles(), charges)

	if !b.OptionalTotal.Equal(dec("2.0")) {
		t.Errorf("optional total: expected 2.0, got %s", b.OptionalTotal)
	}
	if !b.Total.Equal(dec("13.0")) {
		t.Errorf("total: expected 13.0, got %s", b.Total)
	}
}

// TestComposeDeterministic proves identical inputs produce an identical
// breakdown.
func TestComposeDeterministic(t *testing.T) {
	cat := catalog.New(composeFactory())
	job := freshJob()
	job.ProductType = types.ProductFrozen
	job.FreezingMethod = types.FreezingGyro
	job.IsStorageRequired = true
	job.NumberOfWeeks = 2.5

	toggles := DefaultToggles()
	toggles.ReceptionFee = true
	toggles.EnvironmentalFee = true

	first := Compose(cat, &job, toggles, nil)
	second := Compose(cat, &job, toggles, nil)

	if !first.Total.Equal(second.Total) || !first.CostPerKg.Equal(second.CostPerKg) {
		t.Errorf("compose is not deterministic: %s/%s vs %s/%s",
			first.Total, first.CostPerKg, second.Total, second.CostPerKg)
	}
}
