package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"procost/internal/config"
	"procost/internal/errors"
)

const factorySrc = `
factory "nordfjord" {
  name     = "Nordfjord Seafood"
  location = "Nordfjord, Norway"
  currency = "NOK"

  pallet_charge                = 2.0
  terminal_charge              = 3.0
  reception_fee                = 0.5
  dispatch_fee                 = 0.3
  environmental_fee_percentage = 10
  electricity_fee_percentage   = 5
  storage_rate                 = 4.0

  rate {
    product     = "Salmon"
    trim_type   = "A"
    rm_spec     = "1-2kg"
    rate_per_kg = 5.0
  }

  rate {
    product     = "Salmon"
    trim_type   = "B"
    rm_spec     = "1-2kg"
    rate_per_kg = 4.8
  }

  packaging {
    product_type   = "Fresh"
    product        = "Salmon"
    box_qty        = "10"
    packaging_type = "Box"
    transport_mode = "Truck"
    rate           = 1.0
  }

  charge {
    charge_name  = "Prod A/B"
    product_type = "*"
    product      = "*"
    subtype      = "*"
    rate_value   = 1.2
  }

  charge {
    charge_name  = "Prod A/B"
    product_type = "Fresh"
    product      = "Salmon"
    subtype      = "*"
    rate_value   = 1.1
  }
}
`

func TestParseFactory(t *testing.T) {
	l := NewLoader("")
	factories, err := l.Parse([]byte(factorySrc), "nordfjord.hcl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(factories) != 1 {
		t.Fatalf("expected one factory, got %d", len(factories))
	}

	f := factories[0]
	if f.ID != "nordfjord" || f.Name != "Nordfjord Seafood" || f.Currency != "NOK" {
		t.Errorf("unexpected factory header %+v", f)
	}
	if !f.PalletCharge.Equal(decimal.RequireFromString("2")) {
		t.Errorf("pallet charge: got %s", f.PalletCharge)
	}
	if !f.EnvironmentalPct.Equal(decimal.RequireFromString("10")) {
		t.Errorf("environmental pct: got %s", f.EnvironmentalPct)
	}

	if len(f.RateData) != 2 {
		t.Fatalf("expected two rate rows, got %d", len(f.RateData))
	}
	if !f.RateData[1].RatePerKg.Equal(decimal.RequireFromString("4.8")) {
		t.Errorf("rate row: got %s", f.RateData[1].RatePerKg)
	}

	if len(f.PackagingData) != 1 || f.PackagingData[0].TransportMode != "Truck" {
		t.Errorf("unexpected packaging rows %+v", f.PackagingData)
	}

	// Charge rows must keep file order: the wildcard row comes first.
	if len(f.ChargeRates) != 2 {
		t.Fatalf("expected two charge rows, got %d", len(f.ChargeRates))
	}
	if f.ChargeRates[0].Product != "*" || f.ChargeRates[1].Product != "Salmon" {
		t.Errorf("charge row order not preserved: %+v", f.ChargeRates)
	}
}

func TestParseFactoryDefaultCurrency(t *testing.T) {
	src := `
factory "mini" {
  name          = "Mini Plant"
  pallet_charge = 2.0
}
`
	l := NewLoader("")
	factories, err := l.Parse([]byte(src), "mini.hcl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := config.Get().DefaultCurrency
	if got := factories[0].Currency; got != want {
		t.Errorf("currency fallback: got %q, want %q", got, want)
	}
	if factories[0].CurrencySymbol() != want {
		t.Errorf("currency symbol: got %q", factories[0].CurrencySymbol())
	}
}

func TestParseMalformed(t *testing.T) {
	l := NewLoader("")
	if _, err := l.Parse([]byte(`factory "x" {`), "broken.hcl"); !errors.IsType(err, errors.TypeParsing) {
		t.Errorf("expected a parsing error, got %v", err)
	}
}

func TestLoadFactoryFromDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "nordfjord.hcl"), []byte(factorySrc), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir)
	f, err := l.LoadFactory(context.Background(), "nordfjord")
	if err != nil {
		t.Fatalf("LoadFactory: %v", err)
	}
	if f.Name != "Nordfjord Seafood" {
		t.Errorf("unexpected factory %+v", f)
	}

	if _, err := l.LoadFactory(context.Background(), "missing"); !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}

	ids, err := l.ListFactories(context.Background())
	if err != nil {
		t.Fatalf("ListFactories: %v", err)
	}
	if len(ids) != 1 || ids[0] != "nordfjord" {
		t.Errorf("unexpected ids %v", ids)
	}
}
