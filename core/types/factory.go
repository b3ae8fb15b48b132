// Package types - Factory reference data
package types

import "github.com/shopspring/decimal"

// Wildcard matches any product type, product, or subtype in a charge rate row.
const Wildcard = "*"

// RateRow is one base processing rate entry.
// Rows are matched exactly on all three key fields.
type RateRow struct {
	// Product is the species (e.g. "Salmon")
	Product string `json:"product"`

	// TrimType is the processing cut classification (e.g. "Fillet", "Trim A")
	TrimType string `json:"trim_type"`

	// RMSpec is the raw-material weight band (e.g. "1-2kg")
	RMSpec string `json:"rm_spec"`

	// RatePerKg is the base filleting/processing rate
	RatePerKg decimal.Decimal `json:"rate_per_kg"`
}

// PackagingRow is one packaging rate entry
type PackagingRow struct {
	ProductType string `json:"prod_type"`
	Product     string `json:"product"`

	// BoxQty is the box quantity label (kept as a string, e.g. "10")
	BoxQty string `json:"box_qty"`

	// PackagingType is the pack style (e.g. "Box", "EPS")
	PackagingType string `json:"pack"`

	// TransportMode is implied by the packaging choice (e.g. "Truck")
	TransportMode string `json:"transport_mode"`

	// Rate is the packaging rate for this combination
	Rate decimal.Decimal `json:"packaging_rate"`
}

// ChargeRateRow is one named charge rate entry.
// ProductType, Product and Subtype may be the Wildcard.
type ChargeRateRow struct {
	ChargeName  string          `json:"charge_name"`
	ProductType string          `json:"product_type"`
	Product     string          `json:"product"`
	Subtype     string          `json:"subtype"`
	RateValue   decimal.Decimal `json:"rate_value"`
}

// Factory is an immutable snapshot of one factory's reference data.
// Table order is significant: lookups return the first matching row,
// so slices must preserve source order and are never re-sorted.
type Factory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`

	// Currency is the factory's currency code, used as the display prefix
	// in computed charge names
	Currency string `json:"currency"`

	RateData      []RateRow       `json:"rate_data"`
	PackagingData []PackagingRow  `json:"packaging_data"`
	ChargeRates   []ChargeRateRow `json:"charge_rates"`

	// Scalar per-factory fees
	PalletCharge     decimal.Decimal `json:"pallet_charge"`
	TerminalCharge   decimal.Decimal `json:"terminal_charge"`
	ReceptionFee     decimal.Decimal `json:"reception_fee"`
	DispatchFee      decimal.Decimal `json:"dispatch_fee"`
	EnvironmentalPct decimal.Decimal `json:"environmental_fee_percentage"`
	ElectricityPct   decimal.Decimal `json:"electricity_fee_percentage"`
	StorageRate      decimal.Decimal `json:"storage_rate"`
}

// CurrencySymbol returns the prefix used in computed charge display names
func (f *Factory) CurrencySymbol() string {
	if f == nil || f.Currency == "" {
		return "$"
	}
	return f.Currency
}
