// Package types - Cost breakdown types
package types

import "github.com/shopspring/decimal"

// CostBreakdown is the derived cost of one quote line. It is recomputed on
// every input change and never independently mutated.
type CostBreakdown struct {
	// FilletingAmount is the base processing rate, applied once per line
	// (not multiplied by quantity)
	FilletingAmount decimal.Decimal `json:"filleting_amount"`

	// PackagingAmount follows the same per-line unit convention
	PackagingAmount decimal.Decimal `json:"packaging_amount"`

	// AdditionalCharges is filing rate plus enabled pallet/terminal charges
	AdditionalCharges decimal.Decimal `json:"additional_charges"`

	// FreezingCharge is the fixed freezing rate for frozen products
	FreezingCharge decimal.Decimal `json:"freezing_charge"`

	// OptionalTotal sums all optional charges currently on the line
	OptionalTotal decimal.Decimal `json:"optional_total"`

	// FrozenFlatFees are the per-kg reception/dispatch fees and the
	// per-week storage charge (frozen products only)
	FrozenFlatFees decimal.Decimal `json:"frozen_flat_fees"`

	// Subtotal is the base for percentage fees
	Subtotal decimal.Decimal `json:"subtotal"`

	// PercentageFees are the environmental/electricity fees computed over
	// Subtotal (frozen products only)
	PercentageFees decimal.Decimal `json:"percentage_fees"`

	Total decimal.Decimal `json:"total"`

	// CostPerKg is Total divided by quantity, or zero when quantity is zero
	CostPerKg decimal.Decimal `json:"cost_per_kg"`

	// StorageWeeks is the billable whole-week count used in the storage
	// charge, kept for display labels
	StorageWeeks int64 `json:"storage_weeks"`
}
