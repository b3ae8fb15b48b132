// Package types - Job specification types
package types

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductType distinguishes fresh from frozen processing
type ProductType string

const (
	ProductFresh  ProductType = "Fresh"
	ProductFrozen ProductType = "Frozen"
)

// String returns the string representation
func (p ProductType) String() string {
	return string(p)
}

// FreezingMethod identifies how a frozen product is frozen.
// Rates are fixed per kg and are not factory-configurable.
type FreezingMethod string

const (
	FreezingNone   FreezingMethod = ""
	FreezingTunnel FreezingMethod = "Tunnel Freezing"
	FreezingGyro   FreezingMethod = "Gyro Freezing"
)

// Rate returns the fixed per-kg freezing rate for the method
func (m FreezingMethod) Rate() decimal.Decimal {
	switch m {
	case FreezingTunnel:
		return decimal.NewFromFloat(1.65)
	case FreezingGyro:
		return decimal.NewFromFloat(2.00)
	default:
		return decimal.Zero
	}
}

// FreezingMethodFromInstructions infers the freezing method from free-text
// special instructions, defaulting to tunnel freezing when unspecified.
func FreezingMethodFromInstructions(instructions string) FreezingMethod {
	s := strings.ToLower(instructions)
	if strings.Contains(s, "gyro") {
		return FreezingGyro
	}
	return FreezingTunnel
}

// JobSpec is one quote line's fully-specified processing job.
// It is created per line item, mutated interactively, and discarded on save.
type JobSpec struct {
	ProductType ProductType `json:"product_type"`
	Product     string      `json:"product"`
	TrimType    string      `json:"trim_type"`
	RMSpec      string      `json:"rm_spec"`

	FreezingMethod FreezingMethod `json:"freezing_method"`

	// Quantity is the job quantity in kg
	Quantity decimal.Decimal `json:"quantity"`

	// YieldValue is the percentage recovery of raw material into finished
	// product (0-100); required before yield-scaled charges can be enabled
	YieldValue float64 `json:"yield_value"`

	BoxQty        string `json:"box_qty"`
	PackagingType string `json:"packaging_type"`
	TransportMode string `json:"transport_mode"`

	// FilingRate is a free-form per-line surcharge included in the
	// additional charges
	FilingRate decimal.Decimal `json:"filing_rate"`

	IsStorageRequired bool `json:"is_storage_required"`

	// NumberOfWeeks is the storage duration; fractional weeks are billed
	// as whole weeks
	NumberOfWeeks float64 `json:"number_of_weeks"`
}

// StorageWeeks returns the billable whole-week count. Both the storage
// charge and any displayed week label must use this value.
func (j *JobSpec) StorageWeeks() int64 {
	if j.NumberOfWeeks <= 0 {
		return 0
	}
	return int64(math.Ceil(j.NumberOfWeeks))
}

// OptionalCharge is one named charge on a quote line. Computed charges
// (Prod A/B, Descaling, Portion Skin On/Off) are inserted and removed by
// toggle transitions; all others are user-entered and persisted verbatim.
type OptionalCharge struct {
	Name  string          `json:"charge_name"`
	Value decimal.Decimal `json:"charge_value"`
}

// EnquiryItem is the external row shape used to seed a JobSpec.
// Pure data ingestion; not part of the pricing logic.
type EnquiryItem struct {
	ProductDescription  string  `json:"product_description"`
	RequestedQuantity   float64 `json:"requested_quantity"`
	ProductType         string  `json:"product_type"`
	Product             string  `json:"product"`
	TrimType            string  `json:"trim_type"`
	RMSpec              string  `json:"rm_spec"`
	PackagingType       string  `json:"packaging_type"`
	BoxQuantity         string  `json:"box_quantity"`
	SpecialInstructions string  `json:"special_instructions"`
}
