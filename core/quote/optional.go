package quote

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"procost/core/catalog"
	"procost/core/types"
)

// Names of the computed optional charges. Charges under any other name are
// user-entered and carried verbatim.
const (
	ChargeProdAB         = "Prod A/B"
	ChargeDescaling      = "Descaling"
	ChargePortionSkinOn  = "Portion Skin On"
	ChargePortionSkinOff = "Portion Skin Off"
)

// yieldScaledCharge builds a Prod A/B or Descaling charge. The stored value
// is (flatRate / yieldValue) * 100; with no yield the flat rate is used
// unscaled. The display name always embeds the flat rate, not the scaled
// value.
func yieldScaledCharge(cat *catalog.Catalog, job *types.JobSpec, chargeName string) types.OptionalCharge {
	flatRate := cat.ChargeRate(chargeName, job.ProductType, job.Product, "")

	value := flatRate
	if job.YieldValue > 0 {
		yield := decimal.NewFromFloat(job.YieldValue)
		value = flatRate.Div(yield).Mul(hundred)
	}

	return types.OptionalCharge{
		Name:  fmt.Sprintf("%s (%s%s per kg RM)", chargeName, cat.Factory().CurrencySymbol(), flatRate.StringFixed(2)),
		Value: value,
	}
}

// portionCharge builds a Portion Skin On/Off charge. The rate applies
// directly, with no yield scaling.
func portionCharge(cat *catalog.Catalog, job *types.JobSpec, chargeName string) types.OptionalCharge {
	rate := cat.ChargeRate(chargeName, job.ProductType, "Portions", "")
	return types.OptionalCharge{
		Name:  fmt.Sprintf("%s (%s%s per kg)", chargeName, cat.Factory().CurrencySymbol(), rate.StringFixed(2)),
		Value: rate,
	}
}

// appendCharge adds a charge unless one with the exact same name is already
// present, keeping toggle transitions idempotent.
func appendCharge(charges []types.OptionalCharge, charge types.OptionalCharge) []types.OptionalCharge {
	for _, c := range charges {
		if c.Name == charge.Name {
			return charges
		}
	}
	return append(charges, charge)
}

// removeChargeByName drops every charge whose name contains the given
// substring. Computed charge names embed the rate, so removal matches on
// the stable name prefix.
func removeChargeByName(charges []types.OptionalCharge, substring string) []types.OptionalCharge {
	kept := charges[:0]
	for _, c := range charges {
		if !strings.Contains(c.Name, substring) {
			kept = append(kept, c)
		}
	}
	return kept
}
