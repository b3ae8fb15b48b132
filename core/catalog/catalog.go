// Package catalog provides read-only rate lookups over a factory snapshot.
// Lookups are exact-match first with wildcard fallback; within a pass the
// first matching row in table order wins.
package catalog

import (
	"github.com/shopspring/decimal"

	"procost/core/types"
)

// Catalog wraps one factory's rate tables. It only reads shared reference
// data and is safe for concurrent use.
type Catalog struct {
	factory *types.Factory
}

// New creates a catalog over a factory snapshot
func New(factory *types.Factory) *Catalog {
	return &Catalog{factory: factory}
}

// Factory returns the underlying snapshot
func (c *Catalog) Factory() *types.Factory {
	return c.factory
}

// BaseRate returns the base processing rate for an exact
// (product, trimType, rmSpec) match over the rate table.
func (c *Catalog) BaseRate(product, trimType, rmSpec string) (decimal.Decimal, bool) {
	for _, row := range c.factory.RateData {
		if row.Product == product && row.TrimType == trimType && row.RMSpec == rmSpec {
			return row.RatePerKg, true
		}
	}
	return decimal.Zero, false
}

// Packaging returns the packaging row for an exact
// (product, productType, boxQty, packagingType) match.
func (c *Catalog) Packaging(product string, productType types.ProductType, boxQty, packagingType string) (types.PackagingRow, bool) {
	for _, row := range c.factory.PackagingData {
		if row.Product == product &&
			row.ProductType == productType.String() &&
			row.BoxQty == boxQty &&
			row.PackagingType == packagingType {
			return row, true
		}
	}
	return types.PackagingRow{}, false
}

// fallbackChargeRate is the load-bearing default table used when no charge
// rate row matches. Unknown charge names default to zero.
func fallbackChargeRate(chargeName string) decimal.Decimal {
	switch chargeName {
	case "Prod A/B":
		return decimal.NewFromFloat(1.00)
	case "Descaling":
		return decimal.NewFromFloat(1.50)
	case "Portion Skin On":
		return decimal.NewFromFloat(2.50)
	case "Portion Skin Off":
		return decimal.NewFromFloat(3.00)
	default:
		return decimal.Zero
	}
}

func fieldMatches(rowValue, query string) bool {
	return rowValue == query || rowValue == types.Wildcard
}

// ChargeRate resolves a named charge rate. The lookup runs two passes:
// the first requires a subtype match (or an empty subtype query), the
// second drops the subtype constraint. Within each pass, rows matching
// product type and product exactly take precedence over wildcard rows,
// and table order breaks ties within a tier. A lookup miss is never
// surfaced; the fallback table answers instead.
func (c *Catalog) ChargeRate(chargeName string, productType types.ProductType, product, subtype string) decimal.Decimal {
	if rate, ok := c.findCharge(chargeName, productType.String(), product, subtype, true); ok {
		return rate
	}
	if rate, ok := c.findCharge(chargeName, productType.String(), product, subtype, false); ok {
		return rate
	}
	return fallbackChargeRate(chargeName)
}

func (c *Catalog) findCharge(chargeName, productType, product, subtype string, constrainSubtype bool) (decimal.Decimal, bool) {
	var wildcardHit *types.ChargeRateRow

	for i := range c.factory.ChargeRates {
		row := &c.factory.ChargeRates[i]
		if row.ChargeName != chargeName {
			continue
		}
		if !fieldMatches(row.ProductType, productType) || !fieldMatches(row.Product, product) {
			continue
		}
		if constrainSubtype && subtype != "" && row.Subtype != subtype && row.Subtype != types.Wildcard {
			continue
		}
		if row.ProductType == productType && row.Product == product {
			return row.RateValue, true
		}
		if wildcardHit == nil {
			wildcardHit = row
		}
	}

	if wildcardHit != nil {
		return wildcardHit.RateValue, true
	}
	return decimal.Zero, false
}
