package quote

import (
	"github.com/shopspring/decimal"

	"procost/core/catalog"
	"procost/core/types"
)

var hundred = decimal.NewFromInt(100)

// Compose derives the cost breakdown for one fully-specified job line.
// It is deterministic and side-effect-free: identical inputs produce an
// identical breakdown, and the catalog's reference data is only read.
//
// The step order matters for auditability. Filleting and packaging amounts
// are per-line charges and are NOT multiplied by quantity, while the frozen
// flat fees (reception, dispatch) ARE per kg and scale with quantity; this
// asymmetry is intentional and must not be "fixed" here.
func Compose(cat *catalog.Catalog, job *types.JobSpec, toggles Toggles, optionalCharges []types.OptionalCharge) types.CostBreakdown {
	factory := cat.Factory()
	frozen := job.ProductType == types.ProductFrozen

	var b types.CostBreakdown

	// 1. Base processing rate; a lookup miss contributes zero.
	if rate, ok := cat.BaseRate(job.Product, job.TrimType, job.RMSpec); ok {
		b.FilletingAmount = rate
	}

	// 2. Packaging rate, same unit convention.
	if row, ok := cat.Packaging(job.Product, job.ProductType, job.BoxQty, job.PackagingType); ok {
		b.PackagingAmount = row.Rate
	}

	// 3. Filing rate plus the enabled pallet/terminal charges.
	b.AdditionalCharges = job.FilingRate
	if toggles.PalletCharge {
		b.AdditionalCharges = b.AdditionalCharges.Add(factory.PalletCharge)
	}
	if toggles.TerminalCharge {
		b.AdditionalCharges = b.AdditionalCharges.Add(factory.TerminalCharge)
	}

	// 4. Fixed freezing rate, frozen products only.
	if frozen && job.FreezingMethod != types.FreezingNone {
		b.FreezingCharge = job.FreezingMethod.Rate()
	}

	// 5. Everything currently in the optional charge list.
	for _, c := range optionalCharges {
		b.OptionalTotal = b.OptionalTotal.Add(c.Value)
	}

	// 6. Per-kg reception/dispatch fees and the per-week storage charge.
	b.StorageWeeks = job.StorageWeeks()
	if frozen {
		if toggles.ReceptionFee {
			b.FrozenFlatFees = b.FrozenFlatFees.Add(factory.ReceptionFee.Mul(job.Quantity))
		}
		if toggles.DispatchFee {
			b.FrozenFlatFees = b.FrozenFlatFees.Add(factory.DispatchFee.Mul(job.Quantity))
		}
		if job.IsStorageRequired {
			weeks := decimal.NewFromInt(b.StorageWeeks)
			b.FrozenFlatFees = b.FrozenFlatFees.Add(weeks.Mul(factory.StorageRate))
		}
	}

	// 7. Subtotal is the base for the percentage fees and includes the
	// frozen flat fees.
	b.Subtotal = b.FilletingAmount.
		Add(b.PackagingAmount).
		Add(b.AdditionalCharges).
		Add(b.OptionalTotal).
		Add(b.FreezingCharge).
		Add(b.FrozenFlatFees)

	// 8. Environmental/electricity percentage fees, frozen products only.
	if frozen {
		if toggles.EnvironmentalFee {
			b.PercentageFees = b.PercentageFees.Add(b.Subtotal.Mul(factory.EnvironmentalPct).Div(hundred))
		}
		if toggles.ElectricityFee {
			b.PercentageFees = b.PercentageFees.Add(b.Subtotal.Mul(factory.ElectricityPct).Div(hundred))
		}
	}

	// 9-10. Total and per-kg cost. Quantity at or below zero is not an
	// error; cost per kg is simply zero.
	b.Total = b.Subtotal.Add(b.PercentageFees)
	if job.Quantity.IsPositive() {
		b.CostPerKg = b.Total.Div(job.Quantity)
	}

	return b
}
