package quote

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"procost/core/catalog"
	"procost/core/types"
	"procost/internal/errors"
	"procost/internal/logging"
)

// Line is one quote line: a job specification, its toggle state, and its
// optional charge list, with the derived breakdown recomputed after every
// change. Mutations on a single line are serialized by the line's mutex;
// distinct lines are independent.
type Line struct {
	mu sync.Mutex

	// ID identifies the line across edits and saves
	ID string

	cat       *catalog.Catalog
	job       types.JobSpec
	toggles   Toggles
	optional  []types.OptionalCharge
	breakdown types.CostBreakdown
}

// NewLine creates a line with default toggles and recomputes the breakdown.
// When the product is "Portions" exactly one portion toggle must be active,
// so Portion Skin On is enabled up front.
func NewLine(cat *catalog.Catalog, job types.JobSpec) *Line {
	l := &Line{
		ID:      uuid.New().String(),
		cat:     cat,
		job:     job,
		toggles: DefaultToggles(),
	}
	if l.job.Product == "Portions" {
		l.toggles.PortionSkinOn = true
		l.optional = appendCharge(l.optional, portionCharge(cat, &l.job, ChargePortionSkinOn))
	}
	l.recompute()
	return l
}

// LineFromEnquiryItem seeds a line from an externally loaded enquiry row.
// Frozen items get their freezing method inferred from the special
// instructions text.
func LineFromEnquiryItem(cat *catalog.Catalog, item types.EnquiryItem) *Line {
	job := types.JobSpec{
		ProductType:   types.ProductType(item.ProductType),
		Product:       item.Product,
		TrimType:      item.TrimType,
		RMSpec:        item.RMSpec,
		Quantity:      decimal.NewFromFloat(item.RequestedQuantity),
		BoxQty:        item.BoxQuantity,
		PackagingType: item.PackagingType,
		NumberOfWeeks: 1.0,
	}
	if job.ProductType == types.ProductFrozen {
		job.FreezingMethod = types.FreezingMethodFromInstructions(item.SpecialInstructions)
	}
	logging.Debug("seeding quote line from enquiry item",
		zap.String("product", item.Product),
		zap.Float64("quantity", item.RequestedQuantity))
	return NewLine(cat, job)
}

// Breakdown returns the current derived cost breakdown.
func (l *Line) Breakdown() types.CostBreakdown {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.breakdown
}

// Job returns a copy of the current job specification.
func (l *Line) Job() types.JobSpec {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.job
}

// TogglesState returns a copy of the current toggle state.
func (l *Line) TogglesState() Toggles {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.toggles
}

// OptionalCharges returns a copy of the current optional charge list.
func (l *Line) OptionalCharges() []types.OptionalCharge {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.OptionalCharge, len(l.optional))
	copy(out, l.optional)
	return out
}

func (l *Line) recompute() {
	l.breakdown = Compose(l.cat, &l.job, l.toggles, l.optional)
}

// Toggle switches one named toggle, applying every cascading rule as a unit.
// A rejected transition returns an error with the reason and leaves the
// line's state untouched.
func (l *Line) Toggle(name string, enabled bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Work on copies so a rejection commits nothing.
	toggles := l.toggles
	optional := make([]types.OptionalCharge, len(l.optional))
	copy(optional, l.optional)

	switch name {
	case TogglePalletCharge:
		toggles.PalletCharge = enabled
	case ToggleTerminalCharge:
		toggles.TerminalCharge = enabled
	case ToggleReceptionFee:
		toggles.ReceptionFee = enabled
	case ToggleDispatchFee:
		toggles.DispatchFee = enabled
	case ToggleEnvironmentalFee:
		toggles.EnvironmentalFee = enabled
	case ToggleElectricityFee:
		toggles.ElectricityFee = enabled

	case ToggleProdAB:
		if enabled {
			if l.job.YieldValue <= 0 {
				return errors.ToggleRejected(name, "yield value is required before enabling Prod A/B")
			}
			optional = appendCharge(optional, yieldScaledCharge(l.cat, &l.job, ChargeProdAB))
		} else {
			optional = removeChargeByName(optional, ChargeProdAB)
		}
		toggles.ProdAB = enabled

	case ToggleDescaling:
		if enabled {
			if l.job.YieldValue <= 0 {
				return errors.ToggleRejected(name, "yield value is required before enabling Descaling")
			}
			optional = appendCharge(optional, yieldScaledCharge(l.cat, &l.job, ChargeDescaling))
		} else {
			optional = removeChargeByName(optional, ChargeDescaling)
		}
		toggles.Descaling = enabled

	case TogglePortionSkinOn:
		if enabled {
			toggles.PortionSkinOff = false
			optional = removeChargeByName(optional, ChargePortionSkinOff)
			optional = appendCharge(optional, portionCharge(l.cat, &l.job, ChargePortionSkinOn))
		} else {
			if l.job.Product == "Portions" && !toggles.PortionSkinOff {
				return errors.ToggleRejected(name, "Portions requires either Skin On or Skin Off to stay active")
			}
			optional = removeChargeByName(optional, ChargePortionSkinOn)
		}
		toggles.PortionSkinOn = enabled

	case TogglePortionSkinOff:
		if enabled {
			toggles.PortionSkinOn = false
			optional = removeChargeByName(optional, ChargePortionSkinOn)
			optional = appendCharge(optional, portionCharge(l.cat, &l.job, ChargePortionSkinOff))
		} else {
			if l.job.Product == "Portions" && !toggles.PortionSkinOn {
				return errors.ToggleRejected(name, "Portions requires either Skin On or Skin Off to stay active")
			}
			optional = removeChargeByName(optional, ChargePortionSkinOff)
		}
		toggles.PortionSkinOff = enabled

	default:
		return errors.Newf(errors.TypeInput, "unknown toggle %q", name)
	}

	l.toggles = toggles
	l.optional = optional
	l.recompute()
	return nil
}

// SetStorageRequired switches the storage requirement. Enabling it
// force-enables the reception, dispatch, environmental and electricity
// toggles; disabling it force-disables all four.
func (l *Line) SetStorageRequired(required bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.job.IsStorageRequired = required
	l.toggles.setFreezingFees(required)
	l.recompute()
}

// SetNumberOfWeeks sets the storage duration in weeks. Fractional weeks
// are billed as whole weeks.
func (l *Line) SetNumberOfWeeks(weeks float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.job.NumberOfWeeks = weeks
	l.recompute()
}

// SetProductType switches between fresh and frozen. Moving away from
// frozen clears the freezing method, drops the storage requirement, resets
// the week count and disables the four frozen-only fee toggles.
func (l *Line) SetProductType(productType types.ProductType) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.job.ProductType = productType
	if productType != types.ProductFrozen {
		l.job.FreezingMethod = types.FreezingNone
		l.job.IsStorageRequired = false
		l.job.NumberOfWeeks = 1.0
		l.toggles.setFreezingFees(false)
	}
	l.recompute()
}

// SetProduct changes the product. Selecting "Portions" with neither portion
// toggle active enables Skin On; leaving "Portions" disables both and drops
// their charges.
func (l *Line) SetProduct(product string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	previous := l.job.Product
	l.job.Product = product

	if product == "Portions" && !l.toggles.PortionSkinOn && !l.toggles.PortionSkinOff {
		l.toggles.PortionSkinOn = true
		l.optional = appendCharge(l.optional, portionCharge(l.cat, &l.job, ChargePortionSkinOn))
	}
	if previous == "Portions" && product != "Portions" {
		l.toggles.PortionSkinOn = false
		l.toggles.PortionSkinOff = false
		l.optional = removeChargeByName(l.optional, "Portion Skin")
	}
	l.recompute()
}

// SetFreezingMethod sets the freezing method for a frozen job.
func (l *Line) SetFreezingMethod(method types.FreezingMethod) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.job.FreezingMethod = method
	l.recompute()
}

// SetQuantity sets the job quantity in kg.
func (l *Line) SetQuantity(quantity decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.job.Quantity = quantity
	l.recompute()
}

// SetYieldValue sets the yield percentage and rescales any active
// yield-dependent charges.
func (l *Line) SetYieldValue(yield float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.job.YieldValue = yield
	if l.toggles.ProdAB {
		l.optional = removeChargeByName(l.optional, ChargeProdAB)
		l.optional = appendCharge(l.optional, yieldScaledCharge(l.cat, &l.job, ChargeProdAB))
	}
	if l.toggles.Descaling {
		l.optional = removeChargeByName(l.optional, ChargeDescaling)
		l.optional = appendCharge(l.optional, yieldScaledCharge(l.cat, &l.job, ChargeDescaling))
	}
	l.recompute()
}

// SetFilingRate sets the free-form per-line surcharge.
func (l *Line) SetFilingRate(rate decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.job.FilingRate = rate
	l.recompute()
}

// AddCharge appends a user-entered optional charge. Adding a charge whose
// exact name is already present is a no-op.
func (l *Line) AddCharge(name string, value decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.optional = appendCharge(l.optional, types.OptionalCharge{Name: name, Value: value})
	l.recompute()
}

// RemoveCharge removes optional charges matching the name substring.
func (l *Line) RemoveCharge(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.optional = removeChargeByName(l.optional, name)
	l.recompute()
}
