// Package quote - Charge composition and toggle state for quote lines
package quote

// Toggle names accepted by Line.Toggle.
const (
	TogglePalletCharge     = "palletCharge"
	ToggleTerminalCharge   = "terminalCharge"
	ToggleReceptionFee     = "receptionFee"
	ToggleDispatchFee      = "dispatchFee"
	ToggleEnvironmentalFee = "environmentalFee"
	ToggleElectricityFee   = "electricityFee"
	ToggleProdAB           = "prodAB"
	ToggleDescaling        = "descaling"
	TogglePortionSkinOn    = "portionSkinOn"
	TogglePortionSkinOff   = "portionSkinOff"
)

// Toggles is the set of named switches governing which charges a line
// carries. It is a plain value: copying it is cheap, which keeps toggle
// transitions transactional.
type Toggles struct {
	PalletCharge     bool `json:"pallet_charge"`
	TerminalCharge   bool `json:"terminal_charge"`
	ReceptionFee     bool `json:"reception_fee"`
	DispatchFee      bool `json:"dispatch_fee"`
	EnvironmentalFee bool `json:"environmental_fee"`
	ElectricityFee   bool `json:"electricity_fee"`
	ProdAB           bool `json:"prod_ab"`
	Descaling        bool `json:"descaling"`
	PortionSkinOn    bool `json:"portion_skin_on"`
	PortionSkinOff   bool `json:"portion_skin_off"`
}

// DefaultToggles returns the initial toggle state for a new line.
// Pallet and terminal charges start enabled.
func DefaultToggles() Toggles {
	return Toggles{
		PalletCharge:   true,
		TerminalCharge: true,
	}
}

// setFreezingFees switches the four frozen-only fee toggles together.
// Storage requirement changes drive all four as a unit.
func (t *Toggles) setFreezingFees(enabled bool) {
	t.ReceptionFee = enabled
	t.DispatchFee = enabled
	t.EnvironmentalFee = enabled
	t.ElectricityFee = enabled
}
