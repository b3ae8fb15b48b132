// Package hcl loads factory reference data from HCL definition files.
package hcl

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"

	"procost/core/types"
	"procost/internal/config"
	"procost/internal/errors"
	"procost/internal/logging"
)

// Loader implements catalog.Loader over a directory of .hcl factory
// definition files. Factories are reference data, loaded once per session.
type Loader struct {
	parser *hclparse.Parser
	dir    string
}

// NewLoader creates a loader rooted at a directory.
func NewLoader(dir string) *Loader {
	return &Loader{
		parser: hclparse.NewParser(),
		dir:    dir,
	}
}

var factorySchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "factory", LabelNames: []string{"id"}},
	},
}

var factoryBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "name"},
		{Name: "location"},
		{Name: "currency"},
		{Name: "pallet_charge"},
		{Name: "terminal_charge"},
		{Name: "reception_fee"},
		{Name: "dispatch_fee"},
		{Name: "environmental_fee_percentage"},
		{Name: "electricity_fee_percentage"},
		{Name: "storage_rate"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "rate"},
		{Type: "packaging"},
		{Type: "charge"},
	},
}

// LoadFactory finds the factory with the given id across the directory's
// definition files.
func (l *Loader) LoadFactory(ctx context.Context, id string) (*types.Factory, error) {
	factories, err := l.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range factories {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, errors.NotFound("factory", id)
}

// ListFactories returns the ids of every defined factory.
func (l *Loader) ListFactories(ctx context.Context) ([]string, error) {
	factories, err := l.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(factories))
	for _, f := range factories {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

// LoadFile parses a single definition file.
func (l *Loader) LoadFile(path string) ([]*types.Factory, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "reading factory file %s", path)
	}
	return l.Parse(src, path)
}

func (l *Loader) loadAll(ctx context.Context) ([]*types.Factory, error) {
	var files []string
	err := filepath.Walk(l.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".hcl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "walking factory directory %s", l.dir)
	}

	var factories []*types.Factory
	for _, file := range files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		parsed, err := l.LoadFile(file)
		if err != nil {
			return nil, err
		}
		factories = append(factories, parsed...)
	}
	logging.Debug("loaded factory definitions",
		zap.Int("files", len(files)), zap.Int("factories", len(factories)))
	return factories, nil
}

// Parse decodes factory blocks from raw HCL source. Table rows keep their
// file order: lookups resolve first-match, so re-sorting would change
// pricing results.
func (l *Loader) Parse(src []byte, filename string) ([]*types.Factory, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(errors.TypeParsing, diags, "parsing %s", filename)
	}

	content, _, diags := file.Body.PartialContent(factorySchema)
	if diags.HasErrors() {
		return nil, errors.Wrapf(errors.TypeParsing, diags, "reading %s", filename)
	}

	var factories []*types.Factory
	for _, block := range content.Blocks {
		f, err := parseFactory(block)
		if err != nil {
			return nil, err
		}
		factories = append(factories, f)
	}
	return factories, nil
}

func parseFactory(block *hcl.Block) (*types.Factory, error) {
	f := &types.Factory{ID: block.Labels[0]}

	content, _, diags := block.Body.PartialContent(factoryBodySchema)
	if diags.HasErrors() {
		return nil, errors.Wrapf(errors.TypeParsing, diags, "factory %q", f.ID)
	}

	attrs := attributeValues(content.Attributes)
	f.Name = attrs.str("name")
	f.Location = attrs.str("location")
	f.Currency = attrs.str("currency")
	if f.Currency == "" {
		f.Currency = config.Get().DefaultCurrency
	}
	f.PalletCharge = attrs.dec("pallet_charge")
	f.TerminalCharge = attrs.dec("terminal_charge")
	f.ReceptionFee = attrs.dec("reception_fee")
	f.DispatchFee = attrs.dec("dispatch_fee")
	f.EnvironmentalPct = attrs.dec("environmental_fee_percentage")
	f.ElectricityPct = attrs.dec("electricity_fee_percentage")
	f.StorageRate = attrs.dec("storage_rate")

	for _, inner := range content.Blocks {
		rowAttrs, diags := inner.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, errors.Wrapf(errors.TypeParsing, diags, "factory %q %s block", f.ID, inner.Type)
		}
		row := attributeValues(rowAttrs)
		switch inner.Type {
		case "rate":
			f.RateData = append(f.RateData, types.RateRow{
				Product:   row.str("product"),
				TrimType:  row.str("trim_type"),
				RMSpec:    row.str("rm_spec"),
				RatePerKg: row.dec("rate_per_kg"),
			})
		case "packaging":
			f.PackagingData = append(f.PackagingData, types.PackagingRow{
				ProductType:   row.str("product_type"),
				Product:       row.str("product"),
				BoxQty:        row.str("box_qty"),
				PackagingType: row.str("packaging_type"),
				TransportMode: row.str("transport_mode"),
				Rate:          row.dec("rate"),
			})
		case "charge":
			f.ChargeRates = append(f.ChargeRates, types.ChargeRateRow{
				ChargeName:  row.str("charge_name"),
				ProductType: row.str("product_type"),
				Product:     row.str("product"),
				Subtype:     row.str("subtype"),
				RateValue:   row.dec("rate_value"),
			})
		}
	}

	return f, nil
}

// values holds evaluated attribute expressions keyed by name.
type values map[string]cty.Value

func attributeValues(attrs hcl.Attributes) values {
	out := make(values, len(attrs))
	for name, attr := range attrs {
		// Definition files are static data: expressions evaluate with
		// no variable context.
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			continue
		}
		out[name] = val
	}
	return out
}

func (v values) str(name string) string {
	val, ok := v[name]
	if !ok || val.Type() != cty.String {
		return ""
	}
	return val.AsString()
}

func (v values) dec(name string) decimal.Decimal {
	val, ok := v[name]
	if !ok || val.Type() != cty.Number {
		return decimal.Zero
	}
	// Decode through the source text to keep exact decimal digits.
	return decimal.RequireFromString(val.AsBigFloat().Text('f', -1))
}
