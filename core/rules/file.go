package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	doorerrors "doorcost/internal/errors"
)

// fileTable is the on-disk shape shared by the HCL and YAML formats.
// In HCL, names and ids are block labels.
type fileTable struct {
	Products   []fileProduct   `hcl:"product,block" yaml:"products"`
	Area       []fileArea      `hcl:"area_option,block" yaml:"area_options"`
	Flat       []fileFlat      `hcl:"flat_option,block" yaml:"flat_options"`
	Counted    []fileCounted   `hcl:"counted_option,block" yaml:"counted_options"`
	Regions    []fileRegion    `hcl:"region,block" yaml:"regions"`
	Surcharges []fileSurcharge `hcl:"area_surcharge,block" yaml:"area_surcharges"`
}

type fileProduct struct {
	Name            string  `hcl:"name,label" yaml:"name"`
	BasePrice       float64 `hcl:"base_price" yaml:"base_price"`
	BaseWidth       float64 `hcl:"base_width" yaml:"base_width"`
	BaseHeight      float64 `hcl:"base_height" yaml:"base_height"`
	MaxWidth        float64 `hcl:"max_width" yaml:"max_width"`
	MaxHeight       float64 `hcl:"max_height" yaml:"max_height"`
	WidthIncPer100  float64 `hcl:"width_inc_per_100" yaml:"width_inc_per_100"`
	HeightIncPer100 float64 `hcl:"height_inc_per_100" yaml:"height_inc_per_100"`
}

type fileArea struct {
	ID         string  `hcl:"id,label" yaml:"id"`
	PricePerM2 float64 `hcl:"price_per_m2" yaml:"price_per_m2"`
}

type fileFlat struct {
	ID    string  `hcl:"id,label" yaml:"id"`
	Price float64 `hcl:"price" yaml:"price"`
}

type fileCounted struct {
	ID    string  `hcl:"id,label" yaml:"id"`
	Kind  string  `hcl:"kind" yaml:"kind"`
	Price float64 `hcl:"price" yaml:"price"`
	Max   int     `hcl:"max,optional" yaml:"max"`
}

type fileRegion struct {
	Name      string  `hcl:"name,label" yaml:"name"`
	Surcharge float64 `hcl:"surcharge" yaml:"surcharge"`
}

type fileSurcharge struct {
	ThresholdM2 float64 `hcl:"threshold_m2" yaml:"threshold_m2"`
	Fee         float64 `hcl:"fee" yaml:"fee"`
}

// LoadFile reads a rules table from an .hcl, .yaml or .yml file.
// The result passes the same validation as a Builder.
func LoadFile(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, doorerrors.Wrap(doorerrors.TypeInput, "failed to read rules file", err).
			WithContext("path", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return ParseHCL(src, path)
	case ".yaml", ".yml":
		return ParseYAML(src)
	default:
		return nil, doorerrors.Newf(doorerrors.TypeInput,
			"unsupported rules file extension %q (want .hcl, .yaml or .yml)", filepath.Ext(path))
	}
}

// ParseHCL decodes a rules table from HCL source
func ParseHCL(src []byte, filename string) (*Table, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	var ft fileTable
	if diags := gohcl.DecodeBody(file.Body, nil, &ft); diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}
	return ft.build()
}

// ParseYAML decodes a rules table from YAML source
func ParseYAML(src []byte) (*Table, error) {
	var ft fileTable
	if err := yaml.Unmarshal(src, &ft); err != nil {
		return nil, doorerrors.Wrap(doorerrors.TypeParsing, "invalid rules YAML", err)
	}
	return ft.build()
}

func diagnosticsError(filename string, diags hcl.Diagnostics) error {
	var msgs []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		msgs = append(msgs, fmt.Sprintf("line %d: %s: %s", line, diag.Summary, diag.Detail))
	}
	return doorerrors.New(doorerrors.TypeParsing, strings.Join(msgs, "; ")).
		WithContext("file", filename)
}

func (ft fileTable) build() (*Table, error) {
	b := NewBuilder()
	for _, p := range ft.Products {
		b.AddProduct(Product{
			Name:            p.Name,
			BasePrice:       decimal.NewFromFloat(p.BasePrice),
			BaseWidth:       decimal.NewFromFloat(p.BaseWidth),
			BaseHeight:      decimal.NewFromFloat(p.BaseHeight),
			MaxWidth:        decimal.NewFromFloat(p.MaxWidth),
			MaxHeight:       decimal.NewFromFloat(p.MaxHeight),
			WidthIncPer100:  decimal.NewFromFloat(p.WidthIncPer100),
			HeightIncPer100: decimal.NewFromFloat(p.HeightIncPer100),
		})
	}
	for _, o := range ft.Area {
		b.AddAreaOption(AreaOption{ID: o.ID, PricePerM2: decimal.NewFromFloat(o.PricePerM2)})
	}
	for _, o := range ft.Flat {
		b.AddFlatOption(FlatOption{ID: o.ID, Price: decimal.NewFromFloat(o.Price)})
	}
	for _, o := range ft.Counted {
		b.AddCountedOption(CountedOption{
			ID:    o.ID,
			Kind:  CountKind(o.Kind),
			Price: decimal.NewFromFloat(o.Price),
			Max:   o.Max,
		})
	}
	for _, r := range ft.Regions {
		b.AddRegion(Region{Name: r.Name, Surcharge: decimal.NewFromFloat(r.Surcharge)})
	}
	for _, s := range ft.Surcharges {
		b.AddAreaSurcharge(AreaSurcharge{
			ThresholdM2: decimal.NewFromFloat(s.ThresholdM2),
			Fee:         decimal.NewFromFloat(s.Fee),
		})
	}
	return b.Build()
}
