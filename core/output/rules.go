package output

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/language"

	"doorcost/core/rules"
	doorerrors "doorcost/internal/errors"
)

// RulesView describes the catalog
type RulesView struct {
	Fingerprint    string              `json:"fingerprint"`
	Products       []ProductView       `json:"products"`
	AreaOptions    []PricedOptionView  `json:"area_options"`
	FlatOptions    []PricedOptionView  `json:"flat_options"`
	CountedOptions []CountedOptionView `json:"counted_options"`
	Regions        []RegionView        `json:"regions"`
	AreaSurcharges []SurchargeView     `json:"area_surcharges"`
}

// ProductView is a product with its bounds
type ProductView struct {
	Name            string `json:"name"`
	BasePrice       Money  `json:"base_price"`
	MinWidth        Number `json:"min_width"`
	MaxWidth        Number `json:"max_width"`
	MinHeight       Number `json:"min_height"`
	MaxHeight       Number `json:"max_height"`
	WidthIncPer100  Money  `json:"width_inc_per_100"`
	HeightIncPer100 Money  `json:"height_inc_per_100"`
}

// PricedOptionView is an area or flat option
type PricedOptionView struct {
	ID    string `json:"id"`
	Price Money  `json:"price"`
}

// CountedOptionView is a counted option
type CountedOptionView struct {
	ID    string          `json:"id"`
	Kind  rules.CountKind `json:"kind"`
	Price Money           `json:"price"`
	Max   int             `json:"max,omitempty"`
}

// RegionView is a region and its surcharge
type RegionView struct {
	Name      string `json:"name"`
	Surcharge Money  `json:"surcharge"`
}

// SurchargeView is an area threshold fee
type SurchargeView struct {
	ThresholdM2 Number `json:"threshold_m2"`
	Fee         Money  `json:"fee"`
}

// NewRulesView flattens t in catalog order
func NewRulesView(t *rules.Table) RulesView {
	v := RulesView{
		Fingerprint:    t.Fingerprint(),
		Products:       []ProductView{},
		AreaOptions:    []PricedOptionView{},
		FlatOptions:    []PricedOptionView{},
		CountedOptions: []CountedOptionView{},
		Regions:        []RegionView{},
		AreaSurcharges: []SurchargeView{},
	}
	for _, p := range t.Products() {
		v.Products = append(v.Products, ProductView{
			Name:            p.Name,
			BasePrice:       Money(p.BasePrice),
			MinWidth:        Number(p.BaseWidth),
			MaxWidth:        Number(p.MaxWidth),
			MinHeight:       Number(p.BaseHeight),
			MaxHeight:       Number(p.MaxHeight),
			WidthIncPer100:  Money(p.WidthIncPer100),
			HeightIncPer100: Money(p.HeightIncPer100),
		})
	}
	for _, o := range t.AreaOptions() {
		v.AreaOptions = append(v.AreaOptions, PricedOptionView{ID: o.ID, Price: Money(o.PricePerM2)})
	}
	for _, o := range t.FlatOptions() {
		v.FlatOptions = append(v.FlatOptions, PricedOptionView{ID: o.ID, Price: Money(o.Price)})
	}
	for _, o := range t.CountedOptions() {
		v.CountedOptions = append(v.CountedOptions, CountedOptionView{
			ID: o.ID, Kind: o.Kind, Price: Money(o.Price), Max: o.Max,
		})
	}
	for _, r := range t.Regions() {
		v.Regions = append(v.Regions, RegionView{Name: r.Name, Surcharge: Money(r.Surcharge)})
	}
	for _, s := range t.AreaSurcharges() {
		v.AreaSurcharges = append(v.AreaSurcharges, SurchargeView{
			ThresholdM2: Number(s.ThresholdM2),
			Fee:         Money(s.Fee),
		})
	}
	return v
}

// RenderRules writes the catalog as json or a cli box table
func RenderRules(w io.Writer, format Format, t *rules.Table, tag language.Tag) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(NewRulesView(t))
	case FormatCLI:
		return renderRulesBox(w, t, tag)
	default:
		return doorerrors.Newf(doorerrors.TypeInput, "rules cannot be rendered as %q", format)
	}
}

func renderRulesBox(w io.Writer, t *rules.Table, tag language.Tag) error {
	bw := &boxWriter{w: w}

	bw.rule("┌", "┐")
	bw.centered("PRICE RULES")

	bw.rule("├", "┤")
	for _, p := range t.Products() {
		bw.row(fmt.Sprintf("%s  %s-%s × %s-%s mm", p.Name,
			p.BaseWidth, p.MaxWidth, p.BaseHeight, p.MaxHeight), FormatEUR(p.BasePrice, tag))
		bw.row("  └─ per 100 mm width", FormatEUR(p.WidthIncPer100, tag))
		bw.row("  └─ per 100 mm height", FormatEUR(p.HeightIncPer100, tag))
	}

	bw.rule("├", "┤")
	for _, o := range t.AreaOptions() {
		bw.row(o.ID+" (per m²)", FormatEUR(o.PricePerM2, tag))
	}
	for _, o := range t.FlatOptions() {
		bw.row(o.ID+" (one-time)", FormatEUR(o.Price, tag))
	}
	for _, o := range t.CountedOptions() {
		label := o.ID + " (per item)"
		if o.Kind == rules.PerLength {
			label = o.ID + " (per m width)"
			if o.Max > 0 {
				label = fmt.Sprintf("%s (per m width, max %d)", o.ID, o.Max)
			}
		}
		bw.row(label, FormatEUR(o.Price, tag))
	}

	bw.rule("├", "┤")
	for _, r := range t.Regions() {
		bw.row(r.Name, FormatEUR(r.Surcharge, tag))
	}
	for _, s := range t.AreaSurcharges() {
		bw.row(fmt.Sprintf("Area below %s m²", s.ThresholdM2), FormatEUR(s.Fee, tag))
	}
	bw.rule("└", "┘")

	bw.printf("\nRules %s\n", t.Fingerprint())
	return bw.err
}
