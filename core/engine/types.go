package engine

import (
	"github.com/shopspring/decimal"
)

// Configuration is one door as the buyer configured it.
// Width and Height are millimetres.
type Configuration struct {
	Product string     `json:"product" yaml:"product"`
	Width   float64    `json:"width" yaml:"width"`
	Height  float64    `json:"height" yaml:"height"`
	Options []string   `json:"options,omitempty" yaml:"options,omitempty"`
	Counts  Quantities `json:"counts" yaml:"counts,omitempty"`
	Region  string     `json:"region,omitempty" yaml:"region,omitempty"`
}

// Selected reports whether option id is in the selected set
func (c Configuration) Selected(id string) bool {
	for _, o := range c.Options {
		if o == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no storage with c
func (c Configuration) Clone() Configuration {
	out := c
	out.Options = append([]string(nil), c.Options...)
	out.Counts = c.Counts.Clone()
	return out
}

// Kind identifies which pricing step emitted a line
type Kind string

const (
	KindBase          Kind = "base"
	KindWidth         Kind = "width_surcharge"
	KindHeight        Kind = "height_surcharge"
	KindAreaOption    Kind = "area_option"
	KindFlatOption    Kind = "flat_option"
	KindCountedOption Kind = "counted_option"
	KindRegion        Kind = "region"
	KindAreaSurcharge Kind = "area_surcharge"
)

// Line is a single priced breakdown entry
type Line struct {
	Kind Kind `json:"kind"`

	// Ref names the product, option or region the line prices
	Ref string `json:"ref,omitempty"`

	// Label is the display text in the selected language
	Label string `json:"label"`

	// Quantity and Rate satisfy Amount = Quantity × Rate
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`

	// Formula describes how the amount was calculated
	Formula string `json:"formula"`
}

// Result is the outcome of pricing one configuration
type Result struct {
	// Total is the sum of all line amounts rounded to cents
	Total decimal.Decimal `json:"total"`

	// Breakdown is in calculation order
	Breakdown []Line `json:"breakdown"`

	// Area is the unrounded door area in m²
	Area decimal.Decimal `json:"area"`
}

// Subtotal returns the unrounded sum of the breakdown
func (r *Result) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range r.Breakdown {
		sum = sum.Add(l.Amount)
	}
	return sum
}
