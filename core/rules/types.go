// Package rules - Static pricing catalog
// Products, option classes, regions and area surcharges. A Table is
// validated once when built and is read-only afterwards.
package rules

import "github.com/shopspring/decimal"

// Product is a sliding-door variant. Dimensions are millimetres.
type Product struct {
	Name string `json:"name"`

	BasePrice decimal.Decimal `json:"base_price"`

	// BaseWidth and BaseHeight are the inclusive minimums and the point
	// above which dimensional surcharges start.
	BaseWidth  decimal.Decimal `json:"base_width"`
	BaseHeight decimal.Decimal `json:"base_height"`

	MaxWidth  decimal.Decimal `json:"max_width"`
	MaxHeight decimal.Decimal `json:"max_height"`

	// Price per started 100 mm above the base dimension
	WidthIncPer100  decimal.Decimal `json:"width_inc_per_100"`
	HeightIncPer100 decimal.Decimal `json:"height_inc_per_100"`
}

// Variant names the pricing strategy of an option
type Variant string

const (
	VariantArea    Variant = "area"
	VariantFlat    Variant = "flat"
	VariantCounted Variant = "counted"
)

// Option is implemented by AreaOption, FlatOption and CountedOption only.
type Option interface {
	OptionID() string
	Variant() Variant
	isOption()
}

// AreaOption is priced per m² of door area when selected
type AreaOption struct {
	ID         string          `json:"id"`
	PricePerM2 decimal.Decimal `json:"price_per_m2"`
}

func (o AreaOption) OptionID() string { return o.ID }
func (o AreaOption) Variant() Variant { return VariantArea }
func (AreaOption) isOption()          {}

// FlatOption is a one-time charge when selected
type FlatOption struct {
	ID    string          `json:"id"`
	Price decimal.Decimal `json:"price"`
}

func (o FlatOption) OptionID() string { return o.ID }
func (o FlatOption) Variant() Variant { return VariantFlat }
func (FlatOption) isOption()          {}

// CountKind distinguishes the two counted sub-variants
type CountKind string

const (
	// PerItem bills quantity × price
	PerItem CountKind = "per_item"

	// PerLength bills min(quantity, Max) × width in metres × price
	PerLength CountKind = "per_length"
)

// CountedOption is priced from a caller-supplied quantity
type CountedOption struct {
	ID    string          `json:"id"`
	Kind  CountKind       `json:"kind"`
	Price decimal.Decimal `json:"price"`

	// Max caps billed instances for PerLength options. Zero means no cap.
	Max int `json:"max,omitempty"`
}

func (o CountedOption) OptionID() string { return o.ID }
func (o CountedOption) Variant() Variant { return VariantCounted }
func (CountedOption) isOption()          {}

// Capped reports whether q instances would be clamped
func (o CountedOption) Capped(q int) bool {
	return o.Kind == PerLength && o.Max > 0 && q > o.Max
}

// Region is a flat regional adder
type Region struct {
	Name      string          `json:"name"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

// AreaSurcharge adds Fee when the door area is strictly below ThresholdM2
type AreaSurcharge struct {
	ThresholdM2 decimal.Decimal `json:"threshold_m2"`
	Fee         decimal.Decimal `json:"fee"`
}
