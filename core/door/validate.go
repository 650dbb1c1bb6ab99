package door

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"doorcost/core/engine"
	"doorcost/core/rules"
)

// RangeReport describes whether the dimensions sit within the product bounds
type RangeReport struct {
	WidthOK   bool    `json:"width_ok"`
	HeightOK  bool    `json:"height_ok"`
	MinWidth  float64 `json:"min_width"`
	MaxWidth  float64 `json:"max_width"`
	MinHeight float64 `json:"min_height"`
	MaxHeight float64 `json:"max_height"`
}

// OK reports whether both dimensions are in range
func (r RangeReport) OK() bool {
	return r.WidthOK && r.HeightOK
}

// CheckRange compares cfg against its product bounds (inclusive).
// An unknown product reports both dimensions out of range.
func CheckRange(cfg engine.Configuration, table *rules.Table) RangeReport {
	p, ok := table.Product(cfg.Product)
	if !ok {
		return RangeReport{}
	}
	return RangeReport{
		WidthOK:   within(cfg.Width, p.BaseWidth, p.MaxWidth),
		HeightOK:  within(cfg.Height, p.BaseHeight, p.MaxHeight),
		MinWidth:  p.BaseWidth.InexactFloat64(),
		MaxWidth:  p.MaxWidth.InexactFloat64(),
		MinHeight: p.BaseHeight.InexactFloat64(),
		MaxHeight: p.MaxHeight.InexactFloat64(),
	}
}

// Clamp pulls width and height into the product bounds.
// Configurations for unknown products are returned unchanged.
func Clamp(cfg engine.Configuration, table *rules.Table) engine.Configuration {
	p, ok := table.Product(cfg.Product)
	if !ok {
		return cfg
	}
	out := cfg.Clone()
	out.Width = clamp(cfg.Width, p.BaseWidth, p.MaxWidth)
	out.Height = clamp(cfg.Height, p.BaseHeight, p.MaxHeight)
	return out
}

// Warning is a non-fatal configuration problem worth showing to the buyer
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Field + ": " + w.Message
}

// Validate lists everything the engine would silently ignore or price
// outside the product bounds. It never rejects a configuration.
func Validate(cfg engine.Configuration, table *rules.Table) []Warning {
	var warnings []Warning
	add := func(field, format string, args ...interface{}) {
		warnings = append(warnings, Warning{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	p, ok := table.Product(cfg.Product)
	if !ok {
		add("product", "unknown product %q", cfg.Product)
	} else {
		if !within(cfg.Width, p.BaseWidth, p.MaxWidth) {
			add("width", "%v mm is outside %s–%s mm", cfg.Width, p.BaseWidth, p.MaxWidth)
		}
		if !within(cfg.Height, p.BaseHeight, p.MaxHeight) {
			add("height", "%v mm is outside %s–%s mm", cfg.Height, p.BaseHeight, p.MaxHeight)
		}
	}

	for _, id := range cfg.Options {
		o, ok := table.Option(id)
		switch {
		case !ok:
			add("options", "unknown option %q is ignored", id)
		case o.Variant() == rules.VariantCounted:
			add("options", "%q is a counted option; set a quantity instead", id)
		}
	}

	cfg.Counts.Each(func(id string, n int) {
		o, ok := table.CountedOption(id)
		switch {
		case !ok:
			add("counts", "unknown counted option %q is ignored", id)
		case n < 0:
			add("counts", "negative quantity %d for %q is ignored", n, id)
		case o.Capped(n):
			add("counts", "%q is billed for at most %d, not %d", id, o.Max, n)
		}
	})

	if cfg.Region != "" {
		if _, ok := table.Region(cfg.Region); !ok {
			add("region", "unknown region %q adds no surcharge", cfg.Region)
		}
	}
	return warnings
}

func within(v float64, lo, hi decimal.Decimal) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	d := decimal.NewFromFloat(v)
	return !d.LessThan(lo) && !d.GreaterThan(hi)
}

func clamp(v float64, lo, hi decimal.Decimal) float64 {
	switch {
	case math.IsNaN(v), math.IsInf(v, -1):
		return lo.InexactFloat64()
	case math.IsInf(v, 1):
		return hi.InexactFloat64()
	}
	d := decimal.NewFromFloat(v)
	if d.LessThan(lo) {
		return lo.InexactFloat64()
	}
	if d.GreaterThan(hi) {
		return hi.InexactFloat64()
	}
	return v
}
