package rules

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationRule inspects a table under construction and returns every violation it finds
type ValidationRule func(*Table) []error

// DefaultValidationRules returns the rules every table must satisfy
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateProducts,
		validateOptionIDs,
		validateOptionPrices,
		validateRegions,
		validateSurcharges,
	}
}

func validateProducts(t *Table) []error {
	var errs []error
	if len(t.products) == 0 {
		errs = append(errs, fmt.Errorf("at least one product is required"))
	}
	seen := make(map[string]bool, len(t.products))
	for _, p := range t.products {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("product with empty name"))
			continue
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("product %q declared twice", p.Name))
		}
		seen[p.Name] = true

		if p.BaseWidth.GreaterThan(p.MaxWidth) {
			errs = append(errs, fmt.Errorf("product %q: base width %s exceeds max width %s", p.Name, p.BaseWidth, p.MaxWidth))
		}
		if p.BaseHeight.GreaterThan(p.MaxHeight) {
			errs = append(errs, fmt.Errorf("product %q: base height %s exceeds max height %s", p.Name, p.BaseHeight, p.MaxHeight))
		}
		if p.BaseWidth.IsNegative() || p.BaseHeight.IsNegative() {
			errs = append(errs, fmt.Errorf("product %q: negative base dimension", p.Name))
		}
		for _, price := range []struct {
			field string
			v     decimal.Decimal
		}{
			{"base price", p.BasePrice},
			{"width increment price", p.WidthIncPer100},
			{"height increment price", p.HeightIncPer100},
		} {
			if price.v.IsNegative() {
				errs = append(errs, fmt.Errorf("product %q: negative %s %s", p.Name, price.field, price.v))
			}
		}
	}
	return errs
}

// validateOptionIDs enforces uniqueness across all three variants combined
func validateOptionIDs(t *Table) []error {
	var errs []error
	seen := make(map[string]Variant)
	check := func(id string, v Variant) {
		if id == "" {
			errs = append(errs, fmt.Errorf("%s option with empty id", v))
			return
		}
		if prev, ok := seen[id]; ok {
			errs = append(errs, fmt.Errorf("option id %q used by both %s and %s options", id, prev, v))
			return
		}
		seen[id] = v
	}
	for _, o := range t.area {
		check(o.ID, VariantArea)
	}
	for _, o := range t.flat {
		check(o.ID, VariantFlat)
	}
	for _, o := range t.counted {
		check(o.ID, VariantCounted)
	}
	return errs
}

func validateOptionPrices(t *Table) []error {
	var errs []error
	for _, o := range t.area {
		if o.PricePerM2.IsNegative() {
			errs = append(errs, fmt.Errorf("area option %q: negative price %s", o.ID, o.PricePerM2))
		}
	}
	for _, o := range t.flat {
		if o.Price.IsNegative() {
			errs = append(errs, fmt.Errorf("flat option %q: negative price %s", o.ID, o.Price))
		}
	}
	for _, o := range t.counted {
		if o.Price.IsNegative() {
			errs = append(errs, fmt.Errorf("counted option %q: negative price %s", o.ID, o.Price))
		}
		switch o.Kind {
		case PerItem:
			if o.Max != 0 {
				errs = append(errs, fmt.Errorf("counted option %q: max only applies to %s options", o.ID, PerLength))
			}
		case PerLength:
			if o.Max < 0 {
				errs = append(errs, fmt.Errorf("counted option %q: negative max %d", o.ID, o.Max))
			}
		default:
			errs = append(errs, fmt.Errorf("counted option %q: unknown kind %q", o.ID, o.Kind))
		}
	}
	return errs
}

func validateRegions(t *Table) []error {
	var errs []error
	seen := make(map[string]bool, len(t.regions))
	for _, r := range t.regions {
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("region with empty name"))
			continue
		}
		if seen[r.Name] {
			errs = append(errs, fmt.Errorf("region %q declared twice", r.Name))
		}
		seen[r.Name] = true
		if r.Surcharge.IsNegative() {
			errs = append(errs, fmt.Errorf("region %q: negative surcharge %s", r.Name, r.Surcharge))
		}
	}
	return errs
}

func validateSurcharges(t *Table) []error {
	var errs []error
	for i, s := range t.surcharges {
		if !s.ThresholdM2.IsPositive() {
			errs = append(errs, fmt.Errorf("area surcharge #%d: threshold must be positive, got %s", i+1, s.ThresholdM2))
		}
		if s.Fee.IsNegative() {
			errs = append(errs, fmt.Errorf("area surcharge #%d: negative fee %s", i+1, s.Fee))
		}
	}
	return errs
}
