package rules

import (
	"fmt"
	"strings"

	"doorcost/core/determinism"
)

// Table is the immutable rules catalog. Build one with a Builder.
type Table struct {
	products   []Product
	area       []AreaOption
	flat       []FlatOption
	counted    []CountedOption
	regions    []Region
	surcharges []AreaSurcharge

	productIndex map[string]int
	countedIndex map[string]int
	regionIndex  map[string]int
	options      map[string]Option

	fingerprint determinism.ContentHash
}

// Product returns the named product
func (t *Table) Product(name string) (Product, bool) {
	i, ok := t.productIndex[name]
	if !ok {
		return Product{}, false
	}
	return t.products[i], true
}

// Products returns products in declared order
func (t *Table) Products() []Product {
	return append([]Product(nil), t.products...)
}

// AreaOptions returns area-priced options in declared order
func (t *Table) AreaOptions() []AreaOption {
	return append([]AreaOption(nil), t.area...)
}

// FlatOptions returns flat options in declared order
func (t *Table) FlatOptions() []FlatOption {
	return append([]FlatOption(nil), t.flat...)
}

// CountedOptions returns counted options in declared order
func (t *Table) CountedOptions() []CountedOption {
	return append([]CountedOption(nil), t.counted...)
}

// CountedOption returns the counted option with id
func (t *Table) CountedOption(id string) (CountedOption, bool) {
	i, ok := t.countedIndex[id]
	if !ok {
		return CountedOption{}, false
	}
	return t.counted[i], true
}

// Option looks up any option by id, whatever its variant
func (t *Table) Option(id string) (Option, bool) {
	o, ok := t.options[id]
	return o, ok
}

// Region returns the named region
func (t *Table) Region(name string) (Region, bool) {
	i, ok := t.regionIndex[name]
	if !ok {
		return Region{}, false
	}
	return t.regions[i], true
}

// Regions returns regions in declared order
func (t *Table) Regions() []Region {
	return append([]Region(nil), t.regions...)
}

// AreaSurcharges returns area surcharges in declared order
func (t *Table) AreaSurcharges() []AreaSurcharge {
	return append([]AreaSurcharge(nil), t.surcharges...)
}

// Fingerprint identifies the table content. Two tables with the same
// declarations in the same order share a fingerprint.
func (t *Table) Fingerprint() string {
	return t.fingerprint.Short()
}

func (t *Table) computeFingerprint() determinism.ContentHash {
	var b strings.Builder
	for _, p := range t.products {
		fmt.Fprintf(&b, "product|%s|%s|%s|%s|%s|%s|%s|%s\n", p.Name,
			p.BasePrice, p.BaseWidth, p.BaseHeight, p.MaxWidth, p.MaxHeight,
			p.WidthIncPer100, p.HeightIncPer100)
	}
	for _, o := range t.area {
		fmt.Fprintf(&b, "area|%s|%s\n", o.ID, o.PricePerM2)
	}
	for _, o := range t.flat {
		fmt.Fprintf(&b, "flat|%s|%s\n", o.ID, o.Price)
	}
	for _, o := range t.counted {
		fmt.Fprintf(&b, "counted|%s|%s|%s|%d\n", o.ID, o.Kind, o.Price, o.Max)
	}
	for _, r := range t.regions {
		fmt.Fprintf(&b, "region|%s|%s\n", r.Name, r.Surcharge)
	}
	for _, s := range t.surcharges {
		fmt.Fprintf(&b, "surcharge|%s|%s\n", s.ThresholdM2, s.Fee)
	}
	return determinism.ComputeHash([]byte(b.String()))
}
