package rules

import (
	stderrors "errors"
	"fmt"

	doorerrors "doorcost/internal/errors"
)

// Builder collects declarations in order and produces a validated Table.
// A Builder is not safe for concurrent use.
type Builder struct {
	products   []Product
	area       []AreaOption
	flat       []FlatOption
	counted    []CountedOption
	regions    []Region
	surcharges []AreaSurcharge
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

// AddProduct declares a product
func (b *Builder) AddProduct(p Product) *Builder {
	b.products = append(b.products, p)
	return b
}

// AddAreaOption declares an area-priced option
func (b *Builder) AddAreaOption(o AreaOption) *Builder {
	b.area = append(b.area, o)
	return b
}

// AddFlatOption declares a one-time option
func (b *Builder) AddFlatOption(o FlatOption) *Builder {
	b.flat = append(b.flat, o)
	return b
}

// AddCountedOption declares a quantity-priced option
func (b *Builder) AddCountedOption(o CountedOption) *Builder {
	b.counted = append(b.counted, o)
	return b
}

// AddRegion declares a regional surcharge
func (b *Builder) AddRegion(r Region) *Builder {
	b.regions = append(b.regions, r)
	return b
}

// AddAreaSurcharge declares an area threshold fee
func (b *Builder) AddAreaSurcharge(s AreaSurcharge) *Builder {
	b.surcharges = append(b.surcharges, s)
	return b
}

// Build validates every declaration and returns the table. All violations
// are reported together in a single INVALID_RULES error.
func (b *Builder) Build() (*Table, error) {
	t := &Table{
		products:     append([]Product(nil), b.products...),
		area:         append([]AreaOption(nil), b.area...),
		flat:         append([]FlatOption(nil), b.flat...),
		counted:      append([]CountedOption(nil), b.counted...),
		regions:      append([]Region(nil), b.regions...),
		surcharges:   append([]AreaSurcharge(nil), b.surcharges...),
		productIndex: make(map[string]int, len(b.products)),
		countedIndex: make(map[string]int, len(b.counted)),
		regionIndex:  make(map[string]int, len(b.regions)),
		options:      make(map[string]Option),
	}

	var violations []error
	for _, rule := range DefaultValidationRules() {
		violations = append(violations, rule(t)...)
	}
	if len(violations) > 0 {
		return nil, doorerrors.Wrap(doorerrors.TypeInvalidRules,
			fmt.Sprintf("rules table has %d violation(s)", len(violations)),
			stderrors.Join(violations...)).
			WithContext("violations", len(violations))
	}

	for i, p := range t.products {
		t.productIndex[p.Name] = i
	}
	for i, o := range t.counted {
		t.countedIndex[o.ID] = i
	}
	for i, r := range t.regions {
		t.regionIndex[r.Name] = i
	}
	for _, o := range t.area {
		t.options[o.ID] = o
	}
	for _, o := range t.flat {
		t.options[o.ID] = o
	}
	for _, o := range t.counted {
		t.options[o.ID] = o
	}
	t.fingerprint = t.computeFingerprint()
	return t, nil
}

// MustBuild panics if the declarations are invalid. Use for compiled-in tables only.
func (b *Builder) MustBuild() *Table {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
