package rules

import (
	"sync"

	"github.com/shopspring/decimal"
)

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the shipped catalog. The table is built once and shared.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = defaultBuilder().MustBuild()
	})
	return defaultTable
}

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func product(name string, price, baseW, baseH, maxW, maxH, incW, incH int64) Product {
	return Product{
		Name:            name,
		BasePrice:       d(price),
		BaseWidth:       d(baseW),
		BaseHeight:      d(baseH),
		MaxWidth:        d(maxW),
		MaxHeight:       d(maxH),
		WidthIncPer100:  d(incW),
		HeightIncPer100: d(incH),
	}
}

func defaultBuilder() *Builder {
	b := NewBuilder()

	b.AddProduct(product("Type A", 2792, 800, 2100, 2400, 4115, 112, 52)).
		AddProduct(product("Type B", 4120, 1600, 2100, 4800, 4115, 112, 104)).
		AddProduct(product("Type C", 5725, 1600, 2100, 3830, 2650, 112, 104)).
		AddProduct(product("Type D", 9194, 3200, 2100, 6000, 2650, 112, 208)).
		AddProduct(product("Type E", 7214, 1600, 2100, 3830, 3000, 162, 104)).
		AddProduct(product("Type F", 10676, 3200, 2100, 6000, 3000, 162, 208))

	b.AddAreaOption(AreaOption{ID: "Isolatieglas", PricePerM2: d(186)}).
		AddAreaOption(AreaOption{ID: "Buitenkwaliteit coating", PricePerM2: d(142)}).
		AddAreaOption(AreaOption{ID: "Paneelvulling (Staalplaat)", PricePerM2: d(142)})

	b.AddFlatOption(FlatOption{ID: "Montagebalk", Price: d(1000)})

	b.AddCountedOption(CountedOption{ID: "Komgreep", Kind: PerItem, Price: d(45)}).
		AddCountedOption(CountedOption{ID: "Haakslot", Kind: PerItem, Price: d(178)}).
		AddCountedOption(CountedOption{ID: "Espagnolet", Kind: PerItem, Price: d(290)}).
		AddCountedOption(CountedOption{ID: "Horizontale Regel", Kind: PerLength, Price: d(207), Max: 4})

	for _, r := range []struct {
		name      string
		surcharge int64
	}{
		{"Noord-Holland", 152}, {"Zuid-Holland", 152}, {"Utrecht", 152}, {"Flevoland", 152},
		{"Noord-Brabant", 240}, {"Friesland", 240}, {"Gelderland", 240}, {"Overijssel", 240},
		{"Drenthe", 194},
		{"Limburg", 383}, {"Zeeland", 383}, {"Groningen", 383},
	} {
		b.AddRegion(Region{Name: r.name, Surcharge: d(r.surcharge)})
	}

	b.AddAreaSurcharge(AreaSurcharge{ThresholdM2: d(10), Fee: d(150)})
	return b
}
