package engine

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"doorcost/core/rules"
	doorerrors "doorcost/internal/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got}, msgAndArgs...)...)
}

func kinds(r *Result) []Kind {
	out := make([]Kind, len(r.Breakdown))
	for i, l := range r.Breakdown {
		out[i] = l.Kind
	}
	return out
}

func TestCalculateBaseDoor(t *testing.T) {
	r, err := Calculate(Configuration{Product: "Type A", Width: 800, Height: 2100}, rules.Default())
	require.NoError(t, err)

	assertDecimal(t, "2942.00", r.Total)
	assertDecimal(t, "1.68", r.Area)
	require.Len(t, r.Breakdown, 2)

	assert.Equal(t, "Base (Type A)", r.Breakdown[0].Label)
	assertDecimal(t, "2792", r.Breakdown[0].Amount)
	assert.Equal(t, "Small area surcharge (< 10 m²)", r.Breakdown[1].Label)
	assertDecimal(t, "150", r.Breakdown[1].Amount)
}

func TestCalculateDimensionSurcharges(t *testing.T) {
	tests := []struct {
		name       string
		width      float64
		height     float64
		wantWidth  string
		wantHeight string
	}{
		{"at base", 800, 2100, "", ""},
		{"one full increment", 900, 2100, "112", ""},
		{"one millimetre over", 801, 2100, "112", ""},
		{"started second increment", 901, 2100, "224", ""},
		{"fractional overage", 800.5, 2100, "112", ""},
		{"below base", 700, 2000, "", ""},
		{"height only", 800, 2250, "", "104"},
		{"both", 1000, 2200, "224", "52"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Calculate(Configuration{Product: "Type A", Width: tt.width, Height: tt.height}, rules.Default())
			require.NoError(t, err)

			var width, height *Line
			for i := range r.Breakdown {
				switch r.Breakdown[i].Kind {
				case KindWidth:
					width = &r.Breakdown[i]
				case KindHeight:
					height = &r.Breakdown[i]
				}
			}
			if tt.wantWidth == "" {
				assert.Nil(t, width)
			} else {
				require.NotNil(t, width)
				assertDecimal(t, tt.wantWidth, width.Amount)
			}
			if tt.wantHeight == "" {
				assert.Nil(t, height)
			} else {
				require.NotNil(t, height)
				assertDecimal(t, tt.wantHeight, height.Amount)
			}
		})
	}
}

func TestCalculateWidthIncrementAddedOnce(t *testing.T) {
	r, err := Calculate(Configuration{Product: "Type A", Width: 900, Height: 2100}, rules.Default())
	require.NoError(t, err)

	require.Len(t, r.Breakdown, 3)
	assert.Equal(t, KindWidth, r.Breakdown[1].Kind)
	assert.Equal(t, "Width surcharge (1 × 112)", r.Breakdown[1].Label)
	assertDecimal(t, "112.00", r.Breakdown[1].Amount)
	assertDecimal(t, "3054", r.Total)
}

func TestCalculatePerLengthCapped(t *testing.T) {
	cfg := Configuration{
		Product: "Type D",
		Width:   3200,
		Height:  2100,
		Counts:  Counts(Count{"Horizontale Regel", 6}),
	}
	r, err := Calculate(cfg, rules.Default())
	require.NoError(t, err)

	require.Len(t, r.Breakdown, 3)
	line := r.Breakdown[1]
	assert.Equal(t, KindCountedOption, line.Kind)
	assert.Equal(t, "Horizontale Regel (4 × 3.20 m × €207)", line.Label)
	assertDecimal(t, "2649.60", line.Amount)
	assert.Equal(t, "min(6, 4) × 3.2 m × 207", line.Formula)
}

func TestCalculatePerLengthWithoutCap(t *testing.T) {
	table := rules.NewBuilder().
		AddProduct(rules.Product{
			Name:      "Plain",
			BasePrice: dec("100"), BaseWidth: dec("1000"), BaseHeight: dec("2000"),
			MaxWidth: dec("3000"), MaxHeight: dec("3000"),
			WidthIncPer100: dec("10"), HeightIncPer100: dec("10"),
		}).
		AddCountedOption(rules.CountedOption{ID: "Regel", Kind: rules.PerLength, Price: dec("10")}).
		MustBuild()

	r, err := Calculate(Configuration{Product: "Plain", Width: 1500, Height: 2000, Counts: Counts(Count{"Regel", 9})}, table)
	require.NoError(t, err)

	require.Len(t, r.Breakdown, 3)
	assertDecimal(t, "135", r.Breakdown[2].Amount)
	assertDecimal(t, "285", r.Total)
}

func TestCalculateLineOrder(t *testing.T) {
	cfg := Configuration{
		Product: "Type B",
		Width:   1750,
		Height:  2250,
		// selection order is irrelevant for area and flat options
		Options: []string{"Montagebalk", "Paneelvulling (Staalplaat)", "Isolatieglas"},
		Counts: Counts(
			Count{"Espagnolet", 1},
			Count{"Komgreep", 2},
			Count{"Horizontale Regel", 1},
		),
		Region: "Utrecht",
	}
	r, err := Calculate(cfg, rules.Default())
	require.NoError(t, err)

	assert.Equal(t, []Kind{
		KindBase, KindWidth, KindHeight,
		KindAreaOption, KindAreaOption,
		KindFlatOption,
		KindCountedOption, KindCountedOption, KindCountedOption,
		KindRegion, KindAreaSurcharge,
	}, kinds(r))

	refs := make([]string, len(r.Breakdown))
	for i, l := range r.Breakdown {
		refs[i] = l.Ref
	}
	assert.Equal(t, []string{
		"Type B", "Type B", "Type B",
		"Isolatieglas", "Paneelvulling (Staalplaat)",
		"Montagebalk",
		"Espagnolet", "Komgreep", "Horizontale Regel",
		"Utrecht", "",
	}, refs)

	assert.Equal(t, "Isolatieglas (3.94 m² × €186)", r.Breakdown[3].Label)
	assert.Equal(t, "Montagebalk (one-time)", r.Breakdown[5].Label)
	assert.Equal(t, "Espagnolet (1 × €290)", r.Breakdown[6].Label)
	assert.Equal(t, "Regional rate (Utrecht)", r.Breakdown[9].Label)
}

func TestCalculateNoOptionsYieldsNoOptionLines(t *testing.T) {
	cfg := Configuration{
		Product: "Type C",
		Width:   2000,
		Height:  2100,
		Counts:  Counts(Count{"Komgreep", 0}, Count{"Haakslot", 0}, Count{"Espagnolet", 0}, Count{"Horizontale Regel", 0}),
		Region:  "Drenthe",
	}
	r, err := Calculate(cfg, rules.Default())
	require.NoError(t, err)

	assert.Equal(t, []Kind{KindBase, KindWidth, KindRegion, KindAreaSurcharge}, kinds(r))
}

func TestCalculateSilentlyIgnoresUnknowns(t *testing.T) {
	cfg := Configuration{
		Product: "Type A",
		Width:   800,
		Height:  2100,
		Options: []string{"Deurdranger", "Komgreep"},
		Counts:  Counts(Count{"Deurdranger", 3}, Count{"Haakslot", -2}),
		Region:  "Vlaanderen",
	}
	r, err := Calculate(cfg, rules.Default())
	require.NoError(t, err)

	assert.Equal(t, []Kind{KindBase, KindAreaSurcharge}, kinds(r))
	assertDecimal(t, "2942", r.Total)
}

func TestCalculateUnknownProduct(t *testing.T) {
	_, err := Calculate(Configuration{Product: "Type Z", Width: 800, Height: 2100}, rules.Default())
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrUnknownProduct))
	assert.Equal(t, doorerrors.TypeUnknownProduct, doorerrors.TypeOf(err))
	assert.Contains(t, err.Error(), `"Type Z"`)
}

func TestCalculateRejectsMissingTableAndNonFiniteInput(t *testing.T) {
	_, err := Calculate(Configuration{Product: "Type A"}, nil)
	assert.True(t, doorerrors.IsType(err, doorerrors.TypeInput))

	_, err = Calculate(Configuration{Product: "Type A", Width: math.NaN(), Height: 2100}, rules.Default())
	assert.True(t, doorerrors.IsType(err, doorerrors.TypeInput))
}

func TestCalculateLargeAreaSkipsSurcharge(t *testing.T) {
	r, err := Calculate(Configuration{Product: "Type F", Width: 4000, Height: 2600}, rules.Default())
	require.NoError(t, err)

	assertDecimal(t, "10.4", r.Area)
	for _, l := range r.Breakdown {
		assert.NotEqual(t, KindAreaSurcharge, l.Kind)
	}
}

func TestCalculateAreaAndTotalAreExact(t *testing.T) {
	dims := []float64{0, 1, 799.9, 800, 801, 1234.5, 2400, 3333, 6000}
	eng, err := New(rules.Default())
	require.NoError(t, err)

	for _, w := range dims {
		for _, h := range dims {
			cfg := Configuration{
				Product: "Type E",
				Width:   w,
				Height:  h,
				Options: []string{"Isolatieglas", "Buitenkwaliteit coating", "Montagebalk"},
				Counts:  Counts(Count{"Horizontale Regel", 3}, Count{"Haakslot", 1}),
				Region:  "Zeeland",
			}
			r, err := eng.Calculate(cfg)
			require.NoError(t, err)

			wantArea := decimal.NewFromFloat(w).Shift(-3).Mul(decimal.NewFromFloat(h).Shift(-3))
			assert.True(t, wantArea.Equal(r.Area), "area for %v × %v", w, h)
			assert.True(t, r.Subtotal().Round(2).Equal(r.Total), "total for %v × %v", w, h)
		}
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	cfg := Configuration{
		Product: "Type B",
		Width:   2345,
		Height:  2468,
		Options: []string{"Isolatieglas"},
		Counts:  Counts(Count{"Komgreep", 2}, Count{"Horizontale Regel", 5}),
		Region:  "Limburg",
	}
	a, err := Calculate(cfg, rules.Default())
	require.NoError(t, err)
	b, err := Calculate(cfg, rules.Default())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestCalculateDutchLabels(t *testing.T) {
	eng, err := New(rules.Default(), WithLanguage(language.MustParse("nl-NL")))
	require.NoError(t, err)

	r, err := eng.Calculate(Configuration{
		Product: "Type A",
		Width:   900,
		Height:  2100,
		Options: []string{"Montagebalk"},
		Region:  "Groningen",
	})
	require.NoError(t, err)

	labels := make([]string, len(r.Breakdown))
	for i, l := range r.Breakdown {
		labels[i] = l.Label
	}
	assert.Equal(t, []string{
		"Basis (Type A)",
		"Breedte toeslag (1 × 112)",
		"Montagebalk (vast)",
		"Regionaal tarief (Groningen)",
		"Kleine oppervlakte toeslag (< 10 m²)",
	}, labels)
}

func TestLabelsFor(t *testing.T) {
	assert.Equal(t, Dutch, LabelsFor(language.Dutch))
	assert.Equal(t, English, LabelsFor(language.BritishEnglish))
	assert.Equal(t, English, LabelsFor(language.Japanese))
}

func TestQuantitiesPreserveDocumentOrder(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var cfg Configuration
		src := `{"product":"Type A","width":800,"height":2100,"counts":{"Haakslot":1,"Komgreep":2,"Espagnolet":0}}`
		require.NoError(t, json.Unmarshal([]byte(src), &cfg))
		assert.Equal(t, []string{"Haakslot", "Komgreep", "Espagnolet"}, cfg.Counts.Keys())

		out, err := json.Marshal(cfg.Counts)
		require.NoError(t, err)
		assert.Equal(t, `{"Haakslot":1,"Komgreep":2,"Espagnolet":0}`, string(out))
	})

	t.Run("json null", func(t *testing.T) {
		var q Quantities
		require.NoError(t, json.Unmarshal([]byte(`null`), &q))
		assert.Equal(t, 0, q.Len())
	})

	t.Run("json rejects arrays", func(t *testing.T) {
		var q Quantities
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &q))
	})

	t.Run("yaml", func(t *testing.T) {
		var cfg Configuration
		src := "product: Type A\nwidth: 800\nheight: 2100\ncounts:\n  Espagnolet: 1\n  Horizontale Regel: 2\n"
		require.NoError(t, yaml.Unmarshal([]byte(src), &cfg))
		assert.Equal(t, []string{"Espagnolet", "Horizontale Regel"}, cfg.Counts.Keys())

		out, err := yaml.Marshal(cfg.Counts)
		require.NoError(t, err)
		assert.Equal(t, "Espagnolet: 1\nHorizontale Regel: 2\n", string(out))
	})
}

func TestConfigurationClone(t *testing.T) {
	cfg := Configuration{
		Product: "Type A",
		Options: []string{"Isolatieglas"},
		Counts:  Counts(Count{"Komgreep", 1}),
	}
	clone := cfg.Clone()
	clone.Options[0] = "Montagebalk"
	clone.Counts.Set("Komgreep", 4)

	assert.Equal(t, "Isolatieglas", cfg.Options[0])
	n, _ := cfg.Counts.Get("Komgreep")
	assert.Equal(t, 1, n)
}
