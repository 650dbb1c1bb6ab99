package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"doorcost/core/door"
	"doorcost/core/engine"
	"doorcost/core/quote"
	"doorcost/core/rules"
	doorerrors "doorcost/internal/errors"
)

func sampleQuote(t *testing.T) *quote.Quote {
	t.Helper()
	eng, err := engine.New(rules.Default())
	require.NoError(t, err)

	q, err := quote.Build(context.Background(), eng, []door.Door{
		{ID: "front", Config: engine.Configuration{
			Product: "Type A", Width: 900, Height: 2100,
			Options: []string{"Isolatieglas"},
			Region:  "Utrecht",
		}},
		{ID: "shed", Config: engine.Configuration{Product: "Type D", Width: 7000, Height: 2100}},
	})
	require.NoError(t, err)
	return q
}

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		amount string
		tag    language.Tag
		want   string
	}{
		{"2942", language.English, "€2,942.00"},
		{"2942", language.Dutch, "€ 2.942,00"},
		{"2649.6", language.MustParse("nl-NL"), "€ 2.649,60"},
		{"312.48", language.English, "€312.48"},
		{"0.005", language.English, "€0.01"},
		{"-12.5", language.English, "-€12.50"},
		{"1234567.891", language.English, "€1,234,567.89"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEUR(decimal.RequireFromString(tt.amount), tt.tag))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1.68", FormatNumber(decimal.RequireFromString("1.68"), 2, language.English))
	assert.Equal(t, "1,68", FormatNumber(decimal.RequireFromString("1.68"), 2, language.Dutch))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(DefaultOptions())
	assert.Equal(t, []Format{FormatCLI, FormatJSON, FormatMarkdown}, r.Formats())

	_, err := r.Get("html")
	assert.True(t, doorerrors.IsType(err, doorerrors.TypeInput))

	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "pr", sampleQuote(t)))
}

func TestCLIFormatter(t *testing.T) {
	q := sampleQuote(t)

	var buf bytes.Buffer
	require.NoError(t, NewCLIFormatter(DefaultOptions()).Render(&buf, q))
	out := buf.String()

	assert.Contains(t, out, "DOOR PRICE QUOTE")
	assert.Contains(t, out, "#1 Type A  900 × 2100 mm")
	assert.Contains(t, out, "└─ Base (Type A)")
	assert.Contains(t, out, "└─ Width surcharge (1 × 112)")
	assert.Contains(t, out, "#2 Type D  7000 × 2100 mm  (out of range)")
	assert.Contains(t, out, "GRAND TOTAL")
	assert.Contains(t, out, FormatEUR(q.GrandTotal, language.English))
	assert.Contains(t, out, q.RulesFingerprint)

	// every table row has the same display width
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "│") {
			assert.Equal(t, boxWidth+2, len([]rune(line)), line)
		}
	}
}

func TestCLIFormatterWithoutDetails(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Language: language.Dutch}
	require.NoError(t, NewCLIFormatter(opts).Render(&buf, sampleQuote(t)))

	out := buf.String()
	assert.NotContains(t, out, "  └─ ")
	assert.NotContains(t, out, "Basis (Type A)")
	assert.Contains(t, out, "GRAND TOTAL")
	assert.Contains(t, out, "€ ")
}

func TestJSONFormatter(t *testing.T) {
	q := sampleQuote(t)

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(DefaultOptions()).Render(&buf, q))

	var decoded map[string]interface{}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	require.NoError(t, dec.Decode(&decoded))

	assert.Equal(t, q.ID, decoded["id"])
	assert.Equal(t, json.Number(q.GrandTotal.StringFixed(2)), decoded["grand_total"])

	doors := decoded["doors"].([]interface{})
	require.Len(t, doors, 2)
	front := doors[0].(map[string]interface{})
	shed := doors[1].(map[string]interface{})
	assert.Equal(t, true, front["in_range"])
	assert.Equal(t, false, shed["in_range"])

	result := front["result"].(map[string]interface{})
	assert.Equal(t, json.Number("1.89"), result["area"])
	base := result["breakdown"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "base", base["kind"])
	assert.Equal(t, json.Number("2792"), base["amount"])
	assert.NotEmpty(t, base["formula"])
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(DefaultOptions()).Render(&buf, sampleQuote(t)))
	out := buf.String()

	assert.Contains(t, out, "## Door 1: Type A (900 × 2100 mm, 1.89 m²)")
	assert.Contains(t, out, "| Base (Type A) | €2,792.00 |")
	assert.Contains(t, out, "> Dimensions outside 3200–6000 × 2100–2650 mm")
	assert.Contains(t, out, "**Grand total:")
}

func TestViewDropsFormulasWithoutDetails(t *testing.T) {
	r, err := engine.Calculate(engine.Configuration{Product: "Type A", Width: 800, Height: 2100}, rules.Default())
	require.NoError(t, err)

	v := NewResultView(r, false)
	for _, l := range v.Breakdown {
		assert.Empty(t, l.Formula)
	}

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total":2942.00`)
	assert.Contains(t, string(data), `"area":1.68`)
}
