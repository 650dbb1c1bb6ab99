package output

import (
	"time"

	"github.com/shopspring/decimal"

	"doorcost/core/door"
	"doorcost/core/engine"
	"doorcost/core/quote"
)

// Money marshals as a JSON number with exactly two decimals
type Money decimal.Decimal

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

// Number marshals as a JSON number without losing precision
type Number decimal.Decimal

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(n).String()), nil
}

// LineView is the wire form of a breakdown line. Amounts are unrounded so
// the lines sum to the total before it is rounded.
type LineView struct {
	Kind     engine.Kind `json:"kind"`
	Ref      string      `json:"ref,omitempty"`
	Label    string      `json:"label"`
	Quantity Number      `json:"quantity"`
	Rate     Number      `json:"rate"`
	Amount   Number      `json:"amount"`
	Formula  string      `json:"formula,omitempty"`
}

// ResultView is the wire form of an engine result
type ResultView struct {
	Total     Money      `json:"total"`
	Area      Number     `json:"area"`
	Breakdown []LineView `json:"breakdown"`
}

// DoorView is one priced door
type DoorView struct {
	ID       string               `json:"id"`
	Config   engine.Configuration `json:"config"`
	Result   ResultView           `json:"result"`
	InRange  bool                 `json:"in_range"`
	Range    door.RangeReport     `json:"range"`
	Warnings []door.Warning       `json:"warnings,omitempty"`
}

// QuoteView is the wire form of a quote
type QuoteView struct {
	ID               string     `json:"id"`
	Doors            []DoorView `json:"doors"`
	GrandTotal       Money      `json:"grand_total"`
	RulesFingerprint string     `json:"rules_fingerprint"`
	CreatedAt        string     `json:"created_at"`
}

// NewResultView maps an engine result. Formulas are kept only with details.
func NewResultView(r *engine.Result, details bool) ResultView {
	v := ResultView{
		Total:     Money(r.Total),
		Area:      Number(r.Area),
		Breakdown: make([]LineView, 0, len(r.Breakdown)),
	}
	for _, l := range r.Breakdown {
		lv := LineView{
			Kind:     l.Kind,
			Ref:      l.Ref,
			Label:    l.Label,
			Quantity: Number(l.Quantity),
			Rate:     Number(l.Rate),
			Amount:   Number(l.Amount),
		}
		if details {
			lv.Formula = l.Formula
		}
		v.Breakdown = append(v.Breakdown, lv)
	}
	return v
}

// NewQuoteView maps a quote
func NewQuoteView(q *quote.Quote, details bool) QuoteView {
	v := QuoteView{
		ID:               q.ID,
		Doors:            make([]DoorView, 0, len(q.Doors)),
		GrandTotal:       Money(q.GrandTotal),
		RulesFingerprint: q.RulesFingerprint,
		CreatedAt:        q.CreatedAt.Format(time.RFC3339),
	}
	for _, d := range q.Doors {
		v.Doors = append(v.Doors, DoorView{
			ID:       d.Door.ID,
			Config:   d.Door.Config,
			Result:   NewResultView(d.Result, details),
			InRange:  d.Range.OK(),
			Range:    d.Range,
			Warnings: d.Warnings,
		})
	}
	return v
}
