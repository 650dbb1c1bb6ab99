// Package engine prices a single door configuration against a rules table.
// The computation is pure: no logging, no I/O, no shared mutable state.
package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"doorcost/core/determinism"
	"doorcost/core/rules"
	doorerrors "doorcost/internal/errors"
)

// ErrUnknownProduct is returned, wrapped, when a configuration names a
// product the table does not declare.
var ErrUnknownProduct = doorerrors.New(doorerrors.TypeUnknownProduct, "unknown product")

var one = decimal.NewFromInt(1)

// Engine prices configurations against one rules table.
// An Engine is safe for concurrent use.
type Engine struct {
	table  *rules.Table
	labels Labels
}

// Option configures an Engine
type Option func(*Engine)

// WithLabels sets the label set used for breakdown lines
func WithLabels(l Labels) Option {
	return func(e *Engine) {
		e.labels = l
	}
}

// WithLanguage selects the closest supported label set for tag
func WithLanguage(tag language.Tag) Option {
	return func(e *Engine) {
		e.labels = LabelsFor(tag)
	}
}

// New creates an engine for table
func New(table *rules.Table, opts ...Option) (*Engine, error) {
	if table == nil {
		return nil, doorerrors.Input("rules table is required")
	}
	e := &Engine{
		table:  table,
		labels: English,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Calculate prices cfg against table with English labels
func Calculate(cfg Configuration, table *rules.Table) (*Result, error) {
	e, err := New(table)
	if err != nil {
		return nil, err
	}
	return e.Calculate(cfg)
}

// Table returns the rules table the engine prices against
func (e *Engine) Table() *rules.Table {
	return e.table
}

// Calculate prices cfg. Lines are emitted in a fixed order: base, width,
// height, area options, flat options, counted options, region, area surcharges.
// Dimensions are never range-checked here.
func (e *Engine) Calculate(cfg Configuration) (*Result, error) {
	p, ok := e.table.Product(cfg.Product)
	if !ok {
		return nil, doorerrors.Wrap(doorerrors.TypeUnknownProduct,
			fmt.Sprintf("unknown product %q", cfg.Product), ErrUnknownProduct).
			WithContext("product", cfg.Product)
	}
	if !finite(cfg.Width) || !finite(cfg.Height) {
		return nil, doorerrors.Newf(doorerrors.TypeInput,
			"dimensions must be finite numbers, got %v × %v", cfg.Width, cfg.Height)
	}

	width := decimal.NewFromFloat(cfg.Width)
	height := decimal.NewFromFloat(cfg.Height)
	widthM := width.Shift(-3)
	area := widthM.Mul(height.Shift(-3))

	c := &calculation{total: decimal.Zero}

	c.add(Line{
		Kind:     KindBase,
		Ref:      p.Name,
		Label:    fmt.Sprintf(e.labels.Base, p.Name),
		Quantity: one,
		Rate:     p.BasePrice,
		Amount:   p.BasePrice,
		Formula:  fmt.Sprintf("base price %s", p.BasePrice),
	})

	if n := increments(width, p.BaseWidth); n > 0 {
		c.add(Line{
			Kind:     KindWidth,
			Ref:      p.Name,
			Label:    fmt.Sprintf(e.labels.Width, n, p.WidthIncPer100),
			Quantity: decimal.NewFromInt(n),
			Rate:     p.WidthIncPer100,
			Amount:   p.WidthIncPer100.Mul(decimal.NewFromInt(n)),
			Formula:  fmt.Sprintf("ceil((%s - %s) / 100) × %s", width, p.BaseWidth, p.WidthIncPer100),
		})
	}

	if n := increments(height, p.BaseHeight); n > 0 {
		c.add(Line{
			Kind:     KindHeight,
			Ref:      p.Name,
			Label:    fmt.Sprintf(e.labels.Height, n, p.HeightIncPer100),
			Quantity: decimal.NewFromInt(n),
			Rate:     p.HeightIncPer100,
			Amount:   p.HeightIncPer100.Mul(decimal.NewFromInt(n)),
			Formula:  fmt.Sprintf("ceil((%s - %s) / 100) × %s", height, p.BaseHeight, p.HeightIncPer100),
		})
	}

	for _, o := range e.table.AreaOptions() {
		if !cfg.Selected(o.ID) {
			continue
		}
		c.add(Line{
			Kind:     KindAreaOption,
			Ref:      o.ID,
			Label:    fmt.Sprintf(e.labels.AreaOption, o.ID, area.StringFixed(2), o.PricePerM2),
			Quantity: area,
			Rate:     o.PricePerM2,
			Amount:   area.Mul(o.PricePerM2),
			Formula:  fmt.Sprintf("(%s / 1000) × (%s / 1000) × %s", width, height, o.PricePerM2),
		})
	}

	for _, o := range e.table.FlatOptions() {
		if !cfg.Selected(o.ID) {
			continue
		}
		c.add(Line{
			Kind:     KindFlatOption,
			Ref:      o.ID,
			Label:    fmt.Sprintf(e.labels.FlatOption, o.ID),
			Quantity: one,
			Rate:     o.Price,
			Amount:   o.Price,
			Formula:  fmt.Sprintf("one-time %s", o.Price),
		})
	}

	cfg.Counts.Each(func(id string, q int) {
		if q <= 0 {
			return
		}
		o, ok := e.table.CountedOption(id)
		if !ok {
			return
		}
		c.add(e.countedLine(o, q, widthM))
	})

	if r, ok := e.table.Region(cfg.Region); ok {
		c.add(Line{
			Kind:     KindRegion,
			Ref:      r.Name,
			Label:    fmt.Sprintf(e.labels.Region, r.Name),
			Quantity: one,
			Rate:     r.Surcharge,
			Amount:   r.Surcharge,
			Formula:  fmt.Sprintf("region %s", r.Surcharge),
		})
	}

	for _, s := range e.table.AreaSurcharges() {
		if !area.LessThan(s.ThresholdM2) {
			continue
		}
		c.add(Line{
			Kind:     KindAreaSurcharge,
			Label:    fmt.Sprintf(e.labels.AreaSurcharge, s.ThresholdM2),
			Quantity: one,
			Rate:     s.Fee,
			Amount:   s.Fee,
			Formula:  fmt.Sprintf("%s m² < %s m² → %s", area, s.ThresholdM2, s.Fee),
		})
	}

	return &Result{
		Total:     determinism.RoundMoney(c.total),
		Breakdown: c.lines,
		Area:      area,
	}, nil
}

func (e *Engine) countedLine(o rules.CountedOption, q int, widthM decimal.Decimal) Line {
	if o.Kind == rules.PerLength {
		instances := q
		formula := fmt.Sprintf("%d × %s m × %s", q, widthM, o.Price)
		if o.Max > 0 {
			formula = fmt.Sprintf("min(%d, %d) × %s m × %s", q, o.Max, widthM, o.Price)
			if instances > o.Max {
				instances = o.Max
			}
		}
		n := decimal.NewFromInt(int64(instances))
		return Line{
			Kind:     KindCountedOption,
			Ref:      o.ID,
			Label:    fmt.Sprintf(e.labels.PerLength, o.ID, instances, widthM.StringFixed(2), o.Price),
			Quantity: n.Mul(widthM),
			Rate:     o.Price,
			Amount:   n.Mul(widthM).Mul(o.Price),
			Formula:  formula,
		}
	}

	n := decimal.NewFromInt(int64(q))
	return Line{
		Kind:     KindCountedOption,
		Ref:      o.ID,
		Label:    fmt.Sprintf(e.labels.PerItem, o.ID, q, o.Price),
		Quantity: n,
		Rate:     o.Price,
		Amount:   n.Mul(o.Price),
		Formula:  fmt.Sprintf("%d × %s", q, o.Price),
	}
}

// calculation accumulates lines and the running total
type calculation struct {
	lines []Line
	total decimal.Decimal
}

func (c *calculation) add(l Line) {
	c.lines = append(c.lines, l)
	c.total = c.total.Add(l.Amount)
}

// increments counts started 100 mm steps of value above base
func increments(value, base decimal.Decimal) int64 {
	over := value.Sub(base)
	if !over.IsPositive() {
		return 0
	}
	return over.Shift(-2).Ceil().IntPart()
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
