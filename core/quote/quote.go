// Package quote - Multi-door aggregation
// A quote is a fold over independent engine invocations, one per door.
package quote

import (
	"context"
	"runtime"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"doorcost/core/door"
	"doorcost/core/engine"
	doorerrors "doorcost/internal/errors"
	"doorcost/internal/logging"
)

// DoorResult is one priced door
type DoorResult struct {
	Door     door.Door        `json:"door"`
	Result   *engine.Result   `json:"result"`
	Range    door.RangeReport `json:"range"`
	Warnings []door.Warning   `json:"warnings,omitempty"`
}

// Quote is the priced set of doors
type Quote struct {
	ID string `json:"id"`

	Doors []DoorResult `json:"doors"`

	// GrandTotal is the sum of each door's rounded total
	GrandTotal decimal.Decimal `json:"grand_total"`

	// RulesFingerprint identifies the rules table used
	RulesFingerprint string `json:"rules_fingerprint"`

	CreatedAt time.Time `json:"created_at"`
}

// Build prices every door in parallel and returns the results in input order.
// The first engine error aborts the build.
func Build(ctx context.Context, eng *engine.Engine, doors []door.Door) (*Quote, error) {
	if eng == nil {
		return nil, doorerrors.Input("engine is required")
	}
	if len(doors) == 0 {
		return nil, doorerrors.Input("at least one door is required")
	}

	table := eng.Table()
	results := make([]DoorResult, len(doors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, d := range doors {
		i, d := i, d
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := eng.Calculate(d.Config)
			if err != nil {
				return doorerrors.Wrapf(doorerrors.TypeOf(err), err, "door %d (%s)", i+1, d.ID).
					WithContext("door_index", i)
			}
			results[i] = DoorResult{
				Door:     d,
				Result:   r,
				Range:    door.CheckRange(d.Config, table),
				Warnings: door.Validate(d.Config, table),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	q := &Quote{
		ID:               door.NewID(),
		Doors:            results,
		GrandTotal:       decimal.Zero,
		RulesFingerprint: table.Fingerprint(),
		CreatedAt:        time.Now().UTC(),
	}
	for _, r := range results {
		q.GrandTotal = q.GrandTotal.Add(r.Result.Total)
	}

	logging.Debug("quote built",
		zap.String("quote_id", q.ID),
		zap.Int("doors", len(results)),
		zap.String("grand_total", q.GrandTotal.StringFixed(2)),
		zap.String("rules", q.RulesFingerprint),
	)
	return q, nil
}

// OutOfRange returns the doors whose dimensions fall outside their product bounds
func (q *Quote) OutOfRange() []DoorResult {
	var out []DoorResult
	for _, d := range q.Doors {
		if !d.Range.OK() {
			out = append(out, d)
		}
	}
	return out
}
