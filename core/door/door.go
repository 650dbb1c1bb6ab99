// Package door - Door list management and range helpers
// These are presentation concerns: the engine never calls into this package.
package door

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"doorcost/core/engine"
	"doorcost/core/rules"
	doorerrors "doorcost/internal/errors"
)

// Door is one configured item in a quote
type Door struct {
	ID        string               `json:"id" yaml:"id,omitempty"`
	Config    engine.Configuration `json:"config" yaml:",inline"`
	Collapsed bool                 `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
}

var (
	entropyMu sync.Mutex
	entropy   io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a fresh sortable door identifier
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// DefaultConfig returns the starting configuration: the first product at
// base size, nothing selected, every counted option at zero, first region.
func DefaultConfig(table *rules.Table) engine.Configuration {
	cfg := engine.Configuration{}
	if products := table.Products(); len(products) > 0 {
		cfg.Product = products[0].Name
		cfg.Width = products[0].BaseWidth.InexactFloat64()
		cfg.Height = products[0].BaseHeight.InexactFloat64()
	}
	for _, o := range table.CountedOptions() {
		cfg.Counts.Set(o.ID, 0)
	}
	if regions := table.Regions(); len(regions) > 0 {
		cfg.Region = regions[0].Name
	}
	return cfg
}

// NewDefault creates a door with a new id and the default configuration
func NewDefault(table *rules.Table) Door {
	return Door{ID: NewID(), Config: DefaultConfig(table)}
}

// SelectProduct switches cfg to product name and resets the dimensions to
// that product's base size. Options, counts and region are kept.
func SelectProduct(cfg engine.Configuration, table *rules.Table, name string) (engine.Configuration, error) {
	p, ok := table.Product(name)
	if !ok {
		return cfg, doorerrors.Wrap(doorerrors.TypeUnknownProduct, "cannot select product "+name, engine.ErrUnknownProduct).
			WithContext("product", name)
	}
	out := cfg.Clone()
	out.Product = p.Name
	out.Width = p.BaseWidth.InexactFloat64()
	out.Height = p.BaseHeight.InexactFloat64()
	return out, nil
}
