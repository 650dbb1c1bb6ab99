// Package output renders quotes for people and machines.
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"golang.org/x/text/language"

	"doorcost/core/quote"
	doorerrors "doorcost/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable box table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes q to w
	Render(w io.Writer, q *quote.Quote) error
}

// Options control how amounts and details are rendered
type Options struct {
	// Language drives number separators
	Language language.Tag

	// ShowDetails includes every breakdown line and its formula
	ShowDetails bool
}

// DefaultOptions renders English with details
func DefaultOptions() Options {
	return Options{Language: language.English, ShowDetails: true}
}

// Registry holds formatters by format
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates a registry with the cli, json and markdown formatters
func NewRegistry(opts Options) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(NewCLIFormatter(opts))
	r.Register(NewJSONFormatter(opts))
	r.Register(NewMarkdownFormatter(opts))
	return r
}

// Register adds or replaces a formatter
func (r *Registry) Register(f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[f.Format()] = f
}

// Get returns the formatter for format
func (r *Registry) Get(format Format) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	if !ok {
		return nil, doorerrors.Newf(doorerrors.TypeInput, "unknown output format %q", format)
	}
	return f, nil
}

// Formats lists registered formats in sorted order
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render looks up format and renders q with it
func (r *Registry) Render(w io.Writer, format Format, q *quote.Quote) error {
	f, err := r.Get(format)
	if err != nil {
		return err
	}
	if err := f.Render(w, q); err != nil {
		return doorerrors.Wrap(doorerrors.TypeInternal, fmt.Sprintf("render %s output", format), err)
	}
	return nil
}
