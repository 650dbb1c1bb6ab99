package output

import (
	"encoding/json"
	"io"

	"doorcost/core/quote"
)

// JSONFormatter writes the quote view as indented JSON
type JSONFormatter struct {
	opts Options
}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter(opts Options) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render writes JSON
func (f *JSONFormatter) Render(w io.Writer, q *quote.Quote) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(NewQuoteView(q, f.opts.ShowDetails))
}
