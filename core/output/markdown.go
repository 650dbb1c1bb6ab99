package output

import (
	"fmt"
	"io"
	"strings"

	"doorcost/core/quote"
)

// MarkdownFormatter writes one table per door and a summary
type MarkdownFormatter struct {
	opts Options
}

// NewMarkdownFormatter creates a markdown formatter
func NewMarkdownFormatter(opts Options) *MarkdownFormatter {
	return &MarkdownFormatter{opts: opts}
}

// Format returns FormatMarkdown
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render writes markdown
func (f *MarkdownFormatter) Render(w io.Writer, q *quote.Quote) error {
	var b strings.Builder
	tag := f.opts.Language

	b.WriteString("# Door price quote\n\n")
	for i, d := range q.Doors {
		cfg := d.Door.Config
		fmt.Fprintf(&b, "## Door %d: %s (%s × %s mm, %s m²)\n\n", i+1, cfg.Product,
			trimFloat(cfg.Width), trimFloat(cfg.Height), FormatNumber(d.Result.Area, 2, tag))
		if !d.Range.OK() {
			fmt.Fprintf(&b, "> Dimensions outside %s–%s × %s–%s mm\n\n",
				trimFloat(d.Range.MinWidth), trimFloat(d.Range.MaxWidth),
				trimFloat(d.Range.MinHeight), trimFloat(d.Range.MaxHeight))
		}

		if f.opts.ShowDetails {
			b.WriteString("| Item | Amount |\n|---|---:|\n")
			for _, l := range d.Result.Breakdown {
				fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(l.Label), FormatEUR(l.Amount, tag))
			}
			fmt.Fprintf(&b, "| **Total** | **%s** |\n\n", FormatEUR(d.Result.Total, tag))
		} else {
			fmt.Fprintf(&b, "Total: **%s**\n\n", FormatEUR(d.Result.Total, tag))
		}

		for _, warn := range d.Warnings {
			fmt.Fprintf(&b, "- ⚠ %s\n", warn)
		}
		if len(d.Warnings) > 0 {
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "**Grand total: %s**\n\n", FormatEUR(q.GrandTotal, tag))
	fmt.Fprintf(&b, "_Quote %s, rules %s_\n", q.ID, q.RulesFingerprint)

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
