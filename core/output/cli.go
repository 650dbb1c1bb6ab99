package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"doorcost/core/quote"
)

const boxWidth = 73

// CLIFormatter draws the quote as a box table
type CLIFormatter struct {
	opts Options
}

// NewCLIFormatter creates a CLI formatter
func NewCLIFormatter(opts Options) *CLIFormatter {
	return &CLIFormatter{opts: opts}
}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the box table
func (f *CLIFormatter) Render(w io.Writer, q *quote.Quote) error {
	bw := &boxWriter{w: w}
	tag := f.opts.Language

	bw.rule("┌", "┐")
	bw.centered("DOOR PRICE QUOTE")
	bw.rule("├", "┤")

	for i, d := range q.Doors {
		cfg := d.Door.Config
		title := fmt.Sprintf("#%d %s  %s × %s mm", i+1, cfg.Product,
			trimFloat(cfg.Width), trimFloat(cfg.Height))
		if !d.Range.OK() {
			title += "  (out of range)"
		}
		bw.row(title, FormatEUR(d.Result.Total, tag))

		if f.opts.ShowDetails {
			for _, l := range d.Result.Breakdown {
				bw.row("  └─ "+l.Label, FormatEUR(l.Amount, tag))
			}
			for _, warn := range d.Warnings {
				bw.row("  !  "+warn.String(), "")
			}
		}
	}

	bw.rule("├", "┤")
	bw.row("GRAND TOTAL", FormatEUR(q.GrandTotal, tag))
	bw.rule("└", "┘")

	bw.printf("\nQuote %s · rules %s\n", q.ID, q.RulesFingerprint)
	return bw.err
}

// boxWriter remembers the first write error so rendering code stays linear
type boxWriter struct {
	w   io.Writer
	err error
}

func (b *boxWriter) printf(format string, args ...interface{}) {
	if b.err != nil {
		return
	}
	_, b.err = fmt.Fprintf(b.w, format, args...)
}

func (b *boxWriter) rule(left, right string) {
	b.printf("%s%s%s\n", left, strings.Repeat("─", boxWidth), right)
}

func (b *boxWriter) centered(s string) {
	pad := boxWidth - len([]rune(s))
	b.printf("│%s%s%s│\n", strings.Repeat(" ", pad/2), s, strings.Repeat(" ", pad-pad/2))
}

func (b *boxWriter) row(label, amount string) {
	b.printf("│ %-50s %20s │\n", truncate(label, 50), amount)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
