package output

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatEUR renders amount as euros with the separators of tag.
// Dutch puts a space after the symbol ("€ 2.942,00"); everything else
// uses the English layout ("€2,942.00").
func FormatEUR(amount decimal.Decimal, tag language.Tag) string {
	p := message.NewPrinter(tag)
	abs := amount.Round(2).Abs()
	digits := p.Sprint(number.Decimal(abs.InexactFloat64(), number.Scale(2)))

	sign := ""
	if amount.Round(2).IsNegative() {
		sign = "-"
	}

	if base, _ := tag.Base(); base == dutchBase {
		return "€ " + sign + digits
	}
	return sign + "€" + digits
}

// FormatNumber renders v with exactly decimals fraction digits in the layout of tag
func FormatNumber(v decimal.Decimal, decimals int, tag language.Tag) string {
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(v.Round(int32(decimals)).InexactFloat64(), number.Scale(decimals)))
}

var dutchBase, _ = language.Dutch.Base()
