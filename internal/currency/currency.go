// Package currency renders minor-unit amounts as display prices.
package currency

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts held in minor units for one currency and locale.
type Formatter struct {
	tag    language.Tag
	symbol string
	scale  int
	div    int64
}

// USD is the storefront's display currency.
var USD = New(currency.USD, "$", language.AmericanEnglish)

// New builds a Formatter. The number of minor-unit digits comes from the
// currency's standard rounding.
func New(unit currency.Unit, symbol string, tag language.Tag) *Formatter {
	scale, _ := currency.Standard.Rounding(unit)
	div := int64(1)
	for i := 0; i < scale; i++ {
		div *= 10
	}
	return &Formatter{tag: tag, symbol: symbol, scale: scale, div: div}
}

// Format renders amount, e.g. 8999 as "$89.99". Negative amounts clamp to zero.
func (f *Formatter) Format(amount int64) string {
	if amount < 0 {
		amount = 0
	}
	whole := message.NewPrinter(f.tag).Sprintf("%d", amount/f.div)
	if f.scale == 0 {
		return f.symbol + whole
	}
	return fmt.Sprintf("%s%s.%0*d", f.symbol, whole, f.scale, amount%f.div)
}

// Format renders cents as US dollars.
func Format(cents int64) string {
	return USD.Format(cents)
}
