package shop

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

var maxGroupedUnits = decimal.NewFromInt(math.MaxInt64)

// PriceFormatter renders amounts with grouping and the currency symbol, e.g. "1,000.00 coins".
// Whole units beyond the int64 range are printed without grouping.
type PriceFormatter struct {
	printer   *message.Printer
	currency  domain.Currency
	separator string
}

func NewPriceFormatter(currency domain.Currency, tag language.Tag) *PriceFormatter {
	printer := message.NewPrinter(tag)

	return &PriceFormatter{
		printer:   printer,
		currency:  currency,
		separator: strings.Trim(printer.Sprint(number.Decimal(1.5, number.Scale(1))), "15"),
	}
}

func (f *PriceFormatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(f.currency.Scale)
	abs := rounded.Abs()
	whole := abs.Truncate(0)

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}

	if whole.LessThanOrEqual(maxGroupedUnits) {
		b.WriteString(f.printer.Sprint(number.Decimal(whole.IntPart(), number.Scale(0))))
	} else {
		b.WriteString(whole.String())
	}

	if f.currency.Scale > 0 {
		minor := abs.Sub(whole).Shift(f.currency.Scale).IntPart()
		b.WriteString(f.separator)
		fmt.Fprintf(&b, "%0*d", int(f.currency.Scale), minor)
	}

	if f.currency.Symbol != "" {
		b.WriteString(" ")
		b.WriteString(f.currency.Symbol)
	}
	return b.String()
}
