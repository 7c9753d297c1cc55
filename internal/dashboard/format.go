package dashboard

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown in place of an undefined value.
const NotAvailable = "n/a"

var printer = message.NewPrinter(language.English)

// Number is a float that encodes NaN and infinities as JSON null.
type Number float64

// Valid reports whether n holds a finite value.
func (n Number) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(n), 'f', -1, 64)), nil
}

// Float returns the plain float, NaN included.
func (n Number) Float() float64 { return float64(n) }

func nan() Number { return Number(math.NaN()) }

// round2 rounds to two decimal places, ties to even: 0.125 -> 0.12.
func round2(f float64) float64 {
	return math.RoundToEven(f*100) / 100
}

// FormatDecimal renders a value rounded to two places keeping at least one
// fractional digit: 4 -> "4.0", 3.756 -> "3.76".
func FormatDecimal(n Number) string {
	if !n.Valid() {
		return NotAvailable
	}
	s := strconv.FormatFloat(round2(float64(n)), 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// FormatPercent renders a mean percentage such as "90.0%".
func FormatPercent(n Number) string {
	if !n.Valid() {
		return NotAvailable
	}
	return FormatDecimal(n) + "%"
}

// FormatMoney renders an amount as dollars with thousands separators and
// exactly two decimals: "$1,234.56".
func FormatMoney(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}

	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = printer.Sprintf("%d", n)
	}
	return "$" + sign + whole + "." + frac
}
