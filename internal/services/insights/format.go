package insights

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCount renders an integer with thousands separators.
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatNumber renders a metric value without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDelta renders a trend magnitude, grouping whole numbers.
func FormatDelta(v float64) string {
	if v == float64(int64(v)) {
		return FormatCount(int64(v))
	}
	return FormatNumber(v)
}

// CSSWidth renders a bar width for a style attribute. Values are not clamped.
func CSSWidth(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
