package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders cents as a grouped dollar amount, e.g. 150000 -> "$1,500.00".
func FormatUSD(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + usd.Sprintf("$%d.%02d", cents/100, cents%100)
}
