package extract

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amounts = message.NewPrinter(language.English)

// formatSalary renders a salary range the way providers show it on their
// boards: "$120,000–$150,000 yr", "$90,000+ yr" or "up to $80,000 yr".
func formatSalary(minAmount, maxAmount float64, period string) string {
	lo, hi := int64(minAmount), int64(maxAmount)
	var s string
	switch {
	case lo > 0 && hi > 0:
		s = amounts.Sprintf("$%d–$%d %s", lo, hi, period)
	case lo > 0:
		s = amounts.Sprintf("$%d+ %s", lo, period)
	case hi > 0:
		s = amounts.Sprintf("up to $%d %s", hi, period)
	}
	return strings.TrimSpace(s)
}
