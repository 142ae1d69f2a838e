// Package money formats and parses dashboard currency amounts.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	ClassPositive = "positive"
	ClassNegative = "negative"
)

// Format renders an amount as US dollars with thousands separators,
// e.g. $1,234.56 or -$15.99. Digits are taken from the exact decimal.
func Format(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	dot := strings.IndexByte(fixed, '.')
	return sign + "$" + groupThousands(fixed[:dot]) + fixed[dot:]
}

// groupThousands inserts a comma every three digits from the right
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Signed renders the amount label used by list rows and upcoming cards:
// an explicit sign followed by the absolute value, and the style class
// keyed on amount < 0.
func Signed(d decimal.Decimal) (text, class string) {
	if d.IsNegative() {
		return "-" + Format(d.Abs()), ClassNegative
	}
	return "+" + Format(d.Abs()), ClassPositive
}

var balanceReplacer = strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "")

// ParseBalance turns a pre-formatted currency string back into a number.
// Anything unparseable is zero.
func ParseBalance(s string) decimal.Decimal {
	cleaned := balanceReplacer.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero
	}
	// "-$1,234.00" and "$-1,234.00" both reduce to "-1234.00"
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
