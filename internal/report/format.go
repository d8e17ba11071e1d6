package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money форматирует сумму как $1,234.56
func Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(whole) + "." + cents
}

// Hours форматирует часы без лишних нулей
func Hours(d decimal.Decimal) string {
	return d.Round(2).String()
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// MaskSSN оставляет последние четыре цифры
func MaskSSN(ssn string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, ssn)
	if len(digits) < 4 {
		return ""
	}
	return fmt.Sprintf("XXX-XX-%s", digits[len(digits)-4:])
}
