package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountToWords converts a rupee amount to English words using the Indian
// numbering system.
// Example: 125000.50 -> "RUPEES ONE LAKH TWENTY FIVE THOUSAND AND FIFTY PAISE ONLY"
func AmountToWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	rupees := amount.Truncate(0)
	paise := amount.Sub(rupees).Mul(decimal.NewFromInt(100)).IntPart()

	words := "RUPEES " + convertNumberToWords(rupees.IntPart())
	if paise > 0 {
		words += " AND " + convertNumberToWords(paise) + " PAISE"
	}
	return words + " ONLY"
}

func convertNumberToWords(n int64) string {
	if n == 0 {
		return "ZERO"
	}

	if n < 0 {
		return "MINUS " + convertNumberToWords(-n)
	}

	if n < 20 {
		return units[n]
	}

	if n < 100 {
		u := n % 10
		t := n / 10
		if u == 0 {
			return tens[t]
		}
		return fmt.Sprintf("%s %s", tens[t], units[u])
	}

	if n < 1000 {
		return scaled(n, 100, "HUNDRED")
	}

	if n < 100000 {
		return scaled(n, 1000, "THOUSAND")
	}

	if n < 10000000 {
		return scaled(n, 100000, "LAKH")
	}

	return scaled(n, 10000000, "CRORE")
}

func scaled(n, unit int64, name string) string {
	head := convertNumberToWords(n/unit) + " " + name
	if rest := n % unit; rest != 0 {
		return head + " " + convertNumberToWords(rest)
	}
	return head
}

var units = []string{
	"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
	"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
	"SEVENTEEN", "EIGHTEEN", "NINETEEN",
}

var tens = []string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
}

// FormatINR renders an amount with Indian digit grouping, e.g. ₹12,34,567.50.
func FormatINR(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var grouped string
	if len(whole) <= 3 {
		grouped = whole
	} else {
		grouped = whole[len(whole)-3:]
		rest := whole[:len(whole)-3]
		for len(rest) > 2 {
			grouped = rest[len(rest)-2:] + "," + grouped
			rest = rest[:len(rest)-2]
		}
		if rest != "" {
			grouped = rest + "," + grouped
		}
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + "₹" + grouped + "." + frac
}
