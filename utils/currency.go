package utils

import (
	"fmt"
	"math"
	"strings"
)

// RoundMoney rounds to two decimal places.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatCurrencyINR formats an amount with Indian digit grouping.
// Example: 123456.5 -> "₹1,23,456.50"
func FormatCurrencyINR(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	formatted := fmt.Sprintf("%.2f", RoundMoney(amount))
	parts := strings.SplitN(formatted, ".", 2)
	integerPart, decimalPart := parts[0], parts[1]

	// Tiga digit terakhir, lalu kelompok dua digit
	if len(integerPart) > 3 {
		head := integerPart[:len(integerPart)-3]
		tail := integerPart[len(integerPart)-3:]

		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		integerPart = strings.Join(groups, ",") + "," + tail
	}

	return sign + "₹" + integerPart + "." + decimalPart
}
