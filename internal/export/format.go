package export

import (
	"strconv"
	"strings"
)

// FormatWeight renders tons with at most three decimals and no trailing zeros.
func FormatWeight(tons float64) string {
	s := strconv.FormatFloat(tons, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-0" {
		return "0"
	}
	return s
}
