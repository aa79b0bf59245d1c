package service

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders v as Indonesian Rupiah without decimals, e.g. "Rp 50.000".
func FormatRupiah(v float64) string {
	return "Rp " + FormatNumber(v)
}

// FormatNumber renders v with Indonesian digit grouping, e.g. "50.000".
// NaN and infinities render as "0".
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return idPrinter.Sprintf("%d", int64(math.Round(v)))
}

// ParseAmount reads a backend decimal string. Unparsable input yields 0.
func ParseAmount(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
