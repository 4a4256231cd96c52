package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads the longest numeric prefix of s, the way the keypad
// display has always been read: "5." is 5, "5-1" is 5, and a string with no
// leading number ("", ".", "--1") is NaN. "Infinity" and "NaN" round-trip
// with FormatNumber.
func ParseNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return math.NaN()
	}
	end := i

	// An exponent only counts when at least one digit follows it.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// Out-of-range exponents come back as ±Inf with ErrRange.
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}

// FormatNumber renders v as the display shows results: the shortest decimal
// that round-trips, exponent notation outside [1e-6, 1e21), and "NaN",
// "Infinity" or "-Infinity" for non-finite values.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// trimExponent turns "1e-07" into "1e-7".
func trimExponent(s string) string {
	idx := strings.IndexByte(s, 'e')
	if idx < 0 || idx+2 >= len(s) {
		return s
	}
	mantissa, sign, exp := s[:idx], s[idx+1], strings.TrimLeft(s[idx+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + string(sign) + exp
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
