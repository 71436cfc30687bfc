package rng

import (
	"errors"
	"strconv"
	"strings"
)

// Fraction is an exact probability Num/Den with 0 <= Num <= Den.
type Fraction struct {
	Num int
	Den int
}

// Of returns ceil(n * Num / Den), the number of items a fraction of n covers.
func (f Fraction) Of(n int) int {
	if f.Den == 0 || n <= 0 {
		return 0
	}
	return int((int64(n)*int64(f.Num) + int64(f.Den) - 1) / int64(f.Den))
}

// ParsePercent parses a percentage such as "10", "10%" or "12.5%" into an
// exact fraction in lowest terms. Negatives, values over 100 and more than
// 7 decimal places are rejected.
func ParsePercent(s string) (Fraction, error) {
	s = strings.TrimSpace(s)
	if v, ok := strings.CutSuffix(s, "%"); ok {
		s = strings.TrimSpace(v)
	}
	if s == "" {
		return Fraction{}, errors.New("percent is empty")
	}

	s = strings.TrimPrefix(s, "+")
	if strings.HasPrefix(s, "-") {
		return Fraction{}, errors.New("percent must not be negative")
	}
	if strings.Count(s, ".") > 1 {
		return Fraction{}, errors.New("invalid percent format")
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	for _, ch := range intPart + fracPart {
		if ch < '0' || ch > '9' {
			return Fraction{}, errors.New("invalid percent format")
		}
	}

	fracPart = strings.TrimRight(fracPart, "0")
	if len(fracPart) > 7 {
		return Fraction{}, errors.New("too many decimal places; max is 7")
	}

	digits := strings.TrimLeft(intPart+fracPart, "0")
	if digits == "" {
		return Fraction{Num: 0, Den: 1}, nil
	}
	num, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Fraction{}, errors.New("percent value too large")
	}

	// den = 100 * 10^decimals
	den := int64(100)
	for range fracPart {
		den *= 10
	}
	if num > den {
		return Fraction{}, errors.New("percent must not exceed 100")
	}
	if num == den {
		return Fraction{Num: 1, Den: 1}, nil
	}
	g := gcd(num, den)
	return Fraction{Num: int(num / g), Den: int(den / g)}, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
