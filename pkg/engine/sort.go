package engine

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"voterroll/pkg/schema"
)

// CompareSerials orders serial numbers by numeric value. Decimal digits of
// any script count, so "١٢" equals "12". Serials that are not made only of
// digits, including the empty string, count as 0. Values of any length compare
// correctly because the digits are never converted to integers.
func CompareSerials(a, b string) int {
	x, y := serialDigits(a), serialDigits(b)
	if c := cmp.Compare(len(x), len(y)); c != 0 {
		return c
	}
	return strings.Compare(x, y)
}

func serialDigits(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	ascii := make([]byte, 0, len(s))
	for _, r := range s {
		d, ok := digitValue(r)
		if !ok {
			return "0"
		}
		ascii = append(ascii, '0'+byte(d))
	}
	s = strings.TrimLeft(string(ascii), "0")
	if s == "" {
		return "0"
	}
	return s
}

// digitValue returns the value of a decimal digit in any script. Unicode
// assigns every script's digits as a contiguous run starting at zero.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.IsDigit(r) {
		return 0, false
	}
	for _, rg := range unicode.Digit.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10, true
		}
	}
	for _, rg := range unicode.Digit.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10, true
		}
	}
	return 0, false
}

func sortVoters(voters []schema.Voter) {
	slices.SortStableFunc(voters, func(a, b schema.Voter) int {
		return CompareSerials(a.SerialNumber, b.SerialNumber)
	})
}
