package schema

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`[\s\p{Zs}]+`)

// StationPrefix is prepended to purely numeric station names.
const StationPrefix = "مكتب"

// NormalizeColumnName strips all whitespace and lowercases. Multi-word labels
// that differ only by spacing collapse to the same key.
func NormalizeColumnName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(whitespaceRe.ReplaceAllString(name, ""))
}

// NormalizeValue produces the comparison form of a cell value: NFC, trimmed,
// whitespace runs collapsed to one space, lowercased.
func NormalizeValue(value string) string {
	if value == "" {
		return ""
	}
	// Compose before lowercasing: lowercasing a composed letter stays
	// composed, while composing after lowercasing can yield capitals.
	s := norm.NFC.String(strings.ToLower(norm.NFC.String(value)))
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// StandardizeStationName turns "7" into "مكتب 7" and blanks into Unknown.
func StandardizeStationName(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return Unknown
	}
	if isDigits(s) {
		return StationPrefix + " " + s
	}
	return s
}

// StationKey is the comparison form of a station name.
func StationKey(name string) string {
	return NormalizeValue(StandardizeStationName(name))
}

// Gender is the normalized gender code.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Canonical gender labels written back into Voter.Gender.
const (
	MaleLabel   = "ذكر"
	FemaleLabel = "أنثى"
)

var genderAliases = map[string]Gender{
	"ذكر":    GenderMale,
	"m":      GenderMale,
	"male":   GenderMale,
	"h":      GenderMale,
	"homme":  GenderMale,
	"أنثى":   GenderFemale,
	"انثى":   GenderFemale,
	"أنثي":   GenderFemale,
	"انثي":   GenderFemale,
	"f":      GenderFemale,
	"female": GenderFemale,
	"femme":  GenderFemale,
}

// GenderOf maps free text onto a gender code.
func GenderOf(value string) Gender {
	if g, ok := genderAliases[NormalizeValue(value)]; ok {
		return g
	}
	return GenderUnknown
}

// NormalizeGender rewrites recognised gender text to its canonical label and
// leaves anything else trimmed, or NotAvailable when blank.
func NormalizeGender(value string) string {
	switch GenderOf(value) {
	case GenderMale:
		return MaleLabel
	case GenderFemale:
		return FemaleLabel
	}
	return orNotAvailable(value)
}

func orNotAvailable(value string) string {
	if s := strings.TrimSpace(value); s != "" {
		return s
	}
	return NotAvailable
}

func orUnknown(value string) string {
	if s := strings.TrimSpace(value); s != "" {
		return s
	}
	return Unknown
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
