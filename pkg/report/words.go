package report

import (
	"strings"
)

var (
	arabicUnits     = []string{"", "واحد", "اثنان", "ثلاثة", "أربعة", "خمسة", "ستة", "سبعة", "ثمانية", "تسعة"}
	arabicTeens     = []string{"عشرة", "أحد عشر", "اثنا عشر", "ثلاثة عشر", "أربعة عشر", "خمسة عشر", "ستة عشر", "سبعة عشر", "ثمانية عشر", "تسعة عشر"}
	arabicTens      = []string{"", "", "عشرون", "ثلاثون", "أربعون", "خمسون", "ستون", "سبعون", "ثمانون", "تسعون"}
	arabicHundreds  = []string{"", "مائة", "مائتان", "ثلاثمائة", "أربعمائة", "خمسمائة", "ستمائة", "سبعمائة", "ثمانمائة", "تسعمائة"}
	arabicThousands = []string{"", "ألف", "ألفان", "ثلاثة آلاف", "أربعة آلاف", "خمسة آلاف", "ستة آلاف", "سبعة آلاف", "ثمانية آلاف", "تسعة آلاف"}
)

// ArabicWords spells n the way voter counts are written on printed lists,
// largest group first joined with "و".
func ArabicWords(n int) string {
	if n == 0 {
		return "صفر"
	}
	if n < 0 {
		// -(n+1) cannot overflow, unlike -n for the smallest int.
		return "ناقص " + spellArabic(uint64(-(n+1))+1)
	}
	return spellArabic(uint64(n))
}

func spellArabic(n uint64) string {
	var b strings.Builder
	if n >= 1000 {
		count := n / 1000
		if count < 10 {
			b.WriteString(arabicThousands[count])
		} else {
			b.WriteString(spellArabic(count) + " ألف")
		}
		n %= 1000
		if n > 0 {
			b.WriteString(" و")
		}
	}
	if n >= 100 {
		b.WriteString(arabicHundreds[n/100])
		n %= 100
		if n > 0 {
			b.WriteString(" و")
		}
	}
	switch {
	case n >= 20:
		b.WriteString(arabicTens[n/10])
		n %= 10
		if n > 0 {
			b.WriteString(" و")
		}
	case n >= 10:
		b.WriteString(arabicTeens[n-10])
		return strings.TrimSpace(b.String())
	}
	if n > 0 {
		b.WriteString(arabicUnits[n])
	}
	return strings.TrimSpace(b.String())
}
