package extract

import (
	"math"
	"strconv"
	"strings"
)

// Zero sentinels: a row is valid only if some field is non-empty and not
// one of these; a quantity equal to any of them is a zero-quantity row.
const (
	zeroPlain = "0"
	zeroComma = "0,00000"
	zeroPoint = "0.00000"
)

// coerce applies the per-field coercion rules to one raw cell value.
// Date fields are handled separately by the extractor.
func (s *Schema) coerce(field Field, raw string) string {
	v := strings.TrimSpace(raw)
	if field.Name == s.QuantityField {
		if f, err := strconv.ParseFloat(v, 64); err == nil && isFractional(f) {
			return FormatQuantity(f)
		}
		return v
	}
	if field.Name == s.StatusField && s.StatusMap != nil {
		if mapped, ok := s.StatusMap[v]; ok {
			return mapped
		}
	}
	return v
}

func isFractional(f float64) bool {
	return f != math.Trunc(f)
}

// FormatQuantity renders a fractional quantity with five decimals and a
// comma decimal separator, matching the warehouse export convention.
func FormatQuantity(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', 5, 64), ".", ",", 1)
}

// IsZeroSentinel reports whether a coerced value counts as "no data" for
// row validity.
func IsZeroSentinel(v string) bool {
	return v == "" || v == zeroPlain || v == zeroComma
}

// IsZeroQuantity classifies a quantity value as zero under lenient parsing:
// sentinels first, then a decimal-comma-normalized leading float.
func IsZeroQuantity(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || v == zeroPlain || v == zeroComma || v == zeroPoint {
		return true
	}
	return leadingFloat(strings.Replace(v, ",", ".", 1)) == 0
}

// ParseQuantity parses a display quantity leniently for aggregation:
// thousands dots stripped, decimal comma converted to a point.
func ParseQuantity(v string) float64 {
	v = strings.TrimSpace(v)
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.Replace(v, ",", ".", 1)
	}
	return leadingFloat(v)
}

// leadingFloat parses the longest numeric prefix of a string, returning 0
// when none exists.
func leadingFloat(v string) float64 {
	end := 0
	seenDigit := false
	seenDot := false
loop:
	for i, c := range v {
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case (c == '-' || c == '+') && i == 0:
		case c == '.' && !seenDot:
			seenDot = true
		default:
			break loop
		}
		end = i + 1
	}
	if !seenDigit {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimRight(v[:end], "."), 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatTotal renders an aggregate sum with two decimals, dot thousands
// separators and a comma decimal separator.
func FormatTotal(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, decPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte(',')
	b.WriteString(decPart)
	return b.String()
}

// NormalizeUOM canonicalizes a unit-of-measure value to UN, CJ or PL.
func NormalizeUOM(uom string) string {
	switch strings.ToUpper(strings.TrimSpace(uom)) {
	case "UN", "UNIDAD", "UNIDADES", "PIEZA", "PIEZAS", "EA", "EACH":
		return "UN"
	case "CJ", "CAJA", "CAJAS", "BOX", "BOXES", "CTN", "CARTON":
		return "CJ"
	case "PL", "PALET", "PALETA", "PALETS", "PALLET", "PALLETS", "PAL":
		return "PL"
	}
	return "UN"
}
