package coercer

import (
	"math"
	"strconv"
	"strings"

	"surveyclean/domain/table"
)

// TypeCoercer converts cells to numbers on a best-effort basis: anything that does not
// parse becomes missing instead of failing
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	// Lenient accepts currency symbols, percent signs, thousands separators,
	// European decimal commas and parenthesised negatives
	Lenient bool `json:"lenient"`
}

// DefaultCoercionConfig returns strict parsing
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{Lenient: false}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// CoerceNumeric returns v as a numeric value, or missing if it cannot be read as a number
func (c *TypeCoercer) CoerceNumeric(v table.Value) table.Value {
	switch {
	case v.IsMissing():
		return table.NewMissingValue()
	case v.IsNumeric():
		return v
	}
	if n, ok := c.ParseNumeric(v.Str); ok {
		return table.NewNumericValue(n)
	}
	return table.NewMissingValue()
}

// ParseNumeric parses a finite float64 from text
func (c *TypeCoercer) ParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}
	if c.config.Lenient {
		cleanVal = c.normalizeNumeric(cleanVal)
	}

	// ParseFloat also reads hexadecimal floats, which never appear in survey answers
	if strings.ContainsAny(cleanVal, "xX") {
		return 0, false
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// normalizeNumeric handles international formats: parentheses for negatives, European decimals, currency symbols
func (c *TypeCoercer) normalizeNumeric(cleanVal string) string {
	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "MXN", "COP", "CLP", "PEN"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.ReplaceAll(cleanVal, "%", "")
	cleanVal = strings.TrimSpace(cleanVal)

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// 1.234,56 or 1 234,56: comma is the decimal separator when it is last and
		// followed by at most three digits
		commaIdx := strings.LastIndex(cleanVal, ",")
		periodIdx := strings.LastIndex(cleanVal, ".")
		afterComma := cleanVal[commaIdx+1:]
		if commaIdx > periodIdx && len(afterComma) <= 3 && isDigits(afterComma) {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	case hasComma:
		cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}
	return cleanVal
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// NumericAnalysis summarises how a column would fare under numeric coercion
type NumericAnalysis struct {
	TotalCount   int     `json:"total_count"`
	ValidCount   int     `json:"valid_count"`   // non-missing
	NumericCount int     `json:"numeric_count"` // non-missing and coercible
	NumericRatio float64 `json:"numeric_ratio"`
}

// AnalyzeNumeric counts how many non-missing values survive coercion
func (c *TypeCoercer) AnalyzeNumeric(values []table.Value) NumericAnalysis {
	analysis := NumericAnalysis{TotalCount: len(values)}
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		analysis.ValidCount++
		if !c.CoerceNumeric(v).IsMissing() {
			analysis.NumericCount++
		}
	}
	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	return analysis
}
