package coercer

import (
	"math"
	"strconv"
	"strings"
)

// TypeCoercer turns text cells into numbers with deterministic rules.
// A value that does not parse becomes missing (NaN); coercion never fails.
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines how currency text is cleaned and when a column counts as numeric
type CoercionConfig struct {
	CurrencySymbols    []string `json:"currency_symbols"`
	ThousandsSeparator string   `json:"thousands_separator"`
	NumericThreshold   float64  `json:"numeric_threshold"` // share of non-empty values that must parse
}

// DefaultCoercionConfig cleans pound prices like "£1,234.50" and only infers
// numeric columns when every non-empty value parses.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		CurrencySymbols:    []string{"£"},
		ThousandsSeparator: ",",
		NumericThreshold:   1.0,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// ParsePrice strips currency symbols and thousands separators, then parses the rest
func (c *TypeCoercer) ParsePrice(raw string) (float64, bool) {
	cleanVal := raw
	for _, symbol := range c.config.CurrencySymbols {
		if symbol != "" {
			cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
		}
	}
	if c.config.ThousandsSeparator != "" {
		cleanVal = strings.ReplaceAll(cleanVal, c.config.ThousandsSeparator, "")
	}
	return c.ParseNumeric(cleanVal)
}

// ParseNumeric parses plain float syntax; "NaN" and infinities count as missing
func (c *TypeCoercer) ParseNumeric(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return math.NaN(), false
	}
	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return math.NaN(), false
	}
	return val, true
}

// CoercePrices applies ParsePrice to a column
func (c *TypeCoercer) CoercePrices(values []string) ([]float64, CoercionStats) {
	return c.coerceColumn(values, c.ParsePrice)
}

// CoerceNumeric applies ParseNumeric to a column
func (c *TypeCoercer) CoerceNumeric(values []string) ([]float64, CoercionStats) {
	return c.coerceColumn(values, c.ParseNumeric)
}

func (c *TypeCoercer) coerceColumn(values []string, parse func(string) (float64, bool)) ([]float64, CoercionStats) {
	out := make([]float64, len(values))
	stats := CoercionStats{Total: len(values)}
	for i, raw := range values {
		val, ok := parse(raw)
		out[i] = val
		switch {
		case ok:
			stats.Parsed++
		case strings.TrimSpace(raw) == "":
			stats.Empty++
		default:
			stats.Failed++
		}
	}
	return out, stats
}

// CoercionStats counts what happened to a column during coercion
type CoercionStats struct {
	Total  int `json:"total"`
	Parsed int `json:"parsed"`
	Empty  int `json:"empty"`
	Failed int `json:"failed"` // non-empty text that became missing
}

// AnalyzeTypeDistribution decides whether a text column should be treated as numeric
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{
		TotalCount: len(values),
	}

	for _, val := range values {
		if strings.TrimSpace(val) == "" {
			continue
		}
		analysis.ValidCount++
		if _, ok := c.ParseNumeric(val); ok {
			analysis.NumericCount++
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}
	analysis.IsNumeric = analysis.ValidCount > 0 && analysis.NumericRatio >= c.config.NumericThreshold

	return analysis
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount   int     `json:"total_count"`
	ValidCount   int     `json:"valid_count"`
	NumericCount int     `json:"numeric_count"`
	NumericRatio float64 `json:"numeric_ratio"`
	IsNumeric    bool    `json:"is_numeric"`
}
