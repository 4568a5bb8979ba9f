package usecase

import "github.com/shopspring/decimal"

// decimalOf devuelve la agregación redondeada a 2 decimales (0 si es NULL).
func decimalOf(agg map[string]decimal.NullDecimal, name string) decimal.Decimal {
	v, ok := agg[name]
	if !ok || !v.Valid {
		return decimal.Zero
	}
	return v.Decimal.Round(2)
}

// countOf devuelve la agregación como entero.
func countOf(agg map[string]decimal.NullDecimal, name string) int64 {
	v, ok := agg[name]
	if !ok || !v.Valid {
		return 0
	}
	return v.Decimal.IntPart()
}

// confidenceOf confianza media (0..1) con 4 decimales.
func confidenceOf(agg map[string]decimal.NullDecimal) decimal.Decimal {
	v := agg["confidence"]
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal.Round(4)
}
