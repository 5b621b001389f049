package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "elearn/internal/platform/errors"
)

// gradeScale keeps two decimal places of a percentage in an integer key.
var gradeScale = decimal.NewFromInt(10000)

// EncodeGrade returns round(numerator/denominator*10000).
func EncodeGrade(numerator, denominator float64) (int64, error) {
	den := decimal.NewFromFloat(denominator)
	if den.IsZero() {
		return 0, fmt.Errorf("%w: zero points denominator", apperrors.ErrInvalidInput)
	}
	return decimal.NewFromFloat(numerator).Div(den).Mul(gradeScale).Round(0).IntPart(), nil
}

// DecodeGrade returns the grade ratio, 9000 -> 0.9.
func DecodeGrade(key int64) float64 {
	return decimal.New(key, -4).InexactFloat64()
}
