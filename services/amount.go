package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money columns are numeric(10,2).
const amountScale = 2

var maxAmount = decimal.New(1, 8)

// validateAmount rejects values the money columns cannot store exactly
func validateAmount(field string, v decimal.Decimal) error {
	switch {
	case v.IsNegative():
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, field)
	case v.GreaterThanOrEqual(maxAmount):
		return fmt.Errorf("%w: %s must be less than %s", ErrInvalidInput, field, maxAmount)
	case !v.Equal(v.Truncate(amountScale)):
		return fmt.Errorf("%w: %s must have at most %d decimal places", ErrInvalidInput, field, amountScale)
	}
	return nil
}
