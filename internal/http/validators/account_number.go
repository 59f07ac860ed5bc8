package validators

import (
	"strings"

	apperrors "account-pool-system.com/account-pool-system/internal/errors"
	"account-pool-system.com/account-pool-system/internal/generator"
)

// ValidateAccountNumber checks that accountNumber has the shape the pool
// generates: the configured prefix followed by digits, at the fixed length.
func ValidateAccountNumber(accountNumber, prefix string) error {
	if accountNumber == "" {
		return apperrors.ErrAccountNumberRequired
	}
	if len(accountNumber) != generator.NumberLength(prefix) || !strings.HasPrefix(accountNumber, prefix) {
		return apperrors.ErrInvalidAccountNumber
	}
	for _, r := range accountNumber {
		if r < '0' || r > '9' {
			return apperrors.ErrInvalidAccountNumber
		}
	}
	return nil
}
