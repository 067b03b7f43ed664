package payment

import (
	"strconv"
	"strings"

	"payflow/models"

	"github.com/go-playground/validator/v10"
)

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

// NormalizeCardNumber strips spaces and dashes and checks the 13-19 digit rule.
func NormalizeCardNumber(raw string) (string, error) {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(raw, " ", ""), "-", "")
	if !isDigits(cleaned) {
		return "", &ValidationError{Field: "card_number", Reason: "must contain only digits"}
	}
	if len(cleaned) < 13 || len(cleaned) > 19 {
		return "", &ValidationError{Field: "card_number", Reason: "must be 13-19 digits"}
	}
	return cleaned, nil
}

// ValidateExpiry checks the MM/YY format with month 01-12.
func ValidateExpiry(expiry string) error {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 {
		return &ValidationError{Field: "expiry", Reason: "must be in MM/YY format"}
	}
	month, year := parts[0], parts[1]
	if !isDigits(month) || !isDigits(year) {
		return &ValidationError{Field: "expiry", Reason: "must contain only digits"}
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return &ValidationError{Field: "expiry", Reason: "month must be between 01 and 12"}
	}
	return nil
}

// ValidateCVV checks the 3-4 digit rule.
func ValidateCVV(cvv string) error {
	if !isDigits(cvv) {
		return &ValidationError{Field: "cvv", Reason: "must contain only digits"}
	}
	if len(cvv) < 3 || len(cvv) > 4 {
		return &ValidationError{Field: "cvv", Reason: "must be 3-4 digits"}
	}
	return nil
}

// ValidateCardDetails applies every card field rule and returns the normalized
// card number. No session is ever created for a payload that fails here.
func ValidateCardDetails(card models.CardDetails) (string, error) {
	cleaned, err := NormalizeCardNumber(card.CardNumber)
	if err != nil {
		return "", err
	}
	if err := ValidateExpiry(card.Expiry); err != nil {
		return "", err
	}
	if err := ValidateCVV(card.CVV); err != nil {
		return "", err
	}
	if strings.TrimSpace(card.HolderName) == "" {
		return "", &ValidationError{Field: "holder_name", Reason: "is required"}
	}
	return cleaned, nil
}

// RegisterCardValidators wires the card field rules into gin's binding engine
// so malformed payloads are rejected at bind time with the violated rule.
func RegisterCardValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		_, err := NormalizeCardNumber(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("expirymmyy", func(fl validator.FieldLevel) bool {
		return ValidateExpiry(fl.Field().String()) == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("cvvdigits", func(fl validator.FieldLevel) bool {
		return ValidateCVV(fl.Field().String()) == nil
	})
}
