package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// MinMemberIDLength is the shortest accepted member id after trimming.
const MinMemberIDLength = 3

var indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)

// ValidationError reports a rejected input field. Nothing is written when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ValidateMemberID checks the trimmed length of a member id.
func ValidateMemberID(id string) error {
	if len(strings.TrimSpace(id)) < MinMemberIDLength {
		return NewValidationError("memberId", fmt.Sprintf("must be at least %d characters", MinMemberIDLength))
	}
	return nil
}

// ValidatePhone checks for a 10-digit Indian mobile number.
func ValidatePhone(phone string) error {
	if !indianMobile.MatchString(phone) {
		return NewValidationError("phoneNumber", "must be a 10-digit mobile number starting with 6-9")
	}
	return nil
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
