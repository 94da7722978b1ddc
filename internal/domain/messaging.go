package domain

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultCountryCode is prefixed to bare 10-digit numbers.
const DefaultCountryCode = "91"

// MessageKind selects a canned WhatsApp message.
type MessageKind string

const (
	MessageExpiryReminder MessageKind = "expiry"
	MessageWelcome        MessageKind = "welcome"
)

// WhatsAppLink builds a wa.me deep link for phone with a pre-filled message.
func WhatsAppLink(phone, message string) string {
	digits := DigitsOnly(phone)
	if len(digits) == 10 {
		digits = DefaultCountryCode + digits
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
}

// TraineeMessage renders the canned message of the given kind for t.
func TraineeMessage(kind MessageKind, t *Trainee, gymName string, now time.Time) (string, error) {
	switch kind {
	case MessageExpiryReminder:
		days := DaysUntil(t.MembershipEndDate, now)
		end := t.MembershipEndDate.Format("02 Jan 2006")
		if days < 0 {
			return fmt.Sprintf("Hi %s, your %s membership (ID %s) expired on %s. Please renew to continue training.",
				t.Name, gymName, t.EffectiveMemberID(), end), nil
		}
		when := fmt.Sprintf("in %d day(s)", days)
		if days == 0 {
			when = "today"
		}
		return fmt.Sprintf("Hi %s, your %s membership (ID %s) expires %s on %s. Please renew to continue training.",
			t.Name, gymName, t.EffectiveMemberID(), when, end), nil
	case MessageWelcome:
		return fmt.Sprintf("Welcome to %s, %s! Your member ID is %s and your %d-month membership runs until %s.",
			gymName, t.Name, t.EffectiveMemberID(), t.MembershipDuration, t.MembershipEndDate.Format("02 Jan 2006")), nil
	}
	return "", NewValidationError("kind", fmt.Sprintf("unknown message kind %q", kind))
}
