package domain

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("+91 98765-43210", "Hi & welcome")
	assert.Equal(t, "https://wa.me/919876543210?text=Hi+%26+welcome", link)

	link = WhatsAppLink("9876543210", "x")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?"))

	u, err := url.Parse(WhatsAppLink("9876543210", "renew by 5 Jan?"))
	require.NoError(t, err)
	assert.Equal(t, "renew by 5 Jan?", u.Query().Get("text"))
}

func TestTraineeMessage(t *testing.T) {
	now := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	tr := &Trainee{Name: "Asha", MemberID: "GYM-7", MembershipDuration: 3, MembershipEndDate: now.AddDate(0, 0, 2)}

	msg, err := TraineeMessage(MessageExpiryReminder, tr, "Iron Temple", now)
	require.NoError(t, err)
	assert.Contains(t, msg, "expires in 2 day(s)")
	assert.Contains(t, msg, "GYM-7")

	tr.MembershipEndDate = now.AddDate(0, 0, -3)
	msg, _ = TraineeMessage(MessageExpiryReminder, tr, "Iron Temple", now)
	assert.Contains(t, msg, "expired on")

	msg, err = TraineeMessage(MessageWelcome, tr, "Iron Temple", now)
	require.NoError(t, err)
	assert.Contains(t, msg, "Welcome to Iron Temple, Asha")

	_, err = TraineeMessage("promo", tr, "Iron Temple", now)
	assert.Error(t, err)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidatePhone("9876543210"))
	assert.NoError(t, ValidatePhone("6000000000"))
	assert.Error(t, ValidatePhone("5876543210"))
	assert.Error(t, ValidatePhone("987654321"))
	assert.Error(t, ValidatePhone("+919876543210"))

	assert.NoError(t, ValidateMemberID("abc"))
	assert.Error(t, ValidateMemberID("  ab  "))

	assert.Equal(t, "TR543210", TrainerUniqueID("98765 43210"))
	assert.Equal(t, "TR123", TrainerUniqueID("123"))
}
