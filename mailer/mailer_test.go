package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDailyReminder(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", "465", "bot", "pw", "bot@example.com")

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, m.SendDailyReminder(context.Background(), "alice@example.com", "Two Sum", "https://leetcode.com/problems/two-sum/"))
	assert.Equal(t, "smtp.example.com:465", gotAddr)
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Don't Miss Out on Today's Challenge!")
	assert.Contains(t, string(gotMsg), "Two Sum")
	assert.Contains(t, string(gotMsg), "https://leetcode.com/problems/two-sum/")
}

func TestSendDailyReminderFailure(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", "465", "bot", "pw", "bot@example.com")
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421 busy") }

	err := m.SendDailyReminder(context.Background(), "alice@example.com", "Two Sum", "link")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alice@example.com")
}

func TestValidateConfiguration(t *testing.T) {
	assert.NoError(t, NewSMTPMailer("h", "587", "u", "p", "a@b.c").ValidateConfiguration())
	assert.Error(t, NewSMTPMailer("", "587", "u", "p", "a@b.c").ValidateConfiguration())
	assert.Error(t, NewSMTPMailer("h", "587", "u", "p", "nope").ValidateConfiguration())
}
