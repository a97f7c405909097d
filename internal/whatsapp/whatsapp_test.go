package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/notify"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		in, country, want string
	}{
		{"07700 900123", "44", "447700900123"},
		{"+44 (0)7700 900123", "44", "447700900123"},
		{"(44) 7700-900123", "44", "447700900123"},
		{"0044 7700 900123", "44", "447700900123"},
		{"0501234567", "972", "972501234567"},
		{"+972 50-123-4567", "44", "972501234567"},
		{"07700 900123", "", "07700900123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhoneNumber(tt.in, tt.country), "input %q country %q", tt.in, tt.country)
	}
}

type fakeMessenger struct {
	phone, text string
	calls       int
	err         error
}

func (f *fakeMessenger) SendMessage(_ context.Context, phone, text string) error {
	f.calls++
	f.phone, f.text = phone, text
	return f.err
}

func TestNotifier_SendsAdminNotices(t *testing.T) {
	m := &fakeMessenger{}
	n := &Notifier{sender: m, adminPhone: "447700900123"}

	err := n.Send(context.Background(), notify.Message{
		Audience: notify.AudienceAdmin,
		Subject:  "New RSVP Submission",
		Fields:   notify.Fields{GuestName: "John Doe", Dessert: "Lemon Cake"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, m.calls)
	assert.Equal(t, "447700900123", m.phone)
	assert.Contains(t, m.text, "*New RSVP Submission*")
	assert.Contains(t, m.text, "Dessert: Lemon Cake")
}

func TestNotifier_SkipsGuests(t *testing.T) {
	m := &fakeMessenger{}
	n := &Notifier{sender: m, adminPhone: "447700900123"}

	require.NoError(t, n.Send(context.Background(), notify.Message{Audience: notify.AudienceGuest}))
	assert.Zero(t, m.calls)
}

func TestNotifier_ReportsFailure(t *testing.T) {
	boom := errors.New("not on whatsapp")
	n := &Notifier{sender: &fakeMessenger{err: boom}, adminPhone: "1"}

	err := n.Send(context.Background(), notify.Message{Audience: notify.AudienceAdmin})
	assert.ErrorIs(t, err, boom)
}
