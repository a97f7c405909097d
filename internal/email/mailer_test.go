package email

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/notify"
)

type fakeAPI struct {
	requests []*resend.SendEmailRequest
	err      error
}

func (f *fakeAPI) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.requests = append(f.requests, params)
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "msg-1"}, nil
}

var testConfig = Config{
	FromAdmin: "Wedding RSVP <rsvp@wedding.example>",
	FromGuest: "Gemma & Ali <rsvp@wedding.example>",
}

func adminMessage() notify.Message {
	return notify.Message{
		Audience: notify.AudienceAdmin,
		To:       "hello@wedding.example",
		Subject:  "New RSVP Submission",
		Fields: notify.Fields{
			GuestName: "John Doe",
			Attending: "Yes",
			Dessert:   "Lemon Cake",
			Topping:   "None",
			Allergies: "None",
		},
	}
}

func TestMailer_SendsAdminNotice(t *testing.T) {
	api := &fakeAPI{}
	m := newMailer(api, testConfig, zerolog.Nop())

	require.NoError(t, m.Send(context.Background(), adminMessage()))

	require.Len(t, api.requests, 1)
	req := api.requests[0]
	assert.Equal(t, testConfig.FromAdmin, req.From)
	assert.Equal(t, []string{"hello@wedding.example"}, req.To)
	assert.Equal(t, "New RSVP Submission", req.Subject)
	assert.Contains(t, req.Html, "Lemon Cake")
	assert.Contains(t, req.Text, "Dessert: Lemon Cake")
}

func TestMailer_GuestUsesGuestIdentity(t *testing.T) {
	api := &fakeAPI{}
	m := newMailer(api, testConfig, zerolog.Nop())
	msg := adminMessage()
	msg.Audience = notify.AudienceGuest
	msg.To = "jane@ex.com"

	require.NoError(t, m.Send(context.Background(), msg))
	assert.Equal(t, testConfig.FromGuest, api.requests[0].From)
}

func TestMailer_ReportsFailure(t *testing.T) {
	boom := errors.New("rate limited")
	m := newMailer(&fakeAPI{err: boom}, testConfig, zerolog.Nop())

	err := m.Send(context.Background(), adminMessage())
	assert.ErrorIs(t, err, boom)
}

func TestMailer_RequiresRecipient(t *testing.T) {
	api := &fakeAPI{}
	m := newMailer(api, testConfig, zerolog.Nop())
	msg := adminMessage()
	msg.To = ""

	assert.Error(t, m.Send(context.Background(), msg))
	assert.Empty(t, api.requests)
}
