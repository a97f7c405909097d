package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/models"
)

type recordingSender struct {
	sent []Message
	fail map[Audience]error
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.fail[msg.Audience]
}

func TestDispatch_SendsInOrderThroughEverySender(t *testing.T) {
	c := newTestComposer()
	a, b := &recordingSender{}, &recordingSender{}
	d := NewDispatcher(zerolog.Nop(), a, b)

	admin := c.ComposeAdminNotice(johnDoe(), models.EventCreated)
	guest := c.ComposeGuestConfirmation(johnDoe(), models.EventCreated)
	require.NoError(t, d.Dispatch(context.Background(), admin, guest))

	for _, s := range []*recordingSender{a, b} {
		require.Len(t, s.sent, 2)
		assert.Equal(t, AudienceAdmin, s.sent[0].Audience)
		assert.Equal(t, AudienceGuest, s.sent[1].Audience)
	}
}

func TestDispatch_ContinuesAfterFailure(t *testing.T) {
	c := newTestComposer()
	boom := errors.New("smtp down")
	s := &recordingSender{fail: map[Audience]error{AudienceAdmin: boom}}
	d := NewDispatcher(zerolog.Nop(), s)

	err := d.Dispatch(context.Background(),
		c.ComposeAdminNotice(jo(), models.EventCreated),
		c.ComposeGuestConfirmation(jo(), models.EventCreated),
	)

	assert.ErrorIs(t, err, boom)
	assert.Len(t, s.sent, 2)
}

func TestDispatch_NoSenders(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())

	assert.NoError(t, d.Dispatch(context.Background(), Message{}))
}

func TestLogSender_LogsRenderedText(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(zerolog.New(&buf))

	err := s.Send(context.Background(), newTestComposer().ComposeAdminNotice(johnDoe(), models.EventCreated))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"component":"Outbox"`)
	assert.Contains(t, buf.String(), "New RSVP Submission")
	assert.Contains(t, buf.String(), "Lemon Cake")
}
