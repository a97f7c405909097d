package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Sender delivers one message over one channel. Senders may ignore
// audiences they cannot reach by returning nil.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher pushes messages through every configured sender, one at a time.
// It never retries.
type Dispatcher struct {
	senders []Sender
	log     zerolog.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(log zerolog.Logger, senders ...Sender) *Dispatcher {
	return &Dispatcher{
		senders: senders,
		log:     log.With().Str("component", "Notify").Logger(),
	}
}

// Dispatch sends msgs in order and joins every failure into the returned error.
func (d *Dispatcher) Dispatch(ctx context.Context, msgs ...Message) error {
	var errs []error
	for _, m := range msgs {
		for _, s := range d.senders {
			if err := s.Send(ctx, m); err != nil {
				d.log.Warn().Err(err).
					Str("audience", string(m.Audience)).
					Str("event", string(m.Event)).
					Msg("Failed to send notification")
				errs = append(errs, fmt.Errorf("%s %s notice: %w", m.Audience, m.Event, err))
			}
		}
	}
	return errors.Join(errs...)
}

// LogSender writes messages to the log instead of delivering them.
// Used when no delivery channel is configured.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender creates a log-only sender
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log.With().Str("component", "Outbox").Logger()}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", RenderText(msg)).
		Msg("Notification not delivered: no sender configured")
	return nil
}
