package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
)

// ErrNotLinked means no device has been paired yet.
var ErrNotLinked = errors.New("whatsapp device is not linked; run `wedding-rsvp whatsapp link` first")

type Config struct {
	DataDir string
}

type Service struct {
	client    *whatsmeow.Client
	container *sqlstore.Container
	cfg       *Config
	log       zerolog.Logger
}

// NewService creates a new WhatsApp service
func NewService(ctx context.Context, cfg *Config, log zerolog.Logger) (*Service, error) {
	logger := log.With().Str("component", "WhatsApp").Logger()

	// Use nil logger - sqlstore will use a no-op logger by default
	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s/whatsmeow.db?_foreign_keys=on", cfg.DataDir), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, nil)

	service := &Service{
		client:    client,
		container: container,
		cfg:       cfg,
		log:       logger,
	}

	client.AddEventHandler(func(evt interface{}) {
		service.eventHandler(evt)
	})

	return service, nil
}

// NormalizePhoneNumber converts a phone number to the digits-only international
// form WhatsApp expects. National numbers starting with a single 0 get
// countryCode in place of the trunk 0, and a "00" international prefix is dropped.
func NormalizePhoneNumber(phoneNumber, countryCode string) string {
	phoneNumber = strings.ReplaceAll(phoneNumber, "+", "")
	phoneNumber = strings.ReplaceAll(phoneNumber, " ", "")
	phoneNumber = strings.ReplaceAll(phoneNumber, "-", "")
	phoneNumber = strings.ReplaceAll(phoneNumber, "(", "")
	phoneNumber = strings.ReplaceAll(phoneNumber, ")", "")

	switch {
	case strings.HasPrefix(phoneNumber, "00"):
		phoneNumber = phoneNumber[2:]
	case strings.HasPrefix(phoneNumber, "0") && countryCode != "":
		phoneNumber = countryCode + phoneNumber[1:]
	}

	// +44 (0)7700 900123 -> 447700900123
	if countryCode != "" && strings.HasPrefix(phoneNumber, countryCode+"0") {
		phoneNumber = countryCode + phoneNumber[len(countryCode)+1:]
	}

	return phoneNumber
}

// Connect connects an already linked device.
func (s *Service) Connect() error {
	if s.client.Store.ID == nil {
		return ErrNotLinked
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

// Link pairs a new device by printing QR codes to out until the phone scans one.
func (s *Service) Link(ctx context.Context, out io.Writer) error {
	if s.client.Store.ID != nil {
		fmt.Fprintln(out, "Device already linked.")
		return s.Connect()
	}

	qrChan, err := s.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get QR channel: %w", err)
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	for evt := range qrChan {
		if evt.Event != "code" {
			fmt.Fprintf(out, "Login event: %s\n", evt.Event)
			continue
		}
		q, err := qrcode.New(evt.Code, qrcode.Medium)
		if err != nil {
			fmt.Fprintf(out, "QR Code: %s\n", evt.Code)
			continue
		}
		fmt.Fprintln(out, "\n"+q.ToSmallString(false))
		fmt.Fprintln(out, "📱 Please scan the QR code above with WhatsApp:")
		fmt.Fprintln(out, "   1. Open WhatsApp on your phone")
		fmt.Fprintln(out, "   2. Go to Settings > Linked Devices")
		fmt.Fprintln(out, "   3. Tap 'Link a Device'")
		fmt.Fprintln(out, "   4. Scan the QR code shown above")
	}
	return nil
}

// Close disconnects and releases the device database.
func (s *Service) Close() error {
	s.client.Disconnect()
	return s.container.Close()
}

// SendMessage sends a simple text message to an international-format number
func (s *Service) SendMessage(ctx context.Context, phoneNumber, message string) error {
	// Verify the number is on WhatsApp before sending
	resp, err := s.client.IsOnWhatsApp(ctx, []string{phoneNumber})
	if err != nil {
		return fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}
	jid := resp[0].JID

	s.log.Debug().Str("jid", jid.String()).Str("phone", phoneNumber).Msg("Attempting to send message")

	sent, err := s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", jid.String(), err)
	}

	s.log.Debug().Str("id", string(sent.ID)).Time("timestamp", sent.Timestamp).Msg("Message sent")
	return nil
}

// eventHandler handles incoming WhatsApp events
func (s *Service) eventHandler(evt interface{}) {
	switch evt.(type) {
	case *events.Connected:
		s.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		s.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		s.log.Warn().Msg("Logged out from WhatsApp")
	}
}
