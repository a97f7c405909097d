package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/email"
	"wedding-rsvp/internal/handler"
	"wedding-rsvp/internal/notify"
	"wedding-rsvp/internal/rsvp"
	"wedding-rsvp/internal/storage"
	"wedding-rsvp/internal/vocabulary"
	"wedding-rsvp/internal/whatsapp"
)

// app is the wired service graph shared by the commands.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	vocab   *vocabulary.Vocabulary
	store   storage.Store
	handler *handler.RSVPHandler
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type connection interface {
	Connect() error
	Close() error
}

// attach registers conn for shutdown before connecting, so a failed
// Connect still releases what conn already holds.
func (a *app) attach(name string, conn connection) error {
	a.closers = append(a.closers, func() {
		if err := conn.Close(); err != nil {
			a.log.Warn().Err(err).Str("connection", name).Msg("Failed to close connection")
		}
	})
	return conn.Connect()
}

func loadVocabulary(cfg *config.Config) (*vocabulary.Vocabulary, error) {
	if cfg.VocabularyFile == "" {
		return vocabulary.Default(), nil
	}
	return vocabulary.Load(cfg.VocabularyFile)
}

func openStore(cfg *config.Config) (storage.Store, error) {
	return storage.Open(storage.Config{
		Driver:      cfg.StoreDriver,
		DataDir:     cfg.DataDir,
		DatabaseURL: cfg.DatabaseURL,
	})
}

// newApp wires configuration, storage and notification channels.
// Without RESEND_API_KEY notifications are only logged.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	vocab, err := loadVocabulary(cfg)
	if err != nil {
		return nil, err
	}
	a.vocab = vocab

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close store")
		}
	})

	var senders []notify.Sender
	if cfg.ResendAPIKey != "" {
		senders = append(senders, email.NewMailer(email.Config{
			APIKey:    cfg.ResendAPIKey,
			FromAdmin: cfg.MailFromAdmin,
			FromGuest: cfg.MailFromGuest,
		}, log))
	} else {
		log.Warn().Msg("RESEND_API_KEY not set, notifications will only be logged")
		senders = append(senders, notify.NewLogSender(log))
	}

	if cfg.WhatsAppEnabled {
		svc, err := whatsapp.NewService(ctx, &whatsapp.Config{DataDir: cfg.DataDir}, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := a.attach("WhatsApp", svc); err != nil {
			a.Close()
			return nil, err
		}
		senders = append(senders, whatsapp.NewNotifier(svc, cfg.WhatsAppAdminPhone, cfg.WhatsAppCountryCode))
	}

	a.handler = handler.NewRSVPHandler(handler.Dependencies{
		Store:      store,
		Normalizer: rsvp.NewNormalizer(vocab),
		Composer: notify.NewComposer(vocab, notify.ComposerConfig{
			SiteURL:    cfg.SiteURL,
			UpdatePath: cfg.UpdatePath,
			AdminEmail: cfg.AdminEmail,
			Wedding: notify.Wedding{
				BrideName: cfg.BrideName,
				GroomName: cfg.GroomName,
				Date:      cfg.WeddingDate,
				Location:  cfg.WeddingLocation,
			},
		}),
		Dispatcher: notify.NewDispatcher(log, senders...),
		Log:        log,
	})

	return a, nil
}
