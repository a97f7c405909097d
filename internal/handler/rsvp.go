package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wedding-rsvp/internal/identifier"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/notify"
	"wedding-rsvp/internal/rsvp"
	"wedding-rsvp/internal/storage"
)

// Dispatcher sends composed notifications.
type Dispatcher interface {
	Dispatch(ctx context.Context, msgs ...notify.Message) error
}

// Dependencies are the collaborators an RSVPHandler needs.
type Dependencies struct {
	Store      storage.Store
	Normalizer *rsvp.Normalizer
	Composer   *notify.Composer
	Dispatcher Dispatcher
	Issuer     identifier.Issuer
	Now        func() time.Time
	Log        zerolog.Logger
}

// RSVPHandler runs the create, fetch, update and list flows.
// Concurrent updates to one record are last-write-wins.
type RSVPHandler struct {
	store      storage.Store
	normalizer *rsvp.Normalizer
	composer   *notify.Composer
	dispatcher Dispatcher
	issuer     identifier.Issuer
	now        func() time.Time
	log        zerolog.Logger
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(deps Dependencies) *RSVPHandler {
	if deps.Issuer == nil {
		deps.Issuer = identifier.UUIDIssuer{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &RSVPHandler{
		store:      deps.Store,
		normalizer: deps.Normalizer,
		composer:   deps.Composer,
		dispatcher: deps.Dispatcher,
		issuer:     deps.Issuer,
		now:        deps.Now,
		log:        deps.Log.With().Str("component", "RSVP").Logger(),
	}
}

// Create records a new RSVP and notifies the couple and the guest.
// A *rsvp.NotificationError comes back together with the saved record.
func (h *RSVPHandler) Create(ctx context.Context, sub rsvp.Submission) (models.GuestRecord, error) {
	rec, err := h.normalizer.Normalize(sub)
	if err != nil {
		return models.GuestRecord{}, err
	}

	rec.ID = h.issuer.Issue()
	rec.CreatedAt = h.now().UTC().Truncate(time.Microsecond)

	id, err := h.store.Create(ctx, rec)
	if err != nil {
		h.log.Error().Err(err).Str("email", rec.Email).Msg("Failed to save RSVP")
		return models.GuestRecord{}, &rsvp.PersistenceError{Op: "save", Err: err}
	}
	rec.ID = id

	h.log.Info().Str("uuid", id).Bool("attending", rec.Attending).Msg("RSVP created")

	if err := h.notify(ctx, rec, models.EventCreated); err != nil {
		return rec, err
	}
	return rec, nil
}

// Fetch loads one record by identifier.
func (h *RSVPHandler) Fetch(ctx context.Context, id string) (models.GuestRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.GuestRecord{}, rsvp.ErrNotFound
	}

	rec, err := h.store.Get(ctx, id)
	if errors.Is(err, storage.ErrGuestNotFound) {
		return models.GuestRecord{}, fmt.Errorf("%w: %s", rsvp.ErrNotFound, id)
	}
	if err != nil {
		h.log.Error().Err(err).Str("uuid", id).Msg("Failed to load RSVP")
		return models.GuestRecord{}, &rsvp.PersistenceError{Op: "load", Err: err}
	}
	return *rec, nil
}

// Update applies a guest's change through their update link.
func (h *RSVPHandler) Update(ctx context.Context, id string, change rsvp.Change) (models.GuestRecord, error) {
	existing, err := h.Fetch(ctx, id)
	if err != nil {
		return models.GuestRecord{}, err
	}

	rec, err := h.normalizer.ApplyChange(existing, change)
	if err != nil {
		return models.GuestRecord{}, err
	}

	err = h.store.Update(ctx, rec.ID, rec)
	if errors.Is(err, storage.ErrGuestNotFound) {
		return models.GuestRecord{}, fmt.Errorf("%w: %s", rsvp.ErrNotFound, rec.ID)
	}
	if err != nil {
		h.log.Error().Err(err).Str("uuid", rec.ID).Msg("Failed to update RSVP")
		return models.GuestRecord{}, &rsvp.PersistenceError{Op: "update", Err: err}
	}

	h.log.Info().Str("uuid", rec.ID).Bool("attending", rec.Attending).Msg("RSVP updated")

	if err := h.notify(ctx, rec, models.EventUpdated); err != nil {
		return rec, err
	}
	return rec, nil
}

// List returns every RSVP, newest first.
func (h *RSVPHandler) List(ctx context.Context) ([]models.GuestRecord, error) {
	guests, err := h.store.List(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list RSVPs")
		return nil, &rsvp.PersistenceError{Op: "list", Err: err}
	}
	return guests, nil
}

// ListByStatus returns the RSVPs with the given status, newest first.
func (h *RSVPHandler) ListByStatus(ctx context.Context, status models.RSVPStatus) ([]models.GuestRecord, error) {
	guests, err := h.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.GuestRecord, 0, len(guests))
	for _, g := range guests {
		if g.Status() == status {
			result = append(result, g)
		}
	}
	return result, nil
}

func (h *RSVPHandler) notify(ctx context.Context, rec models.GuestRecord, kind models.EventKind) error {
	err := h.dispatcher.Dispatch(ctx,
		h.composer.ComposeAdminNotice(rec, kind),
		h.composer.ComposeGuestConfirmation(rec, kind),
	)
	if err != nil {
		h.log.Warn().Err(err).Str("uuid", rec.ID).Msg("RSVP saved but notification failed")
		return &rsvp.NotificationError{Identifier: rec.ID, Err: err}
	}
	return nil
}
