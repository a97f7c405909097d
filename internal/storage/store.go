package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"wedding-rsvp/internal/models"
)

// ErrGuestNotFound is returned when no record matches an identifier.
var ErrGuestNotFound = errors.New("guest not found")

// Store persists guest records. Identifiers are issued by the caller.
type Store interface {
	// Create inserts rec and returns its identifier.
	Create(ctx context.Context, rec models.GuestRecord) (string, error)
	Get(ctx context.Context, id string) (*models.GuestRecord, error)
	// List returns every record, newest first.
	List(ctx context.Context) ([]models.GuestRecord, error)
	// Update replaces the mutable fields of the record with rec's values.
	Update(ctx context.Context, id string, rec models.GuestRecord) error
	Close() error
}

// Config selects and configures a store driver.
type Config struct {
	Driver      string // file|sqlite|postgres
	DataDir     string
	DatabaseURL string
}

// Open creates the store named by cfg.Driver.
func Open(cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "file":
		s, err = openFile(filepath.Join(cfg.DataDir, "guests.json"))
	case "sqlite", "":
		s, err = openSQLite(filepath.Join(cfg.DataDir, "rsvps.db"))
	case "postgres":
		s, err = openPostgres(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// The helpers below keep typed nil pointers out of the Store interface.

func openFile(path string) (Store, error) {
	s, err := NewStorage(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openSQLite(path string) (Store, error) {
	s, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openPostgres(dsn string) (Store, error) {
	s, err := OpenPostgres(dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func sortNewestFirst(guests []models.GuestRecord) {
	sort.SliceStable(guests, func(i, j int) bool {
		return guests[i].CreatedAt.After(guests[j].CreatedAt)
	})
}
