package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"wedding-rsvp/internal/models"
)

// FileStore keeps guests in a JSON file. Suitable for a single process.
type FileStore struct {
	mu     sync.RWMutex
	guests []models.GuestRecord
	file   string
}

// NewStorage creates a new file-backed storage instance
func NewStorage(filePath string) (*FileStore, error) {
	s := &FileStore{
		guests: make([]models.GuestRecord, 0),
		file:   filePath,
	}

	// Load existing data if file exists
	if _, err := os.Stat(filePath); err == nil {
		if err := s.Load(); err != nil {
			return nil, fmt.Errorf("failed to load storage: %w", err)
		}
	}

	return s, nil
}

// Create adds a new guest record
func (s *FileStore) Create(_ context.Context, rec models.GuestRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.guests {
		if g.ID == rec.ID {
			return "", fmt.Errorf("guest %s already exists", rec.ID)
		}
	}

	s.guests = append(s.guests, rec)
	if err := s.save(); err != nil {
		s.guests = s.guests[:len(s.guests)-1]
		return "", err
	}
	return rec.ID, nil
}

// Get retrieves a guest by identifier
func (s *FileStore) Get(_ context.Context, id string) (*models.GuestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.guests {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, ErrGuestNotFound
}

// Update replaces the mutable fields of a guest
func (s *FileStore) Update(_ context.Context, id string, rec models.GuestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.guests {
		if g.ID == id {
			prev := g
			s.guests[i].Name = rec.Name
			s.guests[i].Email = rec.Email
			s.guests[i].Attending = rec.Attending
			s.guests[i].DessertChoice = rec.DessertChoice
			s.guests[i].DessertTopping = rec.DessertTopping
			s.guests[i].Allergies = rec.Allergies
			if err := s.save(); err != nil {
				s.guests[i] = prev
				return err
			}
			return nil
		}
	}
	return ErrGuestNotFound
}

// List returns all guests, newest first
func (s *FileStore) List(_ context.Context) ([]models.GuestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guests := make([]models.GuestRecord, len(s.guests))
	copy(guests, s.guests)
	sortNewestFirst(guests)
	return guests, nil
}

// Close is a no-op; every write is flushed immediately.
func (s *FileStore) Close() error { return nil }

// save writes the guests to file. Callers hold the write lock.
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.guests, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(s.file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(s.file, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Load loads guests from file
func (s *FileStore) Load() error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		s.guests = make([]models.GuestRecord, 0)
		return nil
	}

	if err := json.Unmarshal(data, &s.guests); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return nil
}
