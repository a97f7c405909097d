package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/models"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func attendingGuest(id string, created time.Time) models.GuestRecord {
	return models.GuestRecord{
		ID:             id,
		Name:           "John Doe",
		Email:          "john@example.com",
		Attending:      true,
		DessertChoice:  "lemon",
		DessertTopping: "cream",
		Allergies:      "Nuts",
		CreatedAt:      created,
	}
}

// runStoreContract exercises behaviour every driver must share.
func runStoreContract(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create then get", func(t *testing.T) {
		s := open(t)
		rec := attendingGuest("id-1", baseTime)

		id, err := s.Create(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, "id-1", id)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, rec, *got)
	})

	t.Run("get unknown", func(t *testing.T) {
		s := open(t)

		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrGuestNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		s := open(t)
		for i, id := range []string{"a", "b", "c"} {
			_, err := s.Create(ctx, attendingGuest(id, baseTime.Add(time.Duration(i)*time.Minute)))
			require.NoError(t, err)
		}

		guests, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, guests, 3)
		assert.Equal(t, "c", guests[0].ID)
		assert.Equal(t, "b", guests[1].ID)
		assert.Equal(t, "a", guests[2].ID)
	})

	t.Run("list empty", func(t *testing.T) {
		s := open(t)

		guests, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, guests)
	})

	t.Run("update replaces mutable fields only", func(t *testing.T) {
		s := open(t)
		rec := attendingGuest("id-2", baseTime)
		_, err := s.Create(ctx, rec)
		require.NoError(t, err)

		changed := models.GuestRecord{
			ID:        "ignored",
			Name:      "John Doe",
			Email:     "john@example.com",
			Attending: false,
			CreatedAt: baseTime.Add(time.Hour),
		}
		require.NoError(t, s.Update(ctx, "id-2", changed))

		got, err := s.Get(ctx, "id-2")
		require.NoError(t, err)
		assert.Equal(t, "id-2", got.ID)
		assert.Equal(t, baseTime, got.CreatedAt)
		assert.False(t, got.Attending)
		assert.Empty(t, got.DessertChoice)
		assert.Empty(t, got.DessertTopping)
		assert.Empty(t, got.Allergies)
	})

	t.Run("update unknown", func(t *testing.T) {
		s := open(t)

		err := s.Update(ctx, "missing", attendingGuest("missing", baseTime))
		assert.ErrorIs(t, err, ErrGuestNotFound)
	})
}

func TestFileStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		s, err := NewStorage(filepath.Join(t.TempDir(), "guests.json"))
		require.NoError(t, err)
		return s
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		s, err := OpenSQLite(filepath.Join(t.TempDir(), "rsvps.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestFileStore_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "guests.json")
	ctx := context.Background()

	s1, err := NewStorage(path)
	require.NoError(t, err)
	_, err = s1.Create(ctx, attendingGuest("id-1", baseTime))
	require.NoError(t, err)

	s2, err := NewStorage(path)
	require.NoError(t, err)
	got, err := s2.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)
	assert.True(t, got.CreatedAt.Equal(baseTime))
}

func TestFileStore_RejectsDuplicateIdentifier(t *testing.T) {
	s, err := NewStorage(filepath.Join(t.TempDir(), "guests.json"))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Create(ctx, attendingGuest("dup", baseTime))
	require.NoError(t, err)
	_, err = s.Create(ctx, attendingGuest("dup", baseTime))
	assert.Error(t, err)

	guests, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, guests, 1)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rsvps.db")
	ctx := context.Background()

	s1, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = s1.Create(ctx, attendingGuest("id-1", baseTime))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, attendingGuest("id-1", baseTime), *got)
}

func TestSQLiteStore_StoresNullForClearedFields(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "rsvps.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, err = s.Create(ctx, models.GuestRecord{ID: "jo", Name: "Jo", Email: "jo@x.com", CreatedAt: baseTime})
	require.NoError(t, err)

	var nulls int
	err = s.db.QueryRow(`SELECT COUNT(*) FROM rsvps WHERE dessert_choice IS NULL AND dessert_topping IS NULL AND allergies IS NULL`).Scan(&nulls)
	require.NoError(t, err)
	assert.Equal(t, 1, nulls)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mongo", DataDir: t.TempDir()})
	assert.Error(t, err)
}

func TestOpen_FileDriver(t *testing.T) {
	s, err := Open(Config{Driver: "file", DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
}

func TestOpen_PostgresRequiresURL(t *testing.T) {
	_, err := Open(Config{Driver: "postgres"})
	assert.Error(t, err)
}
