package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"wedding-rsvp/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Fixed width so that lexical order on the column matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps guests in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Create(ctx context.Context, rec models.GuestRecord) (string, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rsvps (uuid, name, email, rsvp, dessert_choice, dessert_topping, allergies, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Email, rec.Attending,
		nullString(rec.DessertChoice), nullString(rec.DessertTopping), nullString(rec.Allergies),
		rec.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("insert rsvp: %w", err)
	}
	return rec.ID, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.GuestRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT uuid, name, email, rsvp, dessert_choice, dessert_topping, allergies, created_at
		FROM rsvps WHERE uuid = ?`, id)

	rec, err := scanGuest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select rsvp: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]models.GuestRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uuid, name, email, rsvp, dessert_choice, dessert_topping, allergies, created_at
		FROM rsvps ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	defer rows.Close()

	guests := make([]models.GuestRecord, 0)
	for rows.Next() {
		rec, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rsvp: %w", err)
		}
		guests = append(guests, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	return guests, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, rec models.GuestRecord) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE rsvps
		SET name = ?, email = ?, rsvp = ?, dessert_choice = ?, dessert_topping = ?, allergies = ?
		WHERE uuid = ?`,
		rec.Name, rec.Email, rec.Attending,
		nullString(rec.DessertChoice), nullString(rec.DessertTopping), nullString(rec.Allergies),
		id,
	)
	if err != nil {
		return fmt.Errorf("update rsvp: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rsvp: %w", err)
	}
	if n == 0 {
		return ErrGuestNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGuest(row rowScanner) (models.GuestRecord, error) {
	var (
		rec                        models.GuestRecord
		choice, topping, allergies sql.NullString
		createdAt                  string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Attending, &choice, &topping, &allergies, &createdAt); err != nil {
		return models.GuestRecord{}, err
	}
	ts, err := time.Parse(sqliteTimeLayout, createdAt)
	if err != nil {
		return models.GuestRecord{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	rec.CreatedAt = ts
	rec.DessertChoice = choice.String
	rec.DessertTopping = topping.String
	rec.Allergies = allergies.String
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
