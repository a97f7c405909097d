package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"wedding-rsvp/internal/models"
)

// rsvpRow mirrors the hosted rsvps table. Optional fields are NULL when the guest is not attending.
type rsvpRow struct {
	UUID           string    `gorm:"column:uuid;primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	Email          string    `gorm:"column:email;not null"`
	RSVP           bool      `gorm:"column:rsvp;not null"`
	DessertChoice  *string   `gorm:"column:dessert_choice"`
	DessertTopping *string   `gorm:"column:dessert_topping"`
	Allergies      *string   `gorm:"column:allergies"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;index"`
}

func (rsvpRow) TableName() string {
	return "rsvps"
}

func rowFromRecord(rec models.GuestRecord) rsvpRow {
	return rsvpRow{
		UUID:           rec.ID,
		Name:           rec.Name,
		Email:          rec.Email,
		RSVP:           rec.Attending,
		DessertChoice:  optional(rec.DessertChoice),
		DessertTopping: optional(rec.DessertTopping),
		Allergies:      optional(rec.Allergies),
		CreatedAt:      rec.CreatedAt,
	}
}

func (r rsvpRow) record() models.GuestRecord {
	return models.GuestRecord{
		ID:             r.UUID,
		Name:           r.Name,
		Email:          r.Email,
		Attending:      r.RSVP,
		DessertChoice:  deref(r.DessertChoice),
		DessertTopping: deref(r.DessertTopping),
		Allergies:      deref(r.Allergies),
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

// PostgresStore talks to the hosted Postgres database through gorm.
type PostgresStore struct {
	db *gorm.DB
}

// OpenPostgres connects to dsn and makes sure the rsvps table exists.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres store requires a database url")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&rsvpRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate rsvps: %w", err)
	}
	return NewPostgresStore(db), nil
}

// NewPostgresStore wraps an existing gorm connection.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, rec models.GuestRecord) (string, error) {
	row := rowFromRecord(rec)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("insert rsvp: %w", err)
	}
	return row.UUID, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.GuestRecord, error) {
	var row rsvpRow
	err := s.db.WithContext(ctx).Where("uuid = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select rsvp: %w", err)
	}
	rec := row.record()
	return &rec, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.GuestRecord, error) {
	var rows []rsvpRow
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	guests := make([]models.GuestRecord, 0, len(rows))
	for _, r := range rows {
		guests = append(guests, r.record())
	}
	return guests, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, rec models.GuestRecord) error {
	row := rowFromRecord(rec)
	res := s.db.WithContext(ctx).Model(&rsvpRow{}).Where("uuid = ?", id).Updates(map[string]any{
		"name":            row.Name,
		"email":           row.Email,
		"rsvp":            row.RSVP,
		"dessert_choice":  row.DessertChoice,
		"dessert_topping": row.DessertTopping,
		"allergies":       row.Allergies,
	})
	if res.Error != nil {
		return fmt.Errorf("update rsvp: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrGuestNotFound
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
