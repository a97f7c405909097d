package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	StoreDriver string
	DataDir     string
	DatabaseURL string

	ResendAPIKey  string
	MailFromAdmin string
	MailFromGuest string
	AdminEmail    string

	SiteURL        string
	UpdatePath     string
	VocabularyFile string

	WhatsAppEnabled     bool
	WhatsAppAdminPhone  string
	WhatsAppCountryCode string

	WeddingDate     string
	WeddingLocation string
	BrideName       string
	GroomName       string

	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from an optional .env file, environment variables or defaults
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	shutdown, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdown,

		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		DataDir:     getEnv("DATA_DIR", "data"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		MailFromAdmin: getEnv("MAIL_FROM_ADMIN", "Wedding RSVP <rsvp@example.com>"),
		MailFromGuest: getEnv("MAIL_FROM_GUEST", "Wedding RSVP <rsvp@example.com>"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),

		SiteURL:        getEnv("SITE_URL", "http://localhost:8080"),
		UpdatePath:     getEnv("UPDATE_PATH", "/update-rsvp"),
		VocabularyFile: os.Getenv("VOCABULARY_FILE"),

		WhatsAppEnabled:     getBool("WHATSAPP_ENABLED", false),
		WhatsAppAdminPhone:  os.Getenv("WHATSAPP_ADMIN_PHONE"),
		WhatsAppCountryCode: strings.TrimPrefix(getEnv("WHATSAPP_COUNTRY_CODE", "44"), "+"),

		WeddingDate:     getEnv("WEDDING_DATE", "Saturday, January 1, 2025"),
		WeddingLocation: getEnv("WEDDING_LOCATION", "Venue TBD"),
		BrideName:       getEnv("BRIDE_NAME", "Bride"),
		GroomName:       getEnv("GROOM_NAME", "Groom"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "file", "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: must be file, sqlite or postgres", c.StoreDriver)
	}
	if c.WhatsAppEnabled {
		if c.WhatsAppAdminPhone == "" {
			return errors.New("WHATSAPP_ADMIN_PHONE is required when WHATSAPP_ENABLED=true")
		}
		if !isDigits(c.WhatsAppCountryCode) {
			return fmt.Errorf("invalid WHATSAPP_COUNTRY_CODE %q: must be digits, e.g. 44", c.WhatsAppCountryCode)
		}
	}
	if c.ResendAPIKey != "" && c.AdminEmail == "" {
		return errors.New("ADMIN_EMAIL is required when RESEND_API_KEY is set")
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return b
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
