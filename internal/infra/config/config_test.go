package config

import (
	"testing"
	"time"

	"loftcal/internal/domain/availability"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("DEFAULT_LOCALE", "")
	t.Setenv("CALENDAR_TIMEZONE", "")
	t.Setenv("MAX_WINDOW_DAYS", "")
	t.Setenv("RETRY_BACKOFF", "")
	t.Setenv("INTEGRITY_QUIET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory storage, got %q", cfg.StorageDriver)
	}
	if cfg.DefaultLocale != availability.LocaleFrench {
		t.Fatalf("expected fr default locale, got %q", cfg.DefaultLocale)
	}
	if cfg.CalendarLocation != time.UTC {
		t.Fatalf("expected UTC calendar, got %v", cfg.CalendarLocation)
	}
	if cfg.MaxWindowDays != 366 {
		t.Fatalf("unexpected max window %d", cfg.MaxWindowDays)
	}
	if len(cfg.RetryBackoff) != 3 || cfg.RetryBackoff[2] != 30*time.Second {
		t.Fatalf("unexpected backoff %v", cfg.RetryBackoff)
	}
	if cfg.IntegrityQuiet != time.Hour {
		t.Fatalf("unexpected integrity quiet period %v", cfg.IntegrityQuiet)
	}
	if cfg.KafkaEnabled() {
		t.Fatalf("kafka must be disabled without brokers")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DEFAULT_LOCALE", "AR")
	t.Setenv("CALENDAR_TIMEZONE", "Africa/Algiers")
	t.Setenv("S3_USE_SSL", "yes")
	t.Setenv("INTEGRITY_QUIET", "15m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.DefaultLocale != availability.LocaleArabic {
		t.Fatalf("expected ar, got %q", cfg.DefaultLocale)
	}
	if cfg.CalendarLocation.String() != "Africa/Algiers" {
		t.Fatalf("unexpected location %v", cfg.CalendarLocation)
	}
	if !cfg.S3UseSSL {
		t.Fatalf("expected ssl enabled")
	}
	if cfg.IntegrityQuiet != 15*time.Minute {
		t.Fatalf("expected 15m integrity quiet period, got %v", cfg.IntegrityQuiet)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "locale", key: "DEFAULT_LOCALE", val: "de"},
		{name: "driver", key: "STORAGE_DRIVER", val: "postgres"},
		{name: "timezone", key: "CALENDAR_TIMEZONE", val: "Mars/Olympus"},
		{name: "window", key: "MAX_WINDOW_DAYS", val: "-3"},
		{name: "duration", key: "OUTBOX_POLL_INTERVAL", val: "soon"},
		{name: "bool", key: "S3_USE_SSL", val: "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestLoadMongoRequiresURI(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without MONGO_URI")
	}
}
