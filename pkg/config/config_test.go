package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		MongoURI:          DefaultMongoURI,
		MongoDatabaseName: DefaultMongoDatabaseName,
		MongoConnTimeout:  DefaultMongoConnTimeout,
		KafkaTopic:        DefaultKafkaTopic,
		Port:              DefaultPort,
		HealthPort:        DefaultHealthPort,
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		TokenTTL:          DefaultTokenTTL,
		BcryptCost:        DefaultBcryptCost,
		RateLimitRequests: DefaultRateLimitRequests,
		RateLimitWindow:   DefaultRateLimitWindow,
		RateLimitBurst:    DefaultRateLimitBurst,
		RequestTimeout:    DefaultRequestTimeout,
		IdempotencyTTL:    DefaultIdempotencyTTL,
		MaxRequestSize:    DefaultMaxRequestSize,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
		Calendar:          DefaultCalendar(),
	}
}

func writeCalendar(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calendar.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name: "same ports",
			mutate: func(c *Config) {
				c.HealthPort = c.Port
			},
			wantErr: []string{"Port and HealthPort must differ"},
		},
		{
			name: "bad mongo uri",
			mutate: func(c *Config) {
				c.MongoURI = "postgres://user:secret@db:5432"
			},
			wantErr: []string{"MongoURI must start with"},
		},
		{
			name: "short secret and low bcrypt cost",
			mutate: func(c *Config) {
				c.JWTSecret = "short"
				c.BcryptCost = 2
			},
			wantErr: []string{"JWTSecret must be at least 32 characters", "BcryptCost must be between 4 and 31"},
		},
		{
			name: "kafka enabled without topic",
			mutate: func(c *Config) {
				c.KafkaEnabled = true
				c.KafkaTopic = ""
			},
			wantErr: []string{"KafkaTopic cannot be empty"},
		},
		{
			name: "broken calendar",
			mutate: func(c *Config) {
				c.Calendar.Timezone = "Mars/Olympus"
				c.Calendar.BookingHours = map[string]HourRange{"funday": {Start: "18:00", End: "14:00"}}
				c.Calendar.Holidays = []HolidaySetting{{Date: "09-06-2025", Label: "x"}}
			},
			wantErr: []string{
				"Calendar timezone is not a valid IANA zone",
				"Calendar booking_hours has unknown weekday: funday",
				"end must be after start",
				"Calendar holiday date must be YYYY-MM-DD",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, msg := range tt.wantErr {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestLoadCalendarFile(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		settings, err := LoadCalendarFile("")
		require.NoError(t, err)
		assert.Equal(t, DefaultCalendar(), settings)
	})

	t.Run("file overrides only the keys it defines", func(t *testing.T) {
		path := writeCalendar(t, `
slot_minutes = 20
shift_weekdays = ["tuesday"]

[booking_hours.tuesday]
start = "10:00"
end = "12:00"

[[holidays]]
date = "2025-12-25"
label = "Christmas"
`)
		settings, err := LoadCalendarFile(path)
		require.NoError(t, err)

		assert.Equal(t, DefaultTimezone, settings.Timezone)
		assert.True(t, settings.LegacyReadOnly)
		assert.Equal(t, 20, settings.SlotMinutes)
		assert.Equal(t, []string{"tuesday"}, settings.ShiftWeekdays)
		assert.Equal(t, map[string]HourRange{"tuesday": {Start: "10:00", End: "12:00"}}, settings.BookingHours)
		assert.Equal(t, []HolidaySetting{{Date: "2025-12-25", Label: "Christmas"}}, settings.Holidays)
	})

	t.Run("cutover as a toml datetime", func(t *testing.T) {
		path := writeCalendar(t, "cutover = 2025-04-01T00:00:00+02:00\nlegacy_read_only = false\n")
		settings, err := LoadCalendarFile(path)
		require.NoError(t, err)

		want := time.Date(2025, 3, 31, 22, 0, 0, 0, time.UTC)
		assert.True(t, settings.Cutover.Equal(want), "got %s", settings.Cutover)
		assert.False(t, settings.LegacyReadOnly)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		path := writeCalendar(t, "slot_minute = 20\n")
		_, err := LoadCalendarFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown keys")
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := writeCalendar(t, "timezone = \n")
		_, err := LoadCalendarFile(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCalendarFile(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestParseWeekday(t *testing.T) {
	wd, ok := ParseWeekday("  Wednesday ")
	assert.True(t, ok)
	assert.Equal(t, time.Wednesday, wd)

	_, ok = ParseWeekday("wed")
	assert.False(t, ok)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
	assert.Nil(t, splitList(""))
}

func TestRedactMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://***:***@db:27017", redactMongoURI("mongodb://root:pw@db:27017"))
	assert.Equal(t, DefaultMongoURI, redactMongoURI(DefaultMongoURI))
}
