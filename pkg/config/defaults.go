package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bkhost"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisDB = 0

	DefaultKafkaEnabled = false
	DefaultKafkaTopic   = "bkhost-domain-events"
	DefaultKafkaDLQ     = "dlq-bkhost-domain-events"

	DefaultPort       = "8080"
	DefaultHealthPort = "8081"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"

	DefaultTokenTTL   = 12 * time.Hour
	DefaultBcryptCost = 12

	DefaultCORSAllowedOrigins = "http://localhost:5173"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute
	DefaultRateLimitBurst    = 5

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultShopName = "Bike Kitchen"

	DefaultTimezone    = "Europe/Amsterdam"
	DefaultSlotMinutes = 30
	DefaultCutover     = "2025-03-01T00:00:00+01:00"
)

// DefaultCalendar mirrors the shop's published opening pattern.
func DefaultCalendar() CalendarSettings {
	cutover, _ := time.Parse(time.RFC3339, DefaultCutover)
	return CalendarSettings{
		Timezone:       DefaultTimezone,
		SlotMinutes:    DefaultSlotMinutes,
		Cutover:        cutover,
		LegacyReadOnly: true,
		BookingHours: map[string]HourRange{
			"monday":    {Start: "14:00", End: "18:00"},
			"wednesday": {Start: "12:00", End: "16:00"},
			"thursday":  {Start: "16:00", End: "20:00"},
		},
		ShiftWeekdays: []string{"monday", "wednesday", "thursday"},
		Holidays: []HolidaySetting{
			{Date: "2025-04-21", Label: "Easter Monday"},
			{Date: "2025-05-05", Label: "Liberation Day"},
			{Date: "2025-05-29", Label: "Ascension Day"},
			{Date: "2025-06-09", Label: "Whit Monday"},
		},
	}
}
