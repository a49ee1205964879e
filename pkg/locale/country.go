package locale

import "strings"

const (
	DefaultRegion = "NL"
)

type Country struct {
	Code            string   // ISO 3166-1 alpha-2 country code (e.g., "NL", "BE")
	Name            string   // Human-readable country name
	PhonePrefixes   []string // Valid phone number prefixes (e.g., ["+31", "31"])
	DefaultTimezone string   // IANA timezone identifier (e.g., "Europe/Amsterdam")
}

var (
	Countries = map[string]Country{
		"NL": {
			Code:            "NL",
			Name:            "Netherlands",
			PhonePrefixes:   []string{"+31", "0031"},
			DefaultTimezone: "Europe/Amsterdam",
		},
		"BE": {
			Code:            "BE",
			Name:            "Belgium",
			PhonePrefixes:   []string{"+32", "0032"},
			DefaultTimezone: "Europe/Brussels",
		},
		"DE": {
			Code:            "DE",
			Name:            "Germany",
			PhonePrefixes:   []string{"+49", "0049"},
			DefaultTimezone: "Europe/Berlin",
		},
		"GB": {
			Code:            "GB",
			Name:            "United Kingdom",
			PhonePrefixes:   []string{"+44", "0044"},
			DefaultTimezone: "Europe/London",
		},
		"US": {
			Code:            "US",
			Name:            "United States",
			PhonePrefixes:   []string{"+1", "001"},
			DefaultTimezone: "America/New_York",
		},
	}

	TimeZoneTags = map[string][]string{
		"NL": {"Europe/Amsterdam"},
		"BE": {"Europe/Brussels"},
		"DE": {"Europe/Berlin", "Europe/Busingen"},
		"GB": {"Europe/London", "GB"},
		"US": {"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles", "US/Eastern", "US/Pacific"},
	}
)

// DetectRegion maps an IANA timezone name to the region used when parsing
// local phone numbers. Unknown zones fall back to DefaultRegion.
func DetectRegion(tz string) string {
	tz = strings.TrimSpace(tz)
	for region, zones := range TimeZoneTags {
		for _, z := range zones {
			if strings.EqualFold(tz, z) {
				return region
			}
		}
	}
	return DefaultRegion
}
