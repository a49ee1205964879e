package locale

import (
	"strings"
	"time"
)

// RegionForLocation is DetectRegion for a loaded *time.Location.
func RegionForLocation(loc *time.Location) string {
	if loc == nil {
		return DefaultRegion
	}
	return DetectRegion(loc.String())
}

func InferCountryFromPhone(phone string) *Country {
	normalized := strings.TrimSpace(phone)

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) {
				c := country
				return &c
			}
		}
	}

	return nil
}
