package sanitizer

import "strings"

func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)

		if normalized == "" {
			continue
		}

		if seen[normalized] {
			continue
		}

		seen[normalized] = true
		result = append(result, normalized)
	}

	return result
}

func NormalizeEmails(emails []string) []string {
	return NormalizeStringSlice(emails, NormalizeEmail)
}

// NormalizeDates trims and dedupes date keys, keeping first-seen order.
func NormalizeDates(dates []string) []string {
	return NormalizeStringSlice(dates, strings.TrimSpace)
}
