package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone parses phone in the given default region and returns it in
// E.164 form, or "" when it cannot be a phone number.
func NormalizePhone(phone, region string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	parsedNumber, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(parsedNumber) {
		return ""
	}
	return phonenumbers.Format(parsedNumber, phonenumbers.E164)
}

// DisplayPhone is NormalizePhone that keeps the customer's own spelling when
// the number does not parse.
func DisplayPhone(phone, region string) string {
	if normalized := NormalizePhone(phone, region); normalized != "" {
		return normalized
	}
	return TrimAndNormalize(phone)
}
