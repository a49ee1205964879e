package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	apperrors "bkhost/pkg/errors"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("Request body is empty")
		}
		return apperrors.InvalidInput("Invalid request body")
	}
	return nil
}

// QueryDate parses a YYYY-MM-DD query parameter in loc. When the parameter is
// absent, fallback is returned.
func QueryDate(r *http.Request, name string, loc *time.Location, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	day, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + " parameter, expected YYYY-MM-DD: " + raw)
	}
	return day, nil
}

// QueryMonth parses a YYYY-MM query parameter in loc.
func QueryMonth(r *http.Request, name string, loc *time.Location, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	month, err := time.ParseInLocation(MonthLayout, raw, loc)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + " parameter, expected YYYY-MM: " + raw)
	}
	return month, nil
}

// ParseDates parses a list of YYYY-MM-DD strings in loc, preserving order.
func ParseDates(raw []string, loc *time.Location) ([]time.Time, error) {
	days := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		day, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid date, expected YYYY-MM-DD: " + s)
		}
		days = append(days, day)
	}
	return days, nil
}
