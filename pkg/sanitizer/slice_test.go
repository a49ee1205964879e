package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmails(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "lowercases and trims",
			input: []string{" Ann@Example.org ", "bob@example.org"},
			want:  []string{"ann@example.org", "bob@example.org"},
		},
		{
			name:  "duplicates differing by case removed",
			input: []string{"ann@example.org", "ANN@example.org"},
			want:  []string{"ann@example.org"},
		},
		{
			name:  "empty strings filtered",
			input: []string{"", "  ", "bob@example.org"},
			want:  []string{"bob@example.org"},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmails(tt.input))
		})
	}
}

func TestNormalizeDates_KeepsFirstSeenOrder(t *testing.T) {
	got := NormalizeDates([]string{"2025-06-04", " 2025-06-02", "2025-06-04", ""})
	assert.Equal(t, []string{"2025-06-04", "2025-06-02"}, got)
}
