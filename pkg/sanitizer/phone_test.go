package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{
			name:   "valid E.164 format",
			input:  "+31612345678",
			region: "NL",
			want:   "+31612345678",
		},
		{
			name:   "dutch mobile national format",
			input:  "06 12345678",
			region: "NL",
			want:   "+31612345678",
		},
		{
			name:   "dutch landline with dashes",
			input:  "020-1234567",
			region: "NL",
			want:   "+31201234567",
		},
		{
			name:   "foreign number ignores default region",
			input:  "+32 470 12 34 56",
			region: "NL",
			want:   "+32470123456",
		},
		{
			name:   "with parentheses",
			input:  "+1 (212) 555-1234",
			region: "NL",
			want:   "+12125551234",
		},
		{
			name:   "lowercase region",
			input:  "0612345678",
			region: "nl",
			want:   "+31612345678",
		},
		{
			name:   "leading and trailing spaces",
			input:  "  +31612345678  ",
			region: "NL",
			want:   "+31612345678",
		},
		{
			name:   "empty string",
			input:  "",
			region: "NL",
			want:   "",
		},
		{
			name:   "only whitespace",
			input:  "   ",
			region: "NL",
			want:   "",
		},
		{
			name:   "letters only",
			input:  "not a phone",
			region: "NL",
			want:   "",
		},
		{
			name:   "extremely long",
			input:  "+1234567890123456789012345678901234567890",
			region: "NL",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input, tt.region)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tt.input, tt.region, got, tt.want)
			}
		})
	}
}

func TestDisplayPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "parsable", input: "06-1234 5678", want: "+31612345678"},
		{name: "unparsable keeps spelling", input: "  call   me ", want: "call me"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayPhone(tt.input, "NL"); got != tt.want {
				t.Errorf("DisplayPhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
