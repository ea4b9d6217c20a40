package transaction_repo

import (
	"testing"

	"tokopos/internal/core/apperror"
)

func TestParseOrderBy(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "date DESC"},
		{"-date", "date DESC"},
		{"date", "date ASC"},
		{"number", "number ASC"},
		{"-grand_total", "grand_total DESC"},
		{"created_at", "created_at ASC"},
		{"-status", "status DESC"},
		{"type", "type ASC"},
	}
	for _, tc := range cases {
		got, err := parseOrderBy(tc.in)
		if err != nil {
			t.Errorf("parseOrderBy(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseOrderBy(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseOrderBy_RejectsUnknownColumns(t *testing.T) {
	for _, in := range []string{"date DESC", "id; DROP TABLE transactions", "unknown", "-payment_method"} {
		if _, err := parseOrderBy(in); !apperror.HasCode(err, apperror.CodeValidation) {
			t.Errorf("parseOrderBy(%q): want validation error, got %v", in, err)
		}
	}
}
