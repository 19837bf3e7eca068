package model

import "testing"

func TestIsValidPathSegment(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"U1", true},
		{"aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", true},
		{"", false},
		{".", false},
		{"..", false},
		{"a/b", false},
		{`a\b`, false},
		{"a\x00b", false},
	}
	for _, tc := range cases {
		if got := IsValidPathSegment(tc.in); got != tc.want {
			t.Errorf("IsValidPathSegment(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}
