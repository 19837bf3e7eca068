package media

import (
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/model"
)

func TestIsWithinDir(t *testing.T) {
	cases := []struct {
		dir, path string
		want      bool
	}{
		{"/tmp/uploads", "/tmp/uploads/a.mp4", true},
		{"/tmp/uploads/", "/tmp/uploads/x/y.mp4", true},
		{"/tmp/uploads", "/tmp/uploads", false},
		{"/tmp/uploads", "/tmp/uploads/../etc/passwd", false},
		{"/tmp/uploads", "/tmp/uploads2/a.mp4", false},
		{"/tmp/uploads", "/srv/a.mp4", false},
	}
	for _, tc := range cases {
		if got := IsWithinDir(tc.dir, tc.path); got != tc.want {
			t.Errorf("IsWithinDir(%q, %q) = %v; want %v", tc.dir, tc.path, got, tc.want)
		}
	}
}

func TestThresholds(t *testing.T) {
	th := DefaultThresholds()
	cases := []struct {
		kind    string
		seconds float64
		want    bool
	}{
		{"post", 0, true},
		{"post", 45, true},
		{"post", 90.0, true},
		{"post", 90.01, false},
		{"story", 15.0, true},
		{"story", 15.1, false},
	}
	for _, tc := range cases {
		if got := th.IsShortForm(model.ContentKind(tc.kind), tc.seconds); got != tc.want {
			t.Errorf("IsShortForm(%s, %v) = %v; want %v", tc.kind, tc.seconds, got, tc.want)
		}
	}
}
