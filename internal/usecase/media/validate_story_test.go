package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fhuszti/videos-ms-go/internal/mock"
)

func TestValidateStoryVideo(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "story.mp4")
	if err := os.WriteFile(src, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		seconds float64
		want    bool
	}{
		{"at the limit", 15.0, true},
		{"just over", 15.1, false},
		{"short", 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewStoryValidator(&mock.MockProber{Seconds: tt.seconds}, DefaultThresholds(), tmp)
			ok, secs, err := svc.ValidateStoryVideo(context.Background(), src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want || secs != tt.seconds {
				t.Errorf("got (%v, %v); want (%v, %v)", ok, secs, tt.want, tt.seconds)
			}
		})
	}
}

func TestValidateStoryVideo_Errors(t *testing.T) {
	tmp := t.TempDir()

	t.Run("outside temp dir", func(t *testing.T) {
		prober := &mock.MockProber{}
		svc := NewStoryValidator(prober, DefaultThresholds(), tmp)
		_, _, err := svc.ValidateStoryVideo(context.Background(), "/etc/hosts")
		if !errors.Is(err, ErrSourceOutsideTemp) {
			t.Fatalf("expected ErrSourceOutsideTemp, got %v", err)
		}
		if prober.Called {
			t.Error("probe should not run")
		}
	})
	t.Run("missing file", func(t *testing.T) {
		svc := NewStoryValidator(&mock.MockProber{}, DefaultThresholds(), tmp)
		_, _, err := svc.ValidateStoryVideo(context.Background(), filepath.Join(tmp, "nope.mp4"))
		if !errors.Is(err, ErrSourceNotFound) {
			t.Fatalf("expected ErrSourceNotFound, got %v", err)
		}
	})
	t.Run("probe error", func(t *testing.T) {
		src := filepath.Join(tmp, "bad.mp4")
		_ = os.WriteFile(src, []byte("x"), 0o644)
		svc := NewStoryValidator(&mock.MockProber{Err: ErrProbeOutputMalformed}, DefaultThresholds(), tmp)
		_, _, err := svc.ValidateStoryVideo(context.Background(), src)
		if !errors.Is(err, ErrProbeOutputMalformed) {
			t.Fatalf("expected ErrProbeOutputMalformed, got %v", err)
		}
	})
}
