package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type Prober struct {
	bin     string
	timeout time.Duration
	grace   time.Duration
}

// compile-time check: *Prober must satisfy port.Prober
var _ port.Prober = (*Prober)(nil)

func NewProber(bin string, timeout time.Duration) *Prober {
	if bin == "" {
		bin = "ffprobe"
	}
	return &Prober{bin: bin, timeout: timeout, grace: defaultGrace}
}

func (p *Prober) Args(src string) []string {
	return []string{
		"-v", "quiet",
		"-i", src,
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
	}
}

// Duration returns the container duration of src in seconds.
func (p *Prober) Duration(ctx context.Context, src string) (float64, error) {
	start := time.Now()
	res, err := runProcess(ctx, p.bin, p.Args(src), p.timeout, p.grace)
	switch {
	case err != nil && res.timedOut:
		metrics.ObserveProcess("ffprobe", "timeout", time.Since(start))
		return 0, fmt.Errorf("%w after %s", port.ErrProbeTimeout, p.timeout)
	case err != nil:
		metrics.ObserveProcess("ffprobe", "error", time.Since(start))
		return 0, fmt.Errorf("%w: %v", port.ErrProbeFailed, err)
	case res.exitCode != 0:
		metrics.ObserveProcess("ffprobe", "exit_nonzero", time.Since(start))
		return 0, fmt.Errorf("%w: exit code %d", port.ErrProbeFailed, res.exitCode)
	}
	metrics.ObserveProcess("ffprobe", "exit0", time.Since(start))

	return ParseDuration(string(res.stdout))
}

// ParseDuration reads ffprobe's csv output: every line is concatenated and
// the result must be a single non-negative number of seconds.
func ParseDuration(out string) (float64, error) {
	s := strings.TrimSpace(strings.NewReplacer("\r", "", "\n", "").Replace(out))
	if s == "" {
		return 0, fmt.Errorf("%w: empty output", port.ErrProbeFailed)
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", port.ErrProbeOutputMalformed, s)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0, fmt.Errorf("%w: %q", port.ErrProbeOutputMalformed, s)
	}
	return d, nil
}
