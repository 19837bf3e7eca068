package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type Transcoder struct {
	bin            string
	segmentSeconds int
	timeout        time.Duration
	grace          time.Duration
}

// compile-time check: *Transcoder must satisfy port.Transcoder
var _ port.Transcoder = (*Transcoder)(nil)

func NewTranscoder(bin string, segmentSeconds int, timeout time.Duration) *Transcoder {
	if bin == "" {
		bin = "ffmpeg"
	}
	if segmentSeconds <= 0 {
		segmentSeconds = 10
	}
	return &Transcoder{bin: bin, segmentSeconds: segmentSeconds, timeout: timeout, grace: defaultGrace}
}

// Args builds the ffmpeg argv producing an HLS package in targetDir.
func (t *Transcoder) Args(src, targetDir string) []string {
	return []string{
		"-hide_banner",
		"-nostats",
		"-y",
		"-i", src,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-f", "hls",
		"-hls_time", strconv.Itoa(t.segmentSeconds),
		"-hls_list_size", "0",
		"-hls_segment_filename", filepath.Join(targetDir, port.SegmentPattern),
		filepath.Join(targetDir, port.ManifestName),
	}
}

// Transcode blocks until ffmpeg exits. It does not check that the manifest was written.
func (t *Transcoder) Transcode(ctx context.Context, src, targetDir string) (port.TranscodeResult, error) {
	logger.Infof(ctx, "transcoding %q into %q...", src, targetDir)

	start := time.Now()
	res, err := runProcess(ctx, t.bin, t.Args(src, targetDir), t.timeout, t.grace)
	out := port.TranscodeResult{ExitCode: res.exitCode, Diagnostics: res.diagnostics}

	switch {
	case err != nil && res.timedOut:
		metrics.ObserveProcess("ffmpeg", "timeout", time.Since(start))
		return out, fmt.Errorf("%w after %s: %s", port.ErrTranscodeTimeout, t.timeout, lastLine(res.diagnostics))
	case err != nil && errors.Is(err, context.Canceled):
		metrics.ObserveProcess("ffmpeg", "canceled", time.Since(start))
		return out, fmt.Errorf("%w: %v", port.ErrTranscodeFailed, err)
	case err != nil:
		metrics.ObserveProcess("ffmpeg", "error", time.Since(start))
		return out, fmt.Errorf("%w: %v", port.ErrTranscodeFailed, err)
	case res.exitCode != 0:
		metrics.ObserveProcess("ffmpeg", "exit_nonzero", time.Since(start))
		return out, fmt.Errorf("%w: exit code %d: %s", port.ErrTranscodeFailed, res.exitCode, lastLine(res.diagnostics))
	}

	metrics.ObserveProcess("ffmpeg", "exit0", time.Since(start))
	return out, nil
}
