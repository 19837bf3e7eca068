package port

import "context"

// Names of the files a transcoder writes into a package directory.
const (
	ManifestName   = "master.m3u8"
	SegmentPattern = "segment_%03d.ts"
)

type TranscodeResult struct {
	ExitCode    int
	Diagnostics []string
}

// Transcoder turns a source video into a segmented streaming package inside targetDir.
type Transcoder interface {
	Transcode(ctx context.Context, src, targetDir string) (TranscodeResult, error)
}

// Prober reads the duration of a media file, in seconds.
type Prober interface {
	Duration(ctx context.Context, src string) (float64, error)
}
