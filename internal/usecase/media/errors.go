package media

import (
	"errors"

	"github.com/fhuszti/videos-ms-go/internal/port"
)

var (
	ErrDirectoryCreationFailed = port.ErrDirectoryCreationFailed
	ErrInvalidPathSegment      = port.ErrInvalidPathSegment

	ErrTranscodeFailed        = port.ErrTranscodeFailed
	ErrTranscodeTimeout       = port.ErrTranscodeTimeout
	ErrTranscodeOutputMissing = errors.New("transcode: output missing")

	ErrProbeFailed          = port.ErrProbeFailed
	ErrProbeOutputMalformed = port.ErrProbeOutputMalformed
	ErrProbeTimeout         = port.ErrProbeTimeout

	ErrRecordNotFound    = errors.New("content: record not found")
	ErrMediaItemNotFound = errors.New("content: media item not found")
	ErrMediaItemMoved    = errors.New("content: media item no longer at source location")
	ErrVersionConflict   = errors.New("content: version conflict")

	ErrSourceNotFound       = errors.New("source: file not found")
	ErrSourceDeletionFailed = errors.New("source: deletion failed")
	ErrSourceOutsideTemp    = errors.New("source: outside temporary upload directory")
)
