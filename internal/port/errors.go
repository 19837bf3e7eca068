package port

import "errors"

// Errors raised by the adapters behind the ports in this package.
var (
	ErrDirectoryCreationFailed = errors.New("layout: directory creation failed")
	ErrInvalidPathSegment      = errors.New("layout: invalid path segment")

	ErrTranscodeFailed  = errors.New("transcode: process failed")
	ErrTranscodeTimeout = errors.New("transcode: timed out")

	ErrProbeFailed          = errors.New("probe: process failed")
	ErrProbeOutputMalformed = errors.New("probe: malformed output")
	ErrProbeTimeout         = errors.New("probe: timed out")
)
