package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/metrics"
)

const (
	diagnosticLines = 100
	defaultGrace    = 5 * time.Second
)

type processResult struct {
	exitCode    int
	stdout      []byte
	diagnostics []string
	timedOut    bool
}

// runProcess executes bin with args (no shell) and waits for it to exit.
// A nil error means the process ran to completion, whatever its exit code.
// When ctx is done or timeout expires the process group gets SIGTERM, then
// SIGKILL once grace has elapsed.
func runProcess(ctx context.Context, bin string, args []string, timeout, grace time.Duration) (processResult, error) {
	res := processResult{exitCode: -1}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	ring := newLineRing(diagnosticLines)

	// #nosec G204 -- binary comes from configuration, arguments are built as an argv slice
	cmd := exec.Command(bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = ring
	cmd.WaitDelay = grace
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return res, fmt.Errorf("exec start failed: %w", err)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	var waitErr error
	select {
	case waitErr = <-waitCh:
	case <-runCtx.Done():
		terminate(cmd, waitCh, grace)
		res.stdout = stdout.Bytes()
		res.diagnostics = ring.Lines()
		res.timedOut = ctx.Err() == nil
		return res, runCtx.Err()
	}

	res.stdout = stdout.Bytes()
	res.diagnostics = ring.Lines()

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		res.exitCode = 0
	case errors.As(waitErr, &exitErr):
		res.exitCode = exitErr.ExitCode()
	default:
		return res, waitErr
	}
	return res, nil
}

// terminate sends SIGTERM to the process group, escalates to SIGKILL after
// grace and always drains waitCh.
func terminate(cmd *exec.Cmd, waitCh <-chan error, grace time.Duration) {
	if grace <= 0 {
		grace = defaultGrace
	}
	sig := terminateSignal()
	if err := signalGroup(cmd, sig); err != nil {
		metrics.IncProcTerminate(sig.String(), "error")
	} else {
		metrics.IncProcTerminate(sig.String(), "sent")
	}

	select {
	case <-waitCh:
		return
	case <-time.After(grace):
	}

	if err := signalGroup(cmd, syscall.SIGKILL); err != nil {
		metrics.IncProcTerminate(syscall.SIGKILL.String(), "error")
	} else {
		metrics.IncProcTerminate(syscall.SIGKILL.String(), "sent")
	}
	<-waitCh
}

func lastLine(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] != "" {
			return lines[i]
		}
	}
	return ""
}
