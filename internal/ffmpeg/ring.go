package ffmpeg

import (
	"strings"
	"sync"
)

// maxLineBytes caps a single retained line; anything past it is dropped.
const maxLineBytes = 4096

// lineRing is an io.Writer keeping only the last N complete lines written to it.
// Both '\n' and '\r' end a line, so ffmpeg progress updates count as lines
// and are rotated out like any other.
type lineRing struct {
	mu      sync.Mutex
	lines   []string
	pos     int
	full    bool
	partial strings.Builder
}

func newLineRing(size int) *lineRing {
	return &lineRing{lines: make([]string, size)}
}

func (r *lineRing) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rest := string(p)
	for {
		i := strings.IndexAny(rest, "\r\n")
		if i < 0 {
			r.appendPartial(rest)
			return len(p), nil
		}
		r.appendPartial(rest[:i])
		// "\r\n" and blank lines carry nothing
		if r.partial.Len() > 0 {
			r.add(r.partial.String())
			r.partial.Reset()
		}
		rest = rest[i+1:]
	}
}

func (r *lineRing) appendPartial(s string) {
	if room := maxLineBytes - r.partial.Len(); len(s) > room {
		s = s[:room]
	}
	r.partial.WriteString(s)
}

func (r *lineRing) add(line string) {
	r.lines[r.pos] = line
	r.pos = (r.pos + 1) % len(r.lines)
	if r.pos == 0 {
		r.full = true
	}
}

// Lines returns the retained lines, oldest first, plus any unterminated trailing line.
func (r *lineRing) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []string
	if !r.full {
		res = append([]string(nil), r.lines[:r.pos]...)
	} else {
		res = make([]string, 0, len(r.lines)+1)
		res = append(res, r.lines[r.pos:]...)
		res = append(res, r.lines[:r.pos]...)
	}
	if r.partial.Len() > 0 {
		res = append(res, r.partial.String())
		if len(res) > len(r.lines) {
			res = res[1:]
		}
	}
	return res
}
