package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Options select which lines Read returns.
type Options struct {
	MaxLines int
	// MinLevel drops slog text lines below this level ("warn" keeps WARN and
	// ERROR). Lines without a level= attribute are always kept.
	MinLevel string
}

// Read returns the last opts.MaxLines matching lines of the file at path,
// oldest first. A missing file yields no lines and no error.
func Read(path string, opts Options) ([]string, error) {
	if opts.MaxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	minRank := levelRank(opts.MinLevel)
	ring := newRing(opts.MaxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if minRank > 0 && lineRank(line) < minRank {
			continue
		}
		ring.push(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return ring.lines(), nil
}

type ring struct {
	buf   []string
	next  int
	count int
}

func newRing(size int) *ring {
	return &ring{buf: make([]string, size)}
}

func (r *ring) push(line string) {
	r.buf[r.next] = line
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

func (r *ring) lines() []string {
	out := make([]string, r.count)
	start := 0
	if r.count == len(r.buf) {
		start = r.next
	}
	for i := range out {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// lineRank extracts the level= attribute of a slog text line; unknown or
// missing levels rank highest so they are never filtered out.
func lineRank(line string) int {
	idx := strings.Index(line, "level=")
	if idx < 0 {
		return 100
	}
	rest := line[idx+len("level="):]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	if rank := levelRank(rest); rank > 0 {
		return rank
	}
	return 100
}

func levelRank(level string) int {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return 1
	case "INFO":
		return 2
	case "WARN", "WARNING":
		return 3
	case "ERROR":
		return 4
	default:
		return 0
	}
}
