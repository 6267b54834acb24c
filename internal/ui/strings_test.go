package ui

import (
	"testing"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"  padded  ", 10, "padded"},
		{"Wireless Headphones", 10, "Wireles..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateMiddleKeepsBothEnds(t *testing.T) {
	got := truncateMiddle("http://catalog.internal.example.com:5000", 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("truncateMiddle length = %d, want 20 (%q)", len([]rune(got)), got)
	}
	if got[:4] != "http" {
		t.Fatalf("truncateMiddle lost prefix: %q", got)
	}
	if got[len(got)-4:] != "5000" {
		t.Fatalf("truncateMiddle lost suffix: %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q, want %q", got, "ab  ")
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight should not cut, got %q", got)
	}
}

func TestFormatPrice(t *testing.T) {
	cases := map[float64]string{
		0:       "$0.00",
		1.5:     "$1.50",
		19.999:  "$20.00",
		1234.56: "$1234.56",
	}
	for in, want := range cases {
		if got := formatPrice(in); got != want {
			t.Fatalf("formatPrice(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCreated(t *testing.T) {
	p := catalog.Product{CreatedAt: "2024-03-05T12:00:00Z"}
	if got := formatCreated(p); got != "Mar 5, 2024" {
		t.Fatalf("formatCreated = %q, want %q", got, "Mar 5, 2024")
	}

	p.CreatedAt = "yesterday"
	if got := formatCreated(p); got != "yesterday" {
		t.Fatalf("formatCreated(unparseable) = %q, want raw value", got)
	}
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	if got := formatAgo(time.Time{}, now); got != "never" {
		t.Fatalf("formatAgo(zero) = %q", got)
	}
	if got := formatAgo(now.Add(-12*time.Second), now); got != "12s ago" {
		t.Fatalf("formatAgo(12s) = %q", got)
	}
	if got := formatAgo(now.Add(-3*time.Minute), now); got != "3m ago" {
		t.Fatalf("formatAgo(3m) = %q", got)
	}
}
