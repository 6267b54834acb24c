package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shelf.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}
	return path
}

func TestRead(t *testing.T) {
	var all []string
	for i := 1; i <= 10; i++ {
		all = append(all, fmt.Sprintf("Line %d", i))
	}
	path := writeLog(t, all)

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"zero", 0, nil},
		{"negative", -1, nil},
		{"partial", 5, all[5:]},
		{"exactly all", 10, all},
		{"more than exists", 20, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(path, Options{MaxLines: tt.maxLines})
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Read(%d) = %v, want %v", tt.maxLines, got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFileIsEmpty(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), Options{MaxLines: 5})
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Read = %v, want empty", got)
	}
}

func TestRead_FiltersByLevel(t *testing.T) {
	path := writeLog(t, []string{
		`time=t level=DEBUG msg="products refreshed"`,
		`time=t level=INFO msg="product created"`,
		`time=t level=WARN msg="Failed to fetch products"`,
		``,
		`panic: something without a level`,
		`time=t level=ERROR msg=boom`,
	})

	got, err := Read(path, Options{MaxLines: 10, MinLevel: "warn"})
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := []string{
		`time=t level=WARN msg="Failed to fetch products"`,
		`panic: something without a level`,
		`time=t level=ERROR msg=boom`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Read = %v, want %v", got, want)
	}
}

func TestRead_TailAfterFilter(t *testing.T) {
	path := writeLog(t, []string{
		"level=ERROR msg=1",
		"level=INFO msg=2",
		"level=ERROR msg=3",
		"level=ERROR msg=4",
	})
	got, err := Read(path, Options{MaxLines: 2, MinLevel: "error"})
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"level=ERROR msg=3", "level=ERROR msg=4"}) {
		t.Fatalf("Read = %v", got)
	}
}
