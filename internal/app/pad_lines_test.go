package app

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestPadLinesPadsToWidth(t *testing.T) {
	out := padLines([]string{"ab", "abcd"}, 5)
	for _, line := range strings.Split(out, "\n") {
		if xansi.StringWidth(line) != 5 {
			t.Fatalf("expected width 5, got %q", line)
		}
	}
}

func TestFitLines(t *testing.T) {
	if got := fitLines("a\nb\nc", 2); len(got) != 2 || got[1] != "b" {
		t.Fatalf("expected cut to 2 lines, got %#v", got)
	}
	if got := fitLines("a", 3); len(got) != 3 || got[2] != "" {
		t.Fatalf("expected pad to 3 lines, got %#v", got)
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "hello", width: 10, want: "hello"},
		{in: "hello world", width: 6, want: "hello…"},
		{in: "hello", width: 1, want: "…"},
		{in: "hello", width: 0, want: "hello"},
	}
	for _, tt := range tests {
		if got := truncateToWidth(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncateToWidth(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
