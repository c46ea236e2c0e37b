package format

import (
	"testing"
	"time"
)

// IEC byte-size constants used by the test table.
const (
	PiB int64 = 1 << 50
	EiB int64 = 1 << 60
)

func TestBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048575, "1024.0 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
		{1099511627776, "1.0 TiB"},
		{PiB * 2, "2.0 PiB"},
		{EiB, "1.0 EiB"},
		{-2048, "-2.0 KiB"},
	}
	for _, tt := range tests {
		if got := Bytes(tt.bytes); got != tt.expected {
			t.Errorf("Bytes(%d) = %q, want %q", tt.bytes, got, tt.expected)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(42.25); got != "42.2%" && got != "42.3%" {
		t.Fatalf("unexpected percent %q", got)
	}
	if got := Percent(0); got != "0.0%" {
		t.Fatalf("unexpected percent %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("a", 3); got != "a  " {
		t.Fatalf("expected padding to width 3, got %q", got)
	}
	if got := PadRight("abcd", 3); got != "ab…" {
		t.Fatalf("expected truncation to width 3, got %q", got)
	}
	styled := "\x1b[1mab\x1b[0m"
	if got := DisplayWidth(PadRight(styled, 4)); got != 4 {
		t.Fatalf("styled padding width = %d", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("expected empty string for width 0, got %q", got)
	}
	if got := Truncate("abc", 2); got != "ab" {
		t.Fatalf("expected truncation to width 2, got %q", got)
	}
	if got := TruncateStyled("abcdef", 4); got != "abc…" {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if got := TruncateStyled("abc", 4); got != "abc" {
		t.Fatalf("short strings are kept, got %q", got)
	}
}

func TestPipes(t *testing.T) {
	tests := []struct {
		pipe string
		in   any
		want any
	}{
		{"bytes", 2048, "2.0 KiB"},
		{"bytes", "not a number", "not a number"},
		{"bytes", nil, nil},
		{"percent", 12.5, "12.5%"},
		{"perSecond", int64(1048576), "1.0 MiB/s"},
		{"age", time.Now().Add(-90 * time.Minute), "90m"},
		{"age", "2000-01-01T00:00:00Z", "26y"},
		{"age", true, true},
	}
	for _, tt := range tests {
		p, err := Pipe(tt.pipe)
		if err != nil {
			t.Fatalf("pipe %s: %v", tt.pipe, err)
		}
		got := p(tt.in)
		if tt.pipe == "age" && tt.in == "2000-01-01T00:00:00Z" {
			// years depend on the clock
			if s, ok := got.(string); !ok || s[len(s)-1] != 'y' {
				t.Errorf("age of 2000 = %v", got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("%s(%v) = %v, want %v", tt.pipe, tt.in, got, tt.want)
		}
	}

	if _, err := Pipe("furlongs"); err == nil {
		t.Fatal("expected error for unknown pipe")
	}
	if names := PipeNames(); len(names) != 4 || names[0] != "age" {
		t.Fatalf("unexpected pipe names %v", names)
	}
}
