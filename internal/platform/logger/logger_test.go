package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestSlogLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "vetadmin", Out: &buf}).
		With(map[string]any{"sale_id": "s1"})

	l.Debug("ignored", nil)
	l.Info("sale paid", map[string]any{"paid": "45.00"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if entry["msg"] != "sale paid" || entry["sale_id"] != "s1" || entry["app"] != "vetadmin" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestSlogLogger_TextSortedKeys(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: FormatText, Out: &buf})

	l.Warn("stock low", map[string]any{"z": 1, "a": 2})

	line := buf.String()
	if strings.Index(line, "a=2") > strings.Index(line, "z=1") {
		t.Fatalf("keys not sorted: %q", line)
	}
}

func TestFromContext(t *testing.T) {
	if _, ok := FromContext(context.Background(), nil).(nopLogger); !ok {
		t.Fatalf("expected nop fallback")
	}

	l := Nop()
	ctx := IntoContext(context.Background(), l)
	if FromContext(ctx, nil) != l {
		t.Fatalf("expected logger from context")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": Debug, "": Info, "WARNING": Warn, "error": Error, "x": Info}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", in, got, want)
		}
	}
}
