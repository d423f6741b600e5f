package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id1 := GenerateID()
	id2 := GenerateID()

	if id1 == "" || id2 == "" {
		t.Fatal("expected non-empty IDs")
	}
	if id1 == id2 {
		t.Error("expected unique IDs")
	}
}

func TestLocalRepoID(t *testing.T) {
	id := LocalRepoID()

	if !strings.HasPrefix(id, "repo-") {
		t.Errorf("expected repo- prefix, got %s", id)
	}

	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("expected repo-<millis>-<suffix> shape, got %s", id)
	}
	if parts[2] == "" {
		t.Error("expected non-empty random suffix")
	}

	if LocalRepoID() == id {
		t.Error("expected distinct IDs across calls")
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("with custom writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		logger.Info("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output in buffer, got %q", buf.String())
		}
	})

	t.Run("with nil writer defaults to stderr", func(t *testing.T) {
		logger := NewLogger(nil)
		if logger == nil {
			t.Fatal("expected logger to be created")
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"stars": 3}

	t.Run("compact", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(out) != `{"stars":3}` {
			t.Errorf("unexpected compact output: %s", out)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(out), "\n") {
			t.Error("expected indented output")
		}
	})
}
