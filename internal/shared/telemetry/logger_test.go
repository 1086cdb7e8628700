package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestWriteEmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Warn("task.failed", map[string]any{"task_id": "t1", "error": errors.New("boom"), "level": "ignored"})

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if got["level"] != "warn" || got["msg"] != "task.failed" {
		t.Fatalf("unexpected envelope: %v", got)
	}
	if got["task_id"] != "t1" || got["error"] != "boom" {
		t.Fatalf("unexpected fields: %v", got)
	}
}
