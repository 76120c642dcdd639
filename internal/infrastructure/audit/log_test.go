package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
)

func TestLogRepository_Record(t *testing.T) {
	var buf bytes.Buffer
	repo := NewLogRepository(zerolog.New(&buf))

	err := repo.Record(context.Background(), domain.AuditEvent{
		Action:    domain.AuditRoleChanged,
		ActorID:   1,
		ActorName: "root",
		Target:    "user:5",
		Details:   map[string]any{"role": "clerk"},
		At:        time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["action"] != "staff.role_changed" || line["target"] != "user:5" || line["role"] != "clerk" {
		t.Fatalf("unexpected log line: %v", line)
	}
}
