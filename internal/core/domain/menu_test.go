package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestPositivePercentage(t *testing.T) {
	tests := []struct {
		positive, total int
		want            string
	}{
		{0, 0, "0%"},
		{1, 2, "50%"},
		{2, 3, "67%"},
		{1, 3, "33%"},
		{3, 3, "100%"},
		{0, 5, "0%"},
		{1, 8, "13%"}, // 12.5 rounds up
		{6, 7, "86%"},
	}

	for _, tt := range tests {
		if got := PositivePercentage(tt.positive, tt.total); got != tt.want {
			t.Fatalf("PositivePercentage(%d, %d): expected %s, got %s", tt.positive, tt.total, tt.want, got)
		}
	}
}

func TestParseReportPeriod(t *testing.T) {
	for _, s := range []string{"daily", "weekly", "monthly"} {
		p, err := ParseReportPeriod(s)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", s, err)
		}
		if p.Filename() != "analytics-report-"+s+".csv" {
			t.Fatalf("unexpected filename %s", p.Filename())
		}
	}

	if _, err := ParseReportPeriod("yearly"); !errors.Is(err, ErrInvalidReportPeriod) {
		t.Fatalf("expected ErrInvalidReportPeriod, got %v", err)
	}
}

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2025-05-01T12:30:00Z"`, time.Date(2025, 5, 1, 12, 30, 0, 0, time.UTC)},
		{`"2025-05-01T12:30:00.123456"`, time.Date(2025, 5, 1, 12, 30, 0, 123456000, time.UTC)},
		{`"2025-05-01T20:30:00+08:00"`, time.Date(2025, 5, 1, 12, 30, 0, 0, time.UTC)},
		{`"2025-05-01"`, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{`null`, time.Time{}},
	}

	for _, tt := range tests {
		var ts Timestamp
		if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
			t.Fatalf("%s: unexpected error %v", tt.in, err)
		}
		if !ts.Equal(tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.in, tt.want, ts.Time)
		}
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatalf("expected error for unparseable timestamp")
	}
}
