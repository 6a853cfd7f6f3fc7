package domain

import (
	"testing"
	"time"
)

func TestTemporal_DisplayTime(t *testing.T) {
	start := time.Date(1368, 1, 23, 0, 0, 0, 0, time.UTC).Unix()
	end := time.Date(1644, 4, 25, 0, 0, 0, 0, time.UTC).Unix()

	tests := []struct {
		name string
		t    Temporal
		want string
	}{
		{"dynasty", Temporal{Start: start, End: end, Dynasty: "Ming"}, "Ming(1368-1644)"},
		{"era only", Temporal{Start: start, End: end, Era: "Hongwu"}, "Hongwu"},
		{"dynasty wins over era", Temporal{Start: start, End: end, Dynasty: "Ming", Era: "Hongwu"}, "Ming(1368-1644)"},
		{"nothing", Temporal{Start: start, End: end}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.t.DisplayTime(); got != tc.want {
				t.Errorf("DisplayTime() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPayload_HasCategory(t *testing.T) {
	p := Payload{Category: []string{"history", "architecture"}}
	if !p.HasCategory("architecture") {
		t.Error("expected architecture to match")
	}
	if p.HasCategory("Architecture") {
		t.Error("category match is exact")
	}
}
