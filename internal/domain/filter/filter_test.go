package filter

import (
	"math"
	"strings"
	"testing"
)

func ptr(f float64) *float64 { return &f }

func TestAnd_Valid(t *testing.T) {
	expr, err := And(
		Tag{Name: "category", Value: "history"},
		Closed("start_time", -100, 200),
		Within{Name: "geo_point", Lat: 39.9163, Lon: 116.3972, RadiusM: 5000},
		Between{Name: "confidence", Min: ptr(0.5), MinExclusive: true},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := expr.Conditions()
	if len(got) != 4 || expr.IsEmpty() {
		t.Fatalf("unexpected expression %+v", expr)
	}
	fields := []string{"category", "start_time", "geo_point", "confidence"}
	for i, want := range fields {
		if got[i].Field() != want {
			t.Errorf("condition %d field = %q, want %q", i, got[i].Field(), want)
		}
	}
}

func TestAnd_Empty(t *testing.T) {
	expr, err := And()
	if err != nil || !expr.IsEmpty() {
		t.Errorf("expected empty expression, got %+v, %v", expr, err)
	}
	if !(Expression{}).IsEmpty() {
		t.Error("zero expression should be empty")
	}
}

func TestAnd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want string
	}{
		{"blank field", Tag{Value: "x"}, "field is required"},
		{"blank tag", Tag{Name: "category"}, "value is required"},
		{"open range", Between{Name: "t"}, "at least one bound"},
		{"inverted range", Closed("t", 10, 1), "exceeds"},
		{"bad lat", Within{Name: "g", Lat: 100, RadiusM: 1}, "out of range"},
		{"bad lon", Within{Name: "g", Lon: 200, RadiusM: 1}, "out of range"},
		{"zero radius", Within{Name: "g"}, "radius must be positive"},
		{"NaN radius", Within{Name: "g", RadiusM: math.NaN()}, "radius must be positive"},
		{"infinite radius", Within{Name: "g", RadiusM: math.Inf(1)}, "radius must be positive"},
		{"NaN lat", Within{Name: "g", Lat: math.NaN(), RadiusM: 1}, "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := And(tt.cond)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestAnd_TooMany(t *testing.T) {
	conds := make([]Condition, MaxConditions+1)
	for i := range conds {
		conds[i] = Tag{Name: "k", Value: "v"}
	}
	if _, err := And(conds...); err == nil || !strings.Contains(err.Error(), "too many") {
		t.Fatalf("expected too many error, got %v", err)
	}
	if _, err := And(conds[:MaxConditions]...); err != nil {
		t.Fatalf("unexpected error at max: %v", err)
	}
}

func TestClosed(t *testing.T) {
	b := Closed("start_time", -100, 200)
	if b.Min == nil || *b.Min != -100 || b.Max == nil || *b.Max != 200 {
		t.Errorf("unexpected bounds %+v", b)
	}
	if b.MinExclusive || b.MaxExclusive {
		t.Error("closed range must be inclusive")
	}
}
