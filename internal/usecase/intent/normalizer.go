package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// Era is a named historical period. Years are astronomical: 1 BC is year 0.
type Era struct {
	Name      string
	Aliases   []string
	StartYear int
	EndYear   int
}

var (
	yearRangeRe = regexp.MustCompile(`^(\d{1,4})\s*(bce|bc|ce|ad)?\s*(?:-|–|~|to)\s*(\d{1,4})\s*(bce|bc|ce|ad)?$`)
	yearRe      = regexp.MustCompile(`^(\d{1,4})\s*(bce|bc|ce|ad)?$`)
	decadeRe    = regexp.MustCompile(`^(\d{2,3})0s$`)
)

// Normalizer resolves era names from a configured table and literal year,
// year-range and decade expressions.
type Normalizer struct {
	eras map[string]Era
}

// NewNormalizer indexes eras by lowercased name and aliases.
func NewNormalizer(eras []Era) *Normalizer {
	m := make(map[string]Era, len(eras))
	for _, e := range eras {
		m[strings.ToLower(e.Name)] = e
		for _, a := range e.Aliases {
			m[strings.ToLower(a)] = e
		}
	}
	return &Normalizer{eras: m}
}

// Normalize returns a year-aligned UTC range for expr.
func (n *Normalizer) Normalize(expr string) (*domain.TimeFilter, bool) {
	s := strings.ToLower(strings.TrimSpace(expr))
	s = strings.TrimSuffix(s, "年")
	if s == "" {
		return nil, false
	}

	if e, ok := n.eras[s]; ok {
		start, end := yearStart(e.StartYear), yearEnd(e.EndYear)
		return rangeFilter(start, end, domain.PrecisionEra, domain.PeriodLabel(e.Name, start, end))
	}

	if m := yearRangeRe.FindStringSubmatch(s); m != nil {
		fromSuffix, toSuffix := m[2], m[4]
		// "200-100 BC" carries the era suffix on the end year only
		if fromSuffix == "" {
			fromSuffix = toSuffix
		}
		from, ok1 := parseYear(m[1], fromSuffix)
		to, ok2 := parseYear(m[3], toSuffix)
		if !ok1 || !ok2 || from > to {
			return nil, false
		}
		return rangeFilter(yearStart(from), yearEnd(to), domain.PrecisionYear, strings.TrimSpace(expr))
	}

	if m := yearRe.FindStringSubmatch(s); m != nil {
		y, ok := parseYear(m[1], m[2])
		if !ok {
			return nil, false
		}
		return rangeFilter(yearStart(y), yearEnd(y), domain.PrecisionYear, strings.TrimSpace(expr))
	}

	if m := decadeRe.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		y := d * 10
		return rangeFilter(yearStart(y), yearEnd(y+9), domain.PrecisionDecade, strings.TrimSpace(expr))
	}

	return nil, false
}

func parseYear(digits, suffix string) (int, bool) {
	y, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	switch suffix {
	case "bc", "bce":
		if y == 0 {
			return 0, false
		}
		return 1 - y, true
	}
	return y, true
}

func rangeFilter(start, end int64, p domain.TimePrecision, display string) (*domain.TimeFilter, bool) {
	tf, err := domain.NewTimeFilter(start, end, p, display)
	if err != nil {
		return nil, false
	}
	return &tf, true
}

func yearStart(y int) int64 {
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
}

func yearEnd(y int) int64 {
	return time.Date(y, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
}
