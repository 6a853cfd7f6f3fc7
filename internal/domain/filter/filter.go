// Package filter describes the pre-filter applied before a KNN search.
// Backends render an Expression in their own query syntax.
package filter

import (
	"errors"
	"fmt"
	"math"
)

// MaxConditions bounds the clauses of one expression.
const MaxConditions = 16

// Condition is one clause: Tag, Between or Within.
type Condition interface {
	Field() string
	validate() error
}

// Tag matches documents whose tag field contains Value.
type Tag struct {
	Name  string
	Value string
}

// Between matches numeric fields inside a range. A nil bound is open.
type Between struct {
	Name         string
	Min, Max     *float64
	MinExclusive bool
	MaxExclusive bool
}

// Within matches geo fields within RadiusM meters of (Lat, Lon).
type Within struct {
	Name     string
	Lat, Lon float64
	RadiusM  float64
}

// Closed is Between with both bounds inclusive.
func Closed(name string, lo, hi float64) Between {
	return Between{Name: name, Min: &lo, Max: &hi}
}

func (t Tag) Field() string     { return t.Name }
func (b Between) Field() string { return b.Name }
func (w Within) Field() string  { return w.Name }

func (t Tag) validate() error {
	if t.Value == "" {
		return fmt.Errorf("tag %q: value is required", t.Name)
	}
	return nil
}

func (b Between) validate() error {
	if b.Min == nil && b.Max == nil {
		return fmt.Errorf("range %q: at least one bound is required", b.Name)
	}
	if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
		return fmt.Errorf("range %q: min %v exceeds max %v", b.Name, *b.Min, *b.Max)
	}
	return nil
}

func (w Within) validate() error {
	if !(math.Abs(w.Lat) <= 90 && math.Abs(w.Lon) <= 180) {
		return fmt.Errorf("geo %q: coordinates out of range", w.Name)
	}
	if !(w.RadiusM > 0) || math.IsInf(w.RadiusM, 0) {
		return fmt.Errorf("geo %q: radius must be positive", w.Name)
	}
	return nil
}

// Expression is a conjunction of conditions. The zero value matches everything.
type Expression struct {
	conds []Condition
}

// And validates conds and joins them.
func And(conds ...Condition) (Expression, error) {
	if len(conds) > MaxConditions {
		return Expression{}, fmt.Errorf("too many conditions (max %d)", MaxConditions)
	}
	for _, c := range conds {
		if c.Field() == "" {
			return Expression{}, errors.New("filter field is required")
		}
		if err := c.validate(); err != nil {
			return Expression{}, err
		}
	}
	return Expression{conds: conds}, nil
}

// Conditions returns the clauses in the order given to And.
func (e Expression) Conditions() []Condition { return e.conds }

// IsEmpty reports whether e has no clauses.
func (e Expression) IsEmpty() bool { return len(e.conds) == 0 }
