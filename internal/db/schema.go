package db

import (
	"errors"
	"fmt"
)

// FieldType is a search index attribute type. Values are the FT.CREATE keywords.
type FieldType string

const (
	FieldNumeric FieldType = "NUMERIC"
	FieldTag     FieldType = "TAG"
	FieldText    FieldType = "TEXT"
	// FieldGeo holds "lon,lat" strings.
	FieldGeo    FieldType = "GEO"
	FieldVector FieldType = "VECTOR"
)

// Distance is the vector similarity metric.
type Distance string

const (
	DistanceCosine Distance = "COSINE"
	DistanceL2     Distance = "L2"
	DistanceIP     Distance = "IP"
)

// HNSW configures a FLOAT32 vector attribute. Zero M or EFConstruction
// leaves the server default in place.
type HNSW struct {
	Dim            int
	Distance       Distance
	M              int
	EFConstruction int
}

// Field is one attribute of an index schema. Separator applies to tags,
// HNSW to vectors.
type Field struct {
	Name      string
	Type      FieldType
	Separator string
	HNSW      *HNSW
}

// IndexDefinition describes an index over hashes whose keys start with one
// of Prefixes.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []Field
}

// Validate rejects definitions the server would refuse.
func (d *IndexDefinition) Validate() error {
	if d.Name == "" {
		return errors.New("index name is required")
	}
	if !validName(d.Name) {
		return fmt.Errorf("index name %q contains invalid characters", d.Name)
	}
	if len(d.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]struct{}, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("field %d: name is required", i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = struct{}{}

		switch f.Type {
		case FieldNumeric, FieldTag, FieldText, FieldGeo:
		case FieldVector:
			if f.HNSW == nil || f.HNSW.Dim <= 0 {
				return fmt.Errorf("vector field %q requires a positive dimension", f.Name)
			}
		default:
			return fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
		}
	}
	return nil
}

// validName accepts [a-zA-Z0-9_:-]+.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == ':', r == '-':
		default:
			return false
		}
	}
	return true
}

// Schema assembles an IndexDefinition field by field.
type Schema struct {
	def IndexDefinition
}

// NewSchema starts a definition for the index called name.
func NewSchema(name string) *Schema {
	return &Schema{def: IndexDefinition{Name: name}}
}

// Over restricts the index to keys with the given prefixes.
func (s *Schema) Over(prefixes ...string) *Schema {
	s.def.Prefixes = append(s.def.Prefixes, prefixes...)
	return s
}

// Numeric adds NUMERIC attributes.
func (s *Schema) Numeric(names ...string) *Schema {
	return s.add(FieldNumeric, names...)
}

// Text adds TEXT attributes.
func (s *Schema) Text(names ...string) *Schema {
	return s.add(FieldText, names...)
}

// Geo adds GEO attributes.
func (s *Schema) Geo(names ...string) *Schema {
	return s.add(FieldGeo, names...)
}

// Tags adds TAG attributes split on sep. An empty sep keeps the server default.
func (s *Schema) Tags(sep string, names ...string) *Schema {
	for _, n := range names {
		s.def.Fields = append(s.def.Fields, Field{Name: n, Type: FieldTag, Separator: sep})
	}
	return s
}

// Vector adds an HNSW vector attribute.
func (s *Schema) Vector(name string, p HNSW) *Schema {
	s.def.Fields = append(s.def.Fields, Field{Name: name, Type: FieldVector, HNSW: &p})
	return s
}

// Build validates and returns the definition.
func (s *Schema) Build() (*IndexDefinition, error) {
	if err := s.def.Validate(); err != nil {
		return nil, err
	}
	def := s.def
	return &def, nil
}

func (s *Schema) add(t FieldType, names ...string) *Schema {
	for _, n := range names {
		s.def.Fields = append(s.def.Fields, Field{Name: n, Type: t})
	}
	return s
}
