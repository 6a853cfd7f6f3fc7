package db

import (
	"strings"
	"testing"
)

func TestSchema_EntryIndex(t *testing.T) {
	def, err := NewSchema("geoknow:entries:idx").
		Over("geoknow:entry:").
		Text("title").
		Tags(",", "category", "tags").
		Numeric("start_time", "end_time").
		Geo("geo_point").
		Vector("vector", HNSW{Dim: 1536, Distance: DistanceCosine, M: 16, EFConstruction: 200}).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTypes := []FieldType{FieldText, FieldTag, FieldTag, FieldNumeric, FieldNumeric, FieldGeo, FieldVector}
	if len(def.Fields) != len(wantTypes) {
		t.Fatalf("fields = %d, want %d", len(def.Fields), len(wantTypes))
	}
	for i, want := range wantTypes {
		if def.Fields[i].Type != want {
			t.Errorf("field %d (%s) type = %s, want %s", i, def.Fields[i].Name, def.Fields[i].Type, want)
		}
	}
	if def.Fields[2].Name != "tags" || def.Fields[2].Separator != "," {
		t.Errorf("unexpected tag field %+v", def.Fields[2])
	}

	v := def.Fields[6].HNSW
	if v == nil || v.Dim != 1536 || v.Distance != DistanceCosine || v.M != 16 || v.EFConstruction != 200 {
		t.Errorf("unexpected vector params %+v", v)
	}
	if len(def.Prefixes) != 1 || def.Prefixes[0] != "geoknow:entry:" {
		t.Errorf("prefixes = %v", def.Prefixes)
	}
}

func TestSchema_BuildCopies(t *testing.T) {
	s := NewSchema("idx").Numeric("a")
	first, err := s.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Name = "changed"

	second, err := s.Numeric("b").Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Name != "idx" || len(second.Fields) != 2 {
		t.Errorf("unexpected definition %+v", second)
	}
}

func TestIndexDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     IndexDefinition
		wantErr string
	}{
		{"empty name", IndexDefinition{Fields: []Field{{Name: "x", Type: FieldTag}}}, "name is required"},
		{"bad name", IndexDefinition{Name: "idx with spaces", Fields: []Field{{Name: "x", Type: FieldTag}}}, "invalid characters"},
		{"bad name symbol", IndexDefinition{Name: "idx/1", Fields: []Field{{Name: "x", Type: FieldTag}}}, "invalid characters"},
		{"no fields", IndexDefinition{Name: "idx"}, "at least one field"},
		{"blank field", IndexDefinition{Name: "idx", Fields: []Field{{Type: FieldTag}}}, "field 0: name is required"},
		{"duplicate", IndexDefinition{Name: "idx", Fields: []Field{
			{Name: "t", Type: FieldNumeric}, {Name: "t", Type: FieldText},
		}}, "duplicate field"},
		{"vector without params", IndexDefinition{Name: "idx", Fields: []Field{
			{Name: "v", Type: FieldVector},
		}}, "positive dimension"},
		{"vector zero dim", IndexDefinition{Name: "idx", Fields: []Field{
			{Name: "v", Type: FieldVector, HNSW: &HNSW{}},
		}}, "positive dimension"},
		{"unknown type", IndexDefinition{Name: "idx", Fields: []Field{
			{Name: "f", Type: "BLOB"},
		}}, "unknown type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidName(t *testing.T) {
	for _, s := range []string{"geoknow:entries:idx", "a-b_c", "X1"} {
		if !validName(s) {
			t.Errorf("validName(%q) = false", s)
		}
	}
	for _, s := range []string{"", "a b", "idx*", "idx/1"} {
		if validName(s) {
			t.Errorf("validName(%q) = true", s)
		}
	}
}
