package redis

import (
	"context"
	"strconv"

	"github.com/kailas-cloud/geoknow/internal/db"
)

// CreateIndex runs FT.CREATE for def over hashes.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	cmd := s.b().Arbitrary("FT.CREATE").Args(createArgs(def)...).Build()
	err := s.do(ctx, cmd).Error()
	switch {
	case err == nil:
		return nil
	case isRedisErr(err, "index already exists"):
		return db.ErrIndexExists
	}
	return &db.Error{Op: db.OpCreateIndex, Key: def.Name, Err: err}
}

// DropIndex runs FT.DROPINDEX. Indexed hashes are left in place.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	err := s.do(ctx, s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()).Error()
	switch {
	case err == nil:
		return nil
	case isUnknownIndex(err):
		return db.ErrIndexNotFound
	}
	return &db.Error{Op: db.OpDropIndex, Key: name, Err: err}
}

// IndexExists asks FT.INFO about name.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	err := s.do(ctx, s.b().Arbitrary("FT.INFO").Args(name).Build()).Error()
	switch {
	case err == nil:
		return true, nil
	case isUnknownIndex(err):
		return false, nil
	}
	return false, &db.Error{Op: db.OpIndexInfo, Key: name, Err: err}
}

// Redis 8 answers "Unknown index name", older RediSearch builds "no such index".
func isUnknownIndex(err error) bool {
	return isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index")
}

// createArgs renders a validated definition as FT.CREATE arguments.
func createArgs(def *db.IndexDefinition) []string {
	args := []string{def.Name, "ON", "HASH"}
	if len(def.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(def.Prefixes)))
		args = append(args, def.Prefixes...)
	}
	args = append(args, "SCHEMA")
	for i := range def.Fields {
		args = append(args, fieldArgs(&def.Fields[i])...)
	}
	return args
}

func fieldArgs(f *db.Field) []string {
	args := []string{f.Name, string(f.Type)}
	switch f.Type {
	case db.FieldTag:
		if f.Separator != "" {
			args = append(args, "SEPARATOR", f.Separator)
		}
	case db.FieldVector:
		args = args[:1]
		args = append(args, hnswArgs(f.HNSW)...)
	}
	return args
}

// hnswArgs renders "VECTOR HNSW <n> TYPE FLOAT32 DIM d DISTANCE_METRIC m [M x] [EF_CONSTRUCTION y]".
func hnswArgs(p *db.HNSW) []string {
	distance := p.Distance
	if distance == "" {
		distance = db.DistanceCosine
	}
	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(p.Dim),
		"DISTANCE_METRIC", string(distance),
	}
	if p.M > 0 {
		attrs = append(attrs, "M", strconv.Itoa(p.M))
	}
	if p.EFConstruction > 0 {
		attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(p.EFConstruction))
	}
	return append([]string{"VECTOR", "HNSW", strconv.Itoa(len(attrs))}, attrs...)
}
