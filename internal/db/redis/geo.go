package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/geoknow/internal/db"
)

// GeoAdd inserts or updates named coordinates in a GEO set.
func (s *Store) GeoAdd(ctx context.Context, key string, members ...db.GeoMember) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]string, 0, len(members)*3)
	for _, m := range members {
		args = append(args, formatFloat(m.Lon), formatFloat(m.Lat), m.Name)
	}
	cmd := s.b().Arbitrary("GEOADD").Keys(key).Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpGeoAdd, Err: err}
	}
	return nil
}

// GeoPos looks up coordinates for names. The result is aligned with names;
// unknown members are nil.
func (s *Store) GeoPos(ctx context.Context, key string, names ...string) ([]*db.GeoMember, error) {
	if len(names) == 0 {
		return nil, nil
	}
	cmd := s.b().Arbitrary("GEOPOS").Keys(key).Args(names...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpGeoPos, Err: err}
	}
	if len(raw) != len(names) {
		return nil, &db.Error{Op: db.OpGeoPos, Err: fmt.Errorf("expected %d positions, got %d", len(names), len(raw))}
	}

	out := make([]*db.GeoMember, len(names))
	for i := range raw {
		if raw[i].IsNil() {
			continue
		}
		pair, err := raw[i].ToArray()
		if err != nil || len(pair) != 2 {
			continue
		}
		lon, errLon := pair[0].AsFloat64()
		lat, errLat := pair[1].AsFloat64()
		if errLon != nil || errLat != nil {
			continue
		}
		out[i] = &db.GeoMember{Name: names[i], Lat: lat, Lon: lon}
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
