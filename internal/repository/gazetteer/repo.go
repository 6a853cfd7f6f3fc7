// Package gazetteer resolves place names to coordinates from a Redis GEO set.
package gazetteer

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/geoknow/internal/db"
	"github.com/kailas-cloud/geoknow/internal/domain"
)

type store interface {
	GeoAdd(ctx context.Context, key string, members ...db.GeoMember) error
	GeoPos(ctx context.Context, key string, names ...string) ([]*db.GeoMember, error)
}

// Repo is a Redis-backed geocoder.
type Repo struct {
	store store
	key   string
}

// New creates a gazetteer over the default GEO key.
func New(s store) *Repo {
	return &Repo{store: s, key: domain.GazetteerKey}
}

// Geocode returns the coordinates of a known place. Unknown names report ok=false.
func (r *Repo) Geocode(ctx context.Context, place string) (lat, lon float64, ok bool, err error) {
	name := normalize(place)
	if name == "" {
		return 0, 0, false, nil
	}
	pos, err := r.store.GeoPos(ctx, r.key, name)
	if err != nil {
		return 0, 0, false, fmt.Errorf("geocode %q: %w", place, err)
	}
	if len(pos) == 0 || pos[0] == nil {
		return 0, 0, false, nil
	}
	return pos[0].Lat, pos[0].Lon, true, nil
}

// Add registers places under their address. Names are matched case-insensitively.
func (r *Repo) Add(ctx context.Context, places ...domain.GeoPoint) error {
	members := make([]db.GeoMember, 0, len(places))
	for _, p := range places {
		name := normalize(p.Address)
		if name == "" {
			continue
		}
		// GEOADD only accepts the Web Mercator latitude band
		if p.Lat < -85.05112878 || p.Lat > 85.05112878 || p.Lon < -180 || p.Lon > 180 {
			return fmt.Errorf("%w: place %q has unsupported coordinates", domain.ErrInvalidArgument, p.Address)
		}
		members = append(members, db.GeoMember{Name: name, Lat: p.Lat, Lon: p.Lon})
	}
	if len(members) == 0 {
		return nil
	}
	if err := r.store.GeoAdd(ctx, r.key, members...); err != nil {
		return fmt.Errorf("add places: %w", err)
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
