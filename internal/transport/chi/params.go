package chi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/geoknow/internal/domain"
	searchuc "github.com/kailas-cloud/geoknow/internal/usecase/search"
)

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	// Keywords is a comma-separated list.
	Keywords  []string
	Lat       *float64
	Lon       *float64
	RadiusKm  *float64
	StartTime *int64
	EndTime   *int64
	Category  *string
	Limit     *int
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	q := r.URL.Query()

	binds := []struct {
		name    string
		explode bool
		dest    any
	}{
		{"keywords", false, &p.Keywords},
		{"lat", true, &p.Lat},
		{"lon", true, &p.Lon},
		{"radius_km", true, &p.RadiusKm},
		{"start_time", true, &p.StartTime},
		{"end_time", true, &p.EndTime},
		{"category", true, &p.Category},
		{"limit", true, &p.Limit},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", b.explode, false, b.name, q, b.dest); err != nil {
			return SearchParams{}, fmt.Errorf("invalid format for parameter %s: %w", b.name, err)
		}
	}
	return p, nil
}

// toRequest validates filters. Geo applies only when both lat and lon are set.
func (p SearchParams) toRequest() (*searchuc.Request, error) {
	req := &searchuc.Request{Keywords: p.Keywords}

	if p.Category != nil {
		req.Category = strings.TrimSpace(*p.Category)
	}
	if p.Limit != nil {
		req.Limit = *p.Limit
		if req.Limit <= 0 {
			return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidArgument)
		}
	}

	if p.Lat != nil && p.Lon != nil {
		radius := 0.0
		if p.RadiusKm != nil {
			radius = *p.RadiusKm
		}
		g, err := domain.NewGeoFilter(*p.Lat, *p.Lon, radius, "")
		if err != nil {
			return nil, err
		}
		req.Geo = &g
	} else if p.Lat != nil || p.Lon != nil {
		return nil, fmt.Errorf("%w: lat and lon must be given together", domain.ErrInvalidFilter)
	}

	tf, err := timeFilter(p.StartTime, p.EndTime, domain.PrecisionYear, "")
	if err != nil {
		return nil, err
	}
	req.Time = tf

	return req, nil
}
