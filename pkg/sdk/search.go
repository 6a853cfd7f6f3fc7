package geoknow

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Search runs a filtered search. With keywords the server ranks by
// semantic similarity inside the filters; without them it lists matches
// from the structured store.
func (c *Client) Search(ctx context.Context, p *SearchParams) (_ *SearchResult, err error) {
	defer func(start time.Time) { c.obs.observe("search", start, err) }(time.Now())

	var res SearchResult
	if _, err := c.doJSON(ctx, http.MethodGet, apiPrefix+"/search", p.values(), nil, http.StatusOK, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (p *SearchParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	var kw []string
	for _, k := range p.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			kw = append(kw, k)
		}
	}
	if len(kw) > 0 {
		v.Set("keywords", strings.Join(kw, ","))
	}
	setFloat(v, "lat", p.Lat)
	setFloat(v, "lon", p.Lon)
	setFloat(v, "radius_km", p.RadiusKm)
	if p.StartTime != nil {
		v.Set("start_time", strconv.FormatInt(*p.StartTime, 10))
	}
	if p.EndTime != nil {
		v.Set("end_time", strconv.FormatInt(*p.EndTime, 10))
	}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

func setFloat(v url.Values, key string, f *float64) {
	if f != nil {
		v.Set(key, strconv.FormatFloat(*f, 'f', -1, 64))
	}
}
