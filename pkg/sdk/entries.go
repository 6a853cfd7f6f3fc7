package geoknow

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AddEntry ingests one knowledge entry and returns its id.
func (c *Client) AddEntry(ctx context.Context, e *Entry) (_ string, err error) {
	defer func(start time.Time) { c.obs.observe("add_entry", start, err) }(time.Now())

	if e == nil || strings.TrimSpace(e.Title) == "" || strings.TrimSpace(e.Content) == "" {
		return "", fmt.Errorf("%w: entry title and content are required", ErrInvalidArgument)
	}

	var res struct {
		ID string `json:"id"`
	}
	if _, err := c.doJSON(ctx, http.MethodPost, apiPrefix+"/entries", nil, e, http.StatusCreated, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

// GetEntry reads an entry back by id. A missing entry matches ErrNotFound.
func (c *Client) GetEntry(ctx context.Context, id string) (_ *StoredEntry, err error) {
	defer func(start time.Time) { c.obs.observe("get_entry", start, err) }(time.Now())

	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: entry id is required", ErrInvalidArgument)
	}

	var res StoredEntry
	path := apiPrefix + "/entries/" + url.PathEscape(id)
	if _, err := c.doJSON(ctx, http.MethodGet, path, nil, nil, http.StatusOK, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
