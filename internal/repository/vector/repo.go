package vector

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/geoknow/internal/db"
	"github.com/kailas-cloud/geoknow/internal/domain"
	"github.com/kailas-cloud/geoknow/internal/domain/filter"
)

// Hash field names of an indexed entry.
const (
	fieldTitle       = "title"
	fieldContent     = "content"
	fieldCategory    = "category"
	fieldTags        = "tags"
	fieldSource      = "source"
	fieldConfidence  = "confidence"
	fieldDisplayTime = "display_time"
	fieldAddress     = "address"
	fieldGeoPoint    = "geo_point"
	fieldStartTime   = "start_time"
	fieldEndTime     = "end_time"
	fieldVector      = "vector"
)

const tagSeparator = ","

var returnFields = []string{
	fieldTitle, fieldContent, fieldCategory, fieldTags, fieldSource, fieldConfidence,
	fieldDisplayTime, fieldAddress, fieldGeoPoint, fieldStartTime, fieldEndTime,
}

// store is the consumer interface for vector index operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	DropIndex(ctx context.Context, name string) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo is the vector retrieval client over the Redis query engine.
type Repo struct {
	store store
	index string
}

// New creates a vector repository over the default entry index.
func New(s store) *Repo {
	return &Repo{store: s, index: domain.VectorIndexName}
}

// EnsureIndex creates the entry index when it does not exist yet.
// With cfg.Recreate an existing index is dropped first.
func (r *Repo) EnsureIndex(ctx context.Context, cfg domain.VectorConfig) error {
	exists, err := r.store.IndexExists(ctx, r.index)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.index, err)
	}
	if exists && !cfg.Recreate {
		return nil
	}
	if exists {
		if err := r.store.DropIndex(ctx, r.index); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("drop index %s: %w", r.index, err)
		}
	}

	def, err := db.NewSchema(r.index).
		Over(domain.EntryKeyPrefix).
		Text(fieldTitle).
		Tags(tagSeparator, fieldCategory, fieldTags).
		Numeric(fieldStartTime, fieldEndTime).
		Geo(fieldGeoPoint).
		Vector(fieldVector, db.HNSW{
			Dim:            cfg.Dimensions,
			Distance:       db.DistanceCosine,
			M:              cfg.HNSWM,
			EFConstruction: cfg.EFConstruct,
		}).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", r.index, err)
	}
	return nil
}

// Search returns up to limit nearest entries that satisfy the present filters,
// most similar first. Score is the cosine similarity, Scored is set.
func (r *Repo) Search(
	ctx context.Context, vec []float32,
	geo *domain.GeoFilter, tf *domain.TimeFilter, category string, limit int,
) ([]domain.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	expr, err := buildFilters(geo, tf, category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		Index:  r.index,
		Field:  fieldVector,
		Filter: expr,
		Vector: vec,
		K:      limit,
		Return: returnFields,
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("%w: vector index %s: %w", domain.ErrNotConfigured, r.index, err)
		}
		return nil, fmt.Errorf("search knn %s: %w", r.index, err)
	}

	return parseResults(sr), nil
}

// Upsert writes the entry hash with its embedding. The hash key is derived from entry.ID.
func (r *Repo) Upsert(ctx context.Context, e *domain.Entry, embedding []float32) error {
	if e.ID == "" {
		return fmt.Errorf("%w: entry id is required", domain.ErrInvalidArgument)
	}
	if len(embedding) == 0 {
		return fmt.Errorf("%w: embedding is required", domain.ErrInvalidArgument)
	}

	if err := r.store.HSet(ctx, domain.EntryKeyPrefix+e.ID, entryFields(e, embedding)); err != nil {
		return fmt.Errorf("upsert entry %s: %w", e.ID, err)
	}
	return nil
}

// Get reads one indexed entry. Score is zero and Scored is unset.
func (r *Repo) Get(ctx context.Context, id string) (domain.Candidate, error) {
	if id == "" {
		return domain.Candidate{}, fmt.Errorf("%w: entry id is required", domain.ErrInvalidArgument)
	}
	fields, err := r.store.HGetAll(ctx, domain.EntryKeyPrefix+id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Candidate{}, fmt.Errorf("%w: entry %s", domain.ErrNotFound, id)
		}
		return domain.Candidate{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	return domain.Candidate{
		ID:      id,
		Origin:  domain.OriginVector,
		Payload: parsePayload(fields),
	}, nil
}

func buildFilters(geo *domain.GeoFilter, tf *domain.TimeFilter, category string) (filter.Expression, error) {
	var conds []filter.Condition
	if geo != nil {
		conds = append(conds, filter.Within{Name: fieldGeoPoint, Lat: geo.Lat, Lon: geo.Lon, RadiusM: geo.RadiusMeters()})
	}
	if tf != nil {
		conds = append(conds, filter.Closed(fieldStartTime, float64(tf.Start), float64(tf.End)))
	}
	if category != "" {
		conds = append(conds, filter.Tag{Name: fieldCategory, Value: category})
	}
	if len(conds) == 0 {
		return filter.Expression{}, nil
	}
	return filter.And(conds...)
}

func parseResults(sr *db.SearchResult) []domain.Candidate {
	if sr == nil || len(sr.Hits) == 0 {
		return nil
	}

	out := make([]domain.Candidate, 0, len(sr.Hits))
	for _, hit := range sr.Hits {
		id := strings.TrimPrefix(hit.Key, domain.EntryKeyPrefix)
		if id == "" {
			continue
		}
		out = append(out, domain.Candidate{
			ID:      id,
			Score:   hit.Similarity,
			Scored:  true,
			Origin:  domain.OriginVector,
			Payload: parsePayload(hit.Fields),
		})
	}

	slices.SortStableFunc(out, func(a, b domain.Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

func parsePayload(fields map[string]string) domain.Payload {
	p := domain.Payload{
		Title:    fields[fieldTitle],
		Content:  fields[fieldContent],
		Category: splitTags(fields[fieldCategory]),
		Tags:     splitTags(fields[fieldTags]),
		Metadata: domain.Metadata{
			Source:      fields[fieldSource],
			DisplayTime: fields[fieldDisplayTime],
		},
	}

	if v, ok := parseFloat(fields[fieldConfidence]); ok {
		p.Metadata.Confidence = &v
	}
	if v, ok := parseInt(fields[fieldStartTime]); ok {
		p.StartTime = &v
	}
	if v, ok := parseInt(fields[fieldEndTime]); ok {
		p.EndTime = &v
	}
	if lat, lon, ok := parseGeoPoint(fields[fieldGeoPoint]); ok {
		p.Geo = &domain.GeoPoint{Lat: lat, Lon: lon, Address: fields[fieldAddress]}
	}

	return p
}

func entryFields(e *domain.Entry, embedding []float32) map[string]string {
	fields := map[string]string{
		fieldTitle:   e.Title,
		fieldContent: e.Content,
		fieldVector:  string(db.EncodeFloat32(embedding)),
	}
	if len(e.Category) > 0 {
		fields[fieldCategory] = strings.Join(e.Category, tagSeparator)
	}
	if len(e.Tags) > 0 {
		fields[fieldTags] = strings.Join(e.Tags, tagSeparator)
	}
	if e.Source != "" {
		fields[fieldSource] = e.Source
	}
	if e.Confidence != nil {
		fields[fieldConfidence] = strconv.FormatFloat(*e.Confidence, 'f', -1, 64)
	}
	if e.Geo != nil {
		fields[fieldGeoPoint] = strconv.FormatFloat(e.Geo.Lon, 'f', -1, 64) + "," +
			strconv.FormatFloat(e.Geo.Lat, 'f', -1, 64)
		if e.Geo.Address != "" {
			fields[fieldAddress] = e.Geo.Address
		}
	}
	if e.Temporal != nil {
		fields[fieldStartTime] = strconv.FormatInt(e.Temporal.Start, 10)
		fields[fieldEndTime] = strconv.FormatInt(e.Temporal.End, 10)
		if label := e.Temporal.DisplayTime(); label != "" {
			fields[fieldDisplayTime] = label
		}
	}
	return fields
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, tagSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseGeoPoint reads the "lon,lat" GEO field format.
func parseGeoPoint(s string) (lat, lon float64, ok bool) {
	lonStr, latStr, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, false
	}
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if errLon != nil || errLat != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func parseInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// tolerate numeric fields written as floats
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, false
		}
		return int64(f), true
	}
	return v, true
}
