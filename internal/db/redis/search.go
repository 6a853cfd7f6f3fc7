package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/geoknow/internal/db"
	"github.com/kailas-cloud/geoknow/internal/domain/filter"
)

// distanceAlias names the KNN distance in the reply.
const distanceAlias = "__vector_score"

// SearchKNN runs a pre-filtered HNSW query with FT.SEARCH, dialect 2.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	switch {
	case q.Index == "":
		return nil, errors.New("index name is required")
	case len(q.Vector) == 0:
		return nil, errors.New("vector is required")
	case q.K <= 0:
		return nil, errors.New("k must be positive")
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(searchArgs(q)...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isUnknownIndex(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Key: q.Index, Err: err}
	}
	return parseHits(raw)
}

// knnClause renders "<prefilter>=>[KNN k @field $BLOB AS __vector_score]".
func knnClause(q *db.KNNQuery) string {
	field := q.Field
	if field == "" {
		field = "vector"
	}
	pre := "*"
	if f := renderFilter(q.Filter); f != "" {
		pre = "(" + f + ")"
	}
	return fmt.Sprintf("%s=>[KNN %d @%s $BLOB AS %s]", pre, q.K, field, distanceAlias)
}

func searchArgs(q *db.KNNQuery) []string {
	args := []string{q.Index, knnClause(q)}
	if len(q.Return) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.Return)+1), distanceAlias)
		args = append(args, q.Return...)
	}
	return append(args,
		"SORTBY", distanceAlias, "ASC",
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", string(db.EncodeFloat32(q.Vector)),
		"DIALECT", "2",
	)
}

// parseHits reads a RESP2 reply: [total, key1, [f, v, ...], key2, [...], ...].
func parseHits(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	res := &db.SearchResult{Total: int(total), Hits: make([]db.Hit, 0, (len(raw)-1)/2)}
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		pairs, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		hit := db.Hit{Key: key, Fields: fieldMap(pairs)}
		if d, ok := hit.Fields[distanceAlias]; ok {
			if dist, err := strconv.ParseFloat(d, 64); err == nil {
				hit.Similarity = max(0, 1-dist)
			}
			delete(hit.Fields, distanceAlias)
		}
		res.Hits = append(res.Hits, hit)
	}
	return res, nil
}

func fieldMap(pairs []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(pairs)/2)
	for j := 0; j+1 < len(pairs); j += 2 {
		name, errName := pairs[j].ToString()
		value, errValue := pairs[j+1].ToString()
		if errName == nil && errValue == nil {
			m[name] = value
		}
	}
	return m
}

// renderFilter intersects the clauses of expr in query syntax.
func renderFilter(expr filter.Expression) string {
	parts := make([]string, 0, len(expr.Conditions()))
	for _, c := range expr.Conditions() {
		switch c := c.(type) {
		case filter.Tag:
			parts = append(parts, fmt.Sprintf("@%s:{%s}", c.Name, tagEscaper.Replace(c.Value)))
		case filter.Between:
			parts = append(parts, numericClause(c))
		case filter.Within:
			parts = append(parts, fmt.Sprintf("@%s:[%s %s %s m]",
				c.Name, formatFloat(c.Lon), formatFloat(c.Lat), formatFloat(c.RadiusM)))
		}
	}
	return strings.Join(parts, " ")
}

// numericClause formats bounds in plain decimal; %g would turn pre-epoch
// timestamps into rounded exponent form.
func numericClause(b filter.Between) string {
	lo, hi := "-inf", "+inf"
	if b.Min != nil {
		lo = formatFloat(*b.Min)
		if b.MinExclusive {
			lo = "(" + lo
		}
	}
	if b.Max != nil {
		hi = formatFloat(*b.Max)
		if b.MaxExclusive {
			hi = "(" + hi
		}
	}
	return fmt.Sprintf("@%s:[%s %s]", b.Name, lo, hi)
}

// tagEscaper escapes the punctuation and spaces the query parser treats
// specially inside {...}.
var tagEscaper = func() *strings.Replacer {
	const special = ",.<>{}[]\"':;!@#$%^&*()-+=~| "
	pairs := make([]string, 0, 2*len(special))
	for _, r := range special {
		pairs = append(pairs, string(r), `\`+string(r))
	}
	return strings.NewReplacer(pairs...)
}()
