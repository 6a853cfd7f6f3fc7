package answer

import (
	"math"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

const snippetRunes = 200

// FormatSources converts ranked candidates into the caller-facing view.
// Scores are rounded to 4 decimals.
func FormatSources(cands []domain.Candidate) []domain.Source {
	out := make([]domain.Source, 0, len(cands))
	for i := range cands {
		c := &cands[i]
		src := domain.Source{
			ID:             c.ID,
			Title:          c.Payload.Title,
			Snippet:        Truncate(c.Payload.Content, snippetRunes),
			Temporal:       domain.SourceTime{Period: c.Payload.Metadata.DisplayTime},
			RelevanceScore: RoundScore(c.Score),
		}
		if g := c.Payload.Geo; g != nil {
			src.Geo = domain.SourceGeo{Location: []float64{g.Lon, g.Lat}, Address: g.Address}
		}
		out = append(out, src)
	}
	return out
}

// RoundScore rounds to 4 decimal places.
func RoundScore(s float64) float64 {
	return math.Round(s*1e4) / 1e4
}

// Truncate cuts s to n runes and appends "..." when anything was removed.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func generationContexts(cands []domain.Candidate) []domain.GenerationContext {
	out := make([]domain.GenerationContext, len(cands))
	for i := range cands {
		p := &cands[i].Payload
		out[i] = domain.GenerationContext{
			Title:       p.Title,
			DisplayTime: p.Metadata.DisplayTime,
			Content:     p.Content,
		}
		if p.Geo != nil {
			out[i].Address = p.Geo.Address
		}
	}
	return out
}
