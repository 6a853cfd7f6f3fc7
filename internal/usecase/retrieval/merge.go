package retrieval

import "github.com/kailas-cloud/geoknow/internal/domain"

// merge deduplicates by id. Vector hits are inserted first and keep their score;
// structured hits only fill ids that are still absent. The returned slice is in
// first-seen order, which rerank uses as its tie-break.
func merge(vectorResults, structuredResults []domain.Candidate) []*domain.Candidate {
	seen := make(map[string]struct{}, len(vectorResults)+len(structuredResults))
	out := make([]*domain.Candidate, 0, len(vectorResults)+len(structuredResults))

	add := func(list []domain.Candidate) {
		for i := range list {
			c := list[i]
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, &c)
		}
	}

	add(vectorResults)
	add(structuredResults)
	return out
}
