package retrieval

import (
	"fmt"
	"testing"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

func TestMerge_VectorPrecedence(t *testing.T) {
	out := merge(
		[]domain.Candidate{vecHit("a", 0.9), vecHit("b", 0.4)},
		[]domain.Candidate{structHit("b"), structHit("c")},
	)

	if len(out) != 3 {
		t.Fatalf("expected 3 merged, got %d", len(out))
	}
	for i, id := range []string{"a", "b", "c"} {
		if out[i].ID != id {
			t.Errorf("out[%d].ID = %q, want %q", i, out[i].ID, id)
		}
	}
	if out[1].Score != 0.4 || !out[1].Scored || out[1].Origin != domain.OriginVector {
		t.Errorf("shared id must keep the vector hit, got %+v", out[1])
	}
}

func TestMerge_UniqueIDsAndSizeBound(t *testing.T) {
	for n := 0; n < 6; n++ {
		t.Run(fmt.Sprintf("overlap=%d", n), func(t *testing.T) {
			var vec, st []domain.Candidate
			for i := 0; i < 5; i++ {
				vec = append(vec, vecHit(fmt.Sprintf("v%d", i), 0.5))
			}
			for i := 0; i < 5; i++ {
				id := fmt.Sprintf("s%d", i)
				if i < n {
					id = fmt.Sprintf("v%d", i)
				}
				st = append(st, structHit(id))
			}
			// duplicates inside one source collapse too
			vec = append(vec, vecHit("v0", 0.1))

			out := merge(vec, st)
			if len(out) > len(vec)+len(st) {
				t.Fatalf("merged %d exceeds input %d", len(out), len(vec)+len(st))
			}
			seen := map[string]bool{}
			for _, c := range out {
				if seen[c.ID] {
					t.Fatalf("duplicate id %q", c.ID)
				}
				seen[c.ID] = true
			}
			if len(out) != 10-n {
				t.Errorf("expected %d unique, got %d", 10-n, len(out))
			}
			if out[0].Score != 0.5 {
				t.Errorf("first occurrence wins, got score %v", out[0].Score)
			}
		})
	}
}

func TestMerge_Empty(t *testing.T) {
	if out := merge(nil, nil); len(out) != 0 {
		t.Errorf("expected empty, got %d", len(out))
	}
}

func TestMerge_DoesNotAliasInput(t *testing.T) {
	vec := []domain.Candidate{vecHit("a", 0.9)}
	out := merge(vec, nil)
	out[0].Score = 0.1
	if vec[0].Score != 0.9 {
		t.Error("merge must copy candidates")
	}
}
