package vector

import (
	"context"
	"testing"

	"github.com/kailas-cloud/geoknow/internal/db"
)

// fakeStore answers with an empty index that exists until a hook says
// otherwise.
type fakeStore struct {
	onSearch  func(context.Context, *db.KNNQuery) (*db.SearchResult, error)
	onCreate  func(context.Context, *db.IndexDefinition) error
	onExists  func(context.Context, string) (bool, error)
	onDrop    func(context.Context, string) error
	onHSet    func(context.Context, string, map[string]string) error
	onHGetAll func(context.Context, string) (map[string]string, error)
}

func (f *fakeStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if f.onSearch == nil {
		return &db.SearchResult{}, nil
	}
	return f.onSearch(ctx, q)
}

func (f *fakeStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if f.onCreate == nil {
		return nil
	}
	return f.onCreate(ctx, def)
}

func (f *fakeStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if f.onExists == nil {
		return true, nil
	}
	return f.onExists(ctx, name)
}

func (f *fakeStore) DropIndex(ctx context.Context, name string) error {
	if f.onDrop == nil {
		return nil
	}
	return f.onDrop(ctx, name)
}

func (f *fakeStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if f.onHSet == nil {
		return nil
	}
	return f.onHSet(ctx, key, fields)
}

func (f *fakeStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if f.onHGetAll == nil {
		return nil, db.ErrKeyNotFound
	}
	return f.onHGetAll(ctx, key)
}

func newTestRepo(t *testing.T) (*Repo, *fakeStore) {
	t.Helper()
	fs := &fakeStore{}
	return New(fs), fs
}

// testVector is a 4-dimensional query embedding.
func testVector() []float32 { return []float32{0.1, 0.2, 0.3, 0.4} }
