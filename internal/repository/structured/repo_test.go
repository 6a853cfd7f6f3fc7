package structured

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/geoknow/internal/domain"
)

// --- query building ---

func TestBuildSearchQuery_NoFilters(t *testing.T) {
	sql, args := buildSearchQuery(nil, nil, "", 8)
	if strings.Contains(sql, "WHERE") {
		t.Errorf("unexpected WHERE clause in %q", sql)
	}
	if !strings.Contains(sql, "DISTINCT ON (e.id)") || !strings.HasSuffix(sql, "LIMIT @limit") {
		t.Errorf("unexpected query %q", sql)
	}
	if args["limit"] != 8 || len(args) != 1 {
		t.Errorf("unexpected args %v", args)
	}
}

func TestBuildSearchQuery_AllFilters(t *testing.T) {
	geo, _ := domain.NewGeoFilter(39.9, 116.4, 5, "")
	tf, _ := domain.NewTimeFilter(-100, 200, domain.PrecisionYear, "")

	sql, args := buildSearchQuery(&geo, &tf, "history", 4)
	for _, want := range []string{"ST_DWithin(", "t.start_time <=", "t.end_time >=", "@category = ANY(e.category)"} {
		if !strings.Contains(sql, want) {
			t.Errorf("missing %q in %q", want, sql)
		}
	}
	if strings.Count(sql, "AND") < 3 {
		t.Errorf("expected predicates to be ANDed: %q", sql)
	}
	if args["radius_m"] != 5000.0 || args["lat"] != 39.9 || args["lon"] != 116.4 {
		t.Errorf("unexpected geo args %v", args)
	}
	if args["start_ts"] != -100.0 || args["end_ts"] != 200.0 {
		t.Errorf("unexpected time args %v", args)
	}
	if args["category"] != "history" {
		t.Errorf("unexpected category arg %v", args["category"])
	}
}

func TestBuildSearchQuery_OnlyCategory(t *testing.T) {
	sql, args := buildSearchQuery(nil, nil, "art", 2)
	if strings.Contains(sql, "ST_DWithin") || strings.Contains(sql, "start_time <=") {
		t.Errorf("absent filters must not add predicates: %q", sql)
	}
	if _, ok := args["lat"]; ok {
		t.Error("unexpected lat arg")
	}
}

// --- Search ---

func TestSearch_MapsRows(t *testing.T) {
	point, err := encodePoint(39.9163, 116.3972)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	rows := &fakeRows{data: [][]any{
		{
			"e1", "Forbidden City", "Imperial palace.", []string{"history"}, []string{"palace"},
			"wiki", 0.9,
			point, "Beijing",
			int64(-17000000000), int64(-10000000000), "Ming", nil,
		},
		{
			"e2", "Untimed", "No joins.", nil, nil,
			nil, nil,
			nil, nil,
			nil, nil, nil, nil,
		},
	}}

	var gotSQL string
	repo := New(&fakePool{queryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
		gotSQL = sql
		if len(args) != 1 {
			t.Fatalf("expected NamedArgs only, got %d args", len(args))
		}
		return rows, nil
	}})

	got, err := repo.Search(context.Background(), nil, nil, "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSQL == "" || !rows.closed {
		t.Error("expected query executed and rows closed")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}

	c := got[0]
	if c.Origin != domain.OriginStructured || c.Scored || c.Score != 0 {
		t.Errorf("unexpected score fields %+v", c)
	}
	if c.Payload.Geo == nil || c.Payload.Geo.Lat != 39.9163 || c.Payload.Geo.Lon != 116.3972 {
		t.Errorf("unexpected geo %+v", c.Payload.Geo)
	}
	if c.Payload.Geo.Address != "Beijing" {
		t.Errorf("address = %q", c.Payload.Geo.Address)
	}
	if !strings.HasPrefix(c.Payload.Metadata.DisplayTime, "Ming(") {
		t.Errorf("display time = %q", c.Payload.Metadata.DisplayTime)
	}
	if c.Payload.Metadata.Confidence == nil || *c.Payload.Metadata.Confidence != 0.9 {
		t.Errorf("confidence = %v", c.Payload.Metadata.Confidence)
	}

	bare := got[1].Payload
	if bare.Geo != nil || bare.StartTime != nil || bare.EndTime != nil || bare.Metadata.DisplayTime != "" {
		t.Errorf("expected empty optionals, got %+v", bare)
	}
}

func TestSearch_NullContent(t *testing.T) {
	rows := &fakeRows{data: [][]any{
		{
			"e3", "Untitled", nil, nil, nil,
			nil, nil,
			nil, nil,
			nil, nil, nil, nil,
		},
	}}
	repo := New(&fakePool{queryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
		return rows, nil
	}})

	got, err := repo.Search(context.Background(), nil, nil, "", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e3" {
		t.Fatalf("unexpected candidates %+v", got)
	}
	if got[0].Payload.Content != "" || got[0].Payload.Title != "Untitled" {
		t.Errorf("unexpected payload %+v", got[0].Payload)
	}
}

func TestFakeRows_NullIntoString(t *testing.T) {
	var s string
	if err := assign(&s, nil); err == nil {
		t.Error("expected error scanning NULL into string")
	}
}

func TestSearch_QueryError(t *testing.T) {
	boom := errors.New("connection refused")
	repo := New(&fakePool{queryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
		return nil, boom
	}})
	if _, err := repo.Search(context.Background(), nil, nil, "", 4); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestSearch_RowsError(t *testing.T) {
	boom := errors.New("broken pipe")
	repo := New(&fakePool{queryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
		return &fakeRows{err: boom}, nil
	}})
	if _, err := repo.Search(context.Background(), nil, nil, "", 4); !errors.Is(err, boom) {
		t.Errorf("expected rows error, got %v", err)
	}
}

func TestSearch_BadGeometry(t *testing.T) {
	rows := &fakeRows{data: [][]any{{
		"e1", "t", "c", nil, nil, nil, nil,
		[]byte{0x01, 0x02}, nil,
		nil, nil, nil, nil,
	}}}
	repo := New(&fakePool{queryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
		return rows, nil
	}})
	if _, err := repo.Search(context.Background(), nil, nil, "", 4); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSearch_ZeroLimit(t *testing.T) {
	repo := New(&fakePool{queryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
		t.Fatal("pool must not be called")
		return nil, nil
	}})
	if got, err := repo.Search(context.Background(), nil, nil, "", 0); got != nil || err != nil {
		t.Errorf("expected nil, nil; got %v, %v", got, err)
	}
}

// --- Insert ---

func TestInsert_FullEntry(t *testing.T) {
	tx := &fakeTx{}
	repo := New(&fakePool{beginFn: func(context.Context) (pgx.Tx, error) { return tx, nil }})

	e := &domain.Entry{
		ID:       "e1",
		Title:    "Forbidden City",
		Content:  "Imperial palace.",
		Geo:      &domain.GeoPoint{Lat: 39.9163, Lon: 116.3972, Address: "Beijing"},
		Temporal: &domain.Temporal{Start: -17000000000, End: -10000000000, Dynasty: "Ming"},
	}
	if err := repo.Insert(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tx.execs) != 3 || !tx.committed {
		t.Fatalf("expected 3 statements committed, got %d (committed=%v)", len(tx.execs), tx.committed)
	}
	if cat, ok := tx.args[0]["category"].([]string); !ok || cat == nil {
		t.Errorf("category must be a non-nil slice, got %#v", tx.args[0]["category"])
	}

	lat, lon, err := decodePoint(tx.args[1]["wkb"].([]byte))
	if err != nil || lat != 39.9163 || lon != 116.3972 {
		t.Errorf("geo wkb round trip = %f,%f,%v", lat, lon, err)
	}
	if tx.args[2]["precision"] != "year" {
		t.Errorf("precision = %v, want year default", tx.args[2]["precision"])
	}
}

func TestInsert_ChildRowsGetOwnIDs(t *testing.T) {
	tx := &fakeTx{}
	repo := New(&fakePool{beginFn: func(context.Context) (pgx.Tx, error) { return tx, nil }})
	var n int
	repo.newID = func() string {
		n++
		return fmt.Sprintf("child-%d", n)
	}

	e := &domain.Entry{
		ID:       "e1",
		Title:    "Forbidden City",
		Geo:      &domain.GeoPoint{Lat: 39.9163, Lon: 116.3972},
		Temporal: &domain.Temporal{Start: -17000000000, End: -10000000000},
	}
	if err := repo.Insert(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tx.args) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(tx.args))
	}
	for i, want := range []string{"child-1", "child-2"} {
		args := tx.args[i+1]
		if args["id"] != want || args["entry_id"] != "e1" {
			t.Errorf("statement %d: id=%v entry_id=%v", i+2, args["id"], args["entry_id"])
		}
		if !strings.Contains(tx.execs[i+1], "(id, entry_id,") {
			t.Errorf("statement %d must insert the primary key: %q", i+2, tx.execs[i+1])
		}
	}
}

func TestNew_GeneratesUUIDs(t *testing.T) {
	id := New(&fakePool{}).newID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("newID() = %q: %v", id, err)
	}
}

func TestInsert_EntryOnly(t *testing.T) {
	tx := &fakeTx{}
	repo := New(&fakePool{beginFn: func(context.Context) (pgx.Tx, error) { return tx, nil }})

	if err := repo.Insert(context.Background(), &domain.Entry{ID: "e2", Title: "t"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tx.execs) != 1 {
		t.Errorf("expected only the entry insert, got %d", len(tx.execs))
	}
}

func TestInsert_RollsBackOnFailure(t *testing.T) {
	tx := &fakeTx{failOn: 2}
	repo := New(&fakePool{beginFn: func(context.Context) (pgx.Tx, error) { return tx, nil }})

	e := &domain.Entry{ID: "e1", Geo: &domain.GeoPoint{Lat: 1, Lon: 2}}
	if err := repo.Insert(context.Background(), e); err == nil {
		t.Fatal("expected error")
	}
	if tx.committed || !tx.rolled {
		t.Errorf("expected rollback, committed=%v rolled=%v", tx.committed, tx.rolled)
	}
}

func TestInsert_RequiresID(t *testing.T) {
	repo := New(&fakePool{})
	if err := repo.Insert(context.Background(), &domain.Entry{}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPointRoundTrip(t *testing.T) {
	b, err := encodePoint(-33.8568, 151.2153)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	lat, lon, err := decodePoint(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lat != -33.8568 || lon != 151.2153 {
		t.Errorf("got %f,%f", lat, lon)
	}
}
