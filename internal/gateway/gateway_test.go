package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jomei/notionapi"

	"github.com/kud/referrals/internal/models"
)

type MockSource struct {
	ids      []string
	pages    map[string]notionapi.Properties
	queryErr error
	pageErr  map[string]error

	queries   atomic.Int32
	retrieves atomic.Int32
}

func (m *MockSource) QueryPageIDs(ctx context.Context, databaseID string) ([]string, error) {
	m.queries.Add(1)
	return m.ids, m.queryErr
}

func (m *MockSource) PageProperties(ctx context.Context, pageID string) (notionapi.Properties, error) {
	m.retrieves.Add(1)
	if err := m.pageErr[pageID]; err != nil {
		return nil, err
	}
	return m.pages[pageID], nil
}

func (m *MockSource) calls() int {
	return int(m.queries.Load() + m.retrieves.Load())
}

func referralPage(name, code, url, kind string) notionapi.Properties {
	props := notionapi.Properties{}
	if name != "" {
		props["name"] = &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: name}}}
	}
	if code != "" {
		props["code"] = &notionapi.RichTextProperty{RichText: []notionapi.RichText{{PlainText: code}}}
	}
	if url != "" {
		props["url"] = &notionapi.URLProperty{URL: url}
	}
	if kind != "" {
		props["type"] = &notionapi.SelectProperty{Select: notionapi.Option{Name: kind}}
	}
	return props
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(source PageSource, opts ...Option) *Gateway {
	cfg := Config{APIKey: "secret", DatabaseID: "db"}
	return New(cfg, source, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func TestFetchReferralsMissingAPIKey(t *testing.T) {
	source := &MockSource{ids: []string{"p1"}}
	g := New(Config{DatabaseID: "db"}, source, WithLogger(quietLogger()))

	_, err := g.FetchReferrals(context.Background())

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if diff := cmp.Diff([]string{"NOTION_API_KEY"}, cfgErr.Missing); diff != "" {
		t.Errorf("missing settings mismatch (-want +got):\n%s", diff)
	}
	if source.calls() != 0 {
		t.Errorf("expected no upstream calls, got %d", source.calls())
	}
}

func TestFetchReferralsMissingBoth(t *testing.T) {
	source := &MockSource{}
	g := New(Config{}, source, WithLogger(quietLogger()))

	_, err := g.FetchReferrals(context.Background())

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if len(cfgErr.Missing) != 2 {
		t.Errorf("expected both settings reported, got %v", cfgErr.Missing)
	}
	if source.calls() != 0 {
		t.Errorf("expected no upstream calls, got %d", source.calls())
	}
}

func TestFetchReferralsDecodesInQueryOrder(t *testing.T) {
	source := &MockSource{
		ids: []string{"p1", "p2", "p3"},
		pages: map[string]notionapi.Properties{
			"p1": referralPage("Alpha", "AL10", "https://a.example", "finance"),
			"p2": referralPage("Beta", "", "https://b.example", "tech"),
			"p3": referralPage("", "", "", ""),
		},
	}
	g := newTestGateway(source)

	records, err := g.FetchReferrals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.Record{
		{Name: "Alpha", Code: "AL10", URL: "https://a.example", Type: "finance"},
		{Name: "Beta", URL: "https://b.example", Type: "tech"},
		{},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if got := source.retrieves.Load(); got != 3 {
		t.Errorf("expected 3 page retrievals, got %d", got)
	}
}

func TestFetchReferralsEmptyDatabase(t *testing.T) {
	g := newTestGateway(&MockSource{})

	records, err := g.FetchReferrals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestFetchReferralsQueryFailure(t *testing.T) {
	upstream := errors.New("notion down")
	g := newTestGateway(&MockSource{queryErr: upstream})

	records, err := g.FetchReferrals(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if !errors.Is(err, upstream) {
		t.Error("expected FetchError to wrap the upstream error")
	}
	if records != nil {
		t.Error("expected no partial results")
	}
}

func TestFetchReferralsPageFailureAbortsAll(t *testing.T) {
	source := &MockSource{
		ids: []string{"p1", "p2"},
		pages: map[string]notionapi.Properties{
			"p1": referralPage("Alpha", "AL10", "", ""),
		},
		pageErr: map[string]error{"p2": errors.New("rate limited")},
	}
	g := newTestGateway(source)

	records, err := g.FetchReferrals(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.PageID != "p2" {
		t.Errorf("expected failing page p2, got %q", fetchErr.PageID)
	}
	if records != nil {
		t.Error("expected no partial results")
	}
}

type blockingSource struct {
	MockSource
	mu      sync.Mutex
	active  int
	maxSeen int
}

func (b *blockingSource) PageProperties(ctx context.Context, pageID string) (notionapi.Properties, error) {
	b.mu.Lock()
	b.active++
	if b.active > b.maxSeen {
		b.maxSeen = b.active
	}
	b.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	b.mu.Lock()
	b.active--
	b.mu.Unlock()
	return referralPage(pageID, "", "", ""), nil
}

func TestFetchReferralsBoundsConcurrency(t *testing.T) {
	source := &blockingSource{}
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		source.ids = append(source.ids, id)
	}
	g := New(Config{APIKey: "k", DatabaseID: "db", Concurrency: 2}, source, WithLogger(quietLogger()))

	records, err := g.FetchReferrals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("expected 6 records, got %d", len(records))
	}
	if source.maxSeen > 2 {
		t.Errorf("expected at most 2 concurrent retrievals, saw %d", source.maxSeen)
	}
	if records[5].Name != "f" {
		t.Errorf("expected query order preserved, got %q last", records[5].Name)
	}
}

func TestFetchReferralsRevalidate(t *testing.T) {
	source := &MockSource{
		ids:   []string{"p1"},
		pages: map[string]notionapi.Properties{"p1": referralPage("Alpha", "", "", "")},
	}
	g := newTestGateway(source, WithRevalidate(time.Hour))

	for i := 0; i < 3; i++ {
		if _, err := g.FetchReferrals(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := source.queries.Load(); got != 1 {
		t.Errorf("expected one upstream query within the revalidate window, got %d", got)
	}
}

func TestFetchReferralsWithoutRevalidateAlwaysFetches(t *testing.T) {
	source := &MockSource{ids: []string{}}
	g := newTestGateway(source)

	g.FetchReferrals(context.Background())
	g.FetchReferrals(context.Background())

	if got := source.queries.Load(); got != 2 {
		t.Errorf("expected 2 upstream queries, got %d", got)
	}
}

func TestFetchReferralsDoesNotCacheFailures(t *testing.T) {
	source := &MockSource{queryErr: errors.New("boom")}
	g := newTestGateway(source, WithRevalidate(time.Hour))

	if _, err := g.FetchReferrals(context.Background()); err == nil {
		t.Fatal("expected first fetch to fail")
	}

	source.queryErr = nil
	source.ids = []string{"p1"}
	source.pages = map[string]notionapi.Properties{"p1": referralPage("Alpha", "", "", "")}

	records, err := g.FetchReferrals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error after recovery: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestCustomSchema(t *testing.T) {
	source := &MockSource{
		ids: []string{"p1"},
		pages: map[string]notionapi.Properties{"p1": {
			"Service": &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "Alpha"}}},
		}},
	}
	cfg := Config{APIKey: "k", DatabaseID: "db", Schema: Schema{Name: "Service"}}
	g := New(cfg, source, WithLogger(quietLogger()))

	records, err := g.FetchReferrals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Name != "Alpha" {
		t.Errorf("expected name from custom property, got %q", records[0].Name)
	}
}
