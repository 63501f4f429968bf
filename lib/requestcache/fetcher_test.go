package requestcache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"herowiki/internal/components/chrono"
	"herowiki/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

type countingServer struct {
	*httptest.Server
	requests []*http.Request
}

func newCountingServer(t testing.TB, handler http.HandlerFunc) *countingServer {
	s := &countingServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests = append(s.requests, r.Clone(context.Background()))
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestFetcher(t testing.TB, path string) (*Fetcher, *chrono.FakeImpl) {
	clock := &chrono.FakeImpl{}
	fetcher := NewFetcher(
		NewStore(path, telemetry.NewRecorderAPI()),
		telemetry.NewRecorderAPI(),
		FetcherOptions{Clock: clock},
	)
	return fetcher, clock
}

func TestFetchCachesBody(t *testing.T) {
	server := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>index</html>")
	})
	path := filepath.Join(t.TempDir(), "cache.json")
	fetcher, clock := newTestFetcher(t, path)
	ctx := context.Background()

	body, err := fetcher.Fetch(ctx, server.URL, nil)
	require.NoError(t, err)
	require.Equal(t, "<html>index</html>", body)
	require.Len(t, server.requests, 1)
	require.Equal(t, []time.Duration{DefaultPoliteness}, clock.Slept)

	cached, ok := fetcher.Cache().Get(server.URL)
	require.True(t, ok)
	require.Equal(t, body, cached)

	persisted := NewStore(path, telemetry.NewRecorderAPI()).Load()
	require.Equal(t, []string{server.URL}, persisted.Keys())

	again, err := fetcher.Fetch(ctx, server.URL, nil)
	require.NoError(t, err)
	require.Equal(t, body, again)
	require.Len(t, server.requests, 1)
	require.Len(t, clock.Slept, 1)

	hits, misses := fetcher.Stats()
	require.Equal(t, int64(1), hits)
	require.Equal(t, int64(1), misses)
}

func TestFetchSendsParamsAndHeaders(t *testing.T) {
	server := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.URL.Query().Get("hero"))
	})
	fetcher, _ := newTestFetcher(t, filepath.Join(t.TempDir(), "cache.json"))
	ctx := context.Background()

	body, err := fetcher.Fetch(ctx, server.URL+"/stats", map[string]string{"hero": "ana", "mode": "ranked"})
	require.NoError(t, err)
	require.Equal(t, "ana", body)

	req := server.requests[0]
	require.Equal(t, http.MethodGet, req.Method)
	require.Equal(t, "ranked", req.URL.Query().Get("mode"))
	for name, value := range DefaultHeaders {
		require.Equal(t, value, req.Header.Get(name), name)
	}

	_, ok := fetcher.Cache().Get(server.URL + "/stats_hero_ana_mode_ranked")
	require.True(t, ok)

	_, err = fetcher.Fetch(ctx, server.URL+"/stats", map[string]string{"mode": "ranked", "hero": "ana"})
	require.NoError(t, err)
	require.Len(t, server.requests, 1)
}

func TestFetchSurvivesRestart(t *testing.T) {
	server := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "page")
	})
	path := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	first, _ := newTestFetcher(t, path)
	_, err := first.Fetch(ctx, server.URL, nil)
	require.NoError(t, err)

	second, clock := newTestFetcher(t, path)
	body, err := second.Fetch(ctx, server.URL, nil)
	require.NoError(t, err)
	require.Equal(t, "page", body)
	require.Len(t, server.requests, 1)
	require.Empty(t, clock.Slept)
}

func TestFetchErrorStatusIsNotCached(t *testing.T) {
	server := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	path := filepath.Join(t.TempDir(), "cache.json")
	fetcher, _ := newTestFetcher(t, path)
	ctx := context.Background()

	_, err := fetcher.Fetch(ctx, server.URL, nil)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	require.Equal(t, 0, fetcher.Cache().Len())

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	_, err = fetcher.Fetch(ctx, server.URL, nil)
	require.Error(t, err)
	require.Len(t, server.requests, 2)
}

func TestFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	fetcher, _ := newTestFetcher(t, filepath.Join(t.TempDir(), "cache.json"))
	_, err := fetcher.Fetch(context.Background(), url, nil)
	require.Error(t, err)
	require.Equal(t, 0, fetcher.Cache().Len())
}

func TestFetchSaveFailurePropagates(t *testing.T) {
	server := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "page")
	})
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	fetcher, _ := newTestFetcher(t, filepath.Join(blocker, "cache.json"))
	_, err := fetcher.Fetch(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "persist cache")
}

func TestFetchWithoutPoliteness(t *testing.T) {
	server := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "page")
	})
	clock := &chrono.FakeImpl{}
	fetcher := NewFetcher(
		NewStore(filepath.Join(t.TempDir(), "cache.json"), telemetry.NewRecorderAPI()),
		telemetry.NewRecorderAPI(),
		FetcherOptions{Clock: clock, Politeness: -1},
	)

	_, err := fetcher.Fetch(context.Background(), server.URL, nil)
	require.NoError(t, err)
	require.Len(t, server.requests, 1)
	require.Empty(t, clock.Slept)
}

func TestFetchKeepsRawBody(t *testing.T) {
	const page = "\n<html>index</html>\n\n"
	server := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	})
	path := filepath.Join(t.TempDir(), "cache.json")
	fetcher, _ := newTestFetcher(t, path)

	body, err := fetcher.Fetch(context.Background(), server.URL, nil)
	require.NoError(t, err)
	require.Equal(t, page, body)

	persisted, ok := NewStore(path, telemetry.NewRecorderAPI()).Load().Get(server.URL)
	require.True(t, ok)
	require.Equal(t, page, persisted)
}
