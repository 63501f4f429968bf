package requestcache

import (
	"context"
	"fmt"
	"time"

	"herowiki/internal/components/chrono"
	"herowiki/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("herowiki/requestcache")
var meter = otel.Meter("herowiki/requestcache")

var hitCounter, _ = meter.Int64Counter("requestcache.hits")
var missCounter, _ = meter.Int64Counter("requestcache.misses")

// DefaultPoliteness is how long a cache miss waits before going to the network.
const DefaultPoliteness = time.Second

// DefaultHeaders identify the scraper to the sites it visits.
var DefaultHeaders = map[string]string{
	"User-Agent":  "herowiki - Overwatch Hero Wiki scraper",
	"From":        "herowiki@example.com",
	"Course-Info": "https://si.umich.edu/programs/courses/507",
}

const report_fetcher_fetch = "fetcher.fetch"

// HTTPError is returned when the remote answers with a non-2xx status.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

type FetcherOptions struct {
	// Headers replaces DefaultHeaders when non-nil.
	Headers map[string]string
	// Politeness defaults to DefaultPoliteness when zero, a negative value
	// disables the pause.
	Politeness time.Duration
	// Timeout bounds a single request, zero leaves the client default (none).
	Timeout time.Duration
	// Clock defaults to chrono.StandardImpl.
	Clock chrono.API
	// DumpOutput receives full HTTP exchanges when set.
	DumpOutput telemetry.MessageOutput
}

// Fetcher returns response bodies for GET requests, answering from its Cache
// when it can and persisting every new body through its Store.
//
// A Fetcher is meant to be created once at startup and handed to every
// scraper, it is not safe for concurrent use.
type Fetcher struct {
	cache      Cache
	store      Store
	http       *resty.Client
	clock      chrono.API
	politeness time.Duration
	tel        telemetry.API

	hits   int64
	misses int64
}

// NewFetcher loads the persisted cache from `store` and prepares an HTTP client.
func NewFetcher(store Store, tel telemetry.API, opts FetcherOptions) *Fetcher {
	tel = telemetry.NewScopedAPI("request_cache", tel)

	headers := opts.Headers
	if headers == nil {
		headers = DefaultHeaders
	}
	politeness := opts.Politeness
	if politeness == 0 {
		politeness = DefaultPoliteness
	}
	if politeness < 0 {
		politeness = 0
	}
	clock := opts.Clock
	if clock == nil {
		clock = chrono.StandardImpl{}
	}

	client := resty.New()
	client.SetHeaders(headers)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	telemetry.InstrumentResty(client, tel, "herowiki/requestcache/http", opts.DumpOutput)

	return &Fetcher{
		cache:      store.Load(),
		store:      store,
		http:       client,
		clock:      clock,
		politeness: politeness,
		tel:        tel,
	}
}

// Cache exposes the cache owned by the fetcher.
func (f *Fetcher) Cache() Cache {
	return f.cache
}

// Stats returns how many fetches were served from the cache and from the network.
func (f *Fetcher) Stats() (hits, misses int64) {
	return f.hits, f.misses
}

// Fetch returns the body for `endpoint` with `params` attached as a query string.
//
// On a cache hit the stored body is returned immediately. On a miss the
// fetcher sleeps for its politeness interval, performs the request, stores
// the body and rewrites the cache file before returning. Network errors,
// non-2xx responses and cache write failures are returned to the caller,
// nothing is cached for a failed request.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string, params map[string]string) (string, error) {
	ctx, span := tracer.Start(ctx, "fetcher:fetch")
	defer span.End()

	key := BuildKey(endpoint, params)
	span.SetAttributes(attribute.String("herowiki.cache_key", key))

	body, ok := f.cache.Get(key)
	if ok {
		f.hits++
		hitCounter.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("herowiki.cache_hit", true))
		f.tel.ReportDebug("using cache", key)
		f.tel.ReportCount("fetcher.hits", f.hits)
		return body, nil
	}

	f.misses++
	missCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
	span.SetAttributes(attribute.Bool("herowiki.cache_hit", false))
	f.tel.ReportDebug("fetching", key)
	f.tel.ReportCount("fetcher.misses", f.misses)

	if f.politeness > 0 {
		f.clock.Sleep(f.politeness)
	}

	req := f.http.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}
	res, err := req.Get(endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		err := &HTTPError{
			URL:        endpoint,
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		f.tel.ReportWarning(report_fetcher_fetch, err)
		return "", err
	}

	body = string(res.Body())
	f.cache.Set(key, body)
	err = f.store.Save(f.cache)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist cache")
		return "", fmt.Errorf("persist cache: %w", err)
	}

	return body, nil
}
