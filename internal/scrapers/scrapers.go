// Package scrapers holds what the individual site scrapers share.
//
// Every scraper here is read-only and mostly stateless: a method's output
// depends only on its input and on the pages the Fetcher hands back.
//
// Each scraping method has the same shape:
// 1. turn the input into an endpoint (and optionally query params).
// 2. ask the Fetcher for the body, which may come from the request cache.
// 3. parse the body with goquery selectors into the output structure.
//
// Step 3 is always exposed as a pure Parse* function over the raw body, so
// extraction can be tested against saved pages without any network.
package scrapers

import "context"

// Fetcher returns the raw body for a GET request.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params map[string]string) (string, error)
}
