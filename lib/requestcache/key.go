package requestcache

import (
	"sort"
	"strings"
)

const keySeparator = "_"

// BuildKey derives the cache key for a request from its endpoint and query params.
//
// A nil params map yields the endpoint unchanged. Otherwise every pair becomes
// "name_value", the pairs are sorted and joined with "_", and the result is
// appended to "endpoint_". Sorting makes the key independent of the order the
// params were inserted in.
//
// Values containing "_" can make two differently shaped requests share a key.
// This is accepted, the keys only have to be stable, not injective.
func BuildKey(endpoint string, params map[string]string) string {
	if params == nil {
		return endpoint
	}

	tokens := make([]string, 0, len(params))
	for name, value := range params {
		tokens = append(tokens, name+keySeparator+value)
	}
	sort.Strings(tokens)

	return endpoint + keySeparator + strings.Join(tokens, keySeparator)
}
