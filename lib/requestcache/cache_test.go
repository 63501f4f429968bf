package requestcache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheConstructors(t *testing.T) {
	testCases := []struct {
		name  string
		cache Cache
	}{
		{name: "empty", cache: NewCache()},
		{name: "from nil map", cache: NewCacheFrom(nil)},
		{name: "from map", cache: NewCacheFrom(map[string]string{"b": "2"})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.cache.Set("a", "1")
			body, ok := tc.cache.Get("a")
			require.True(t, ok)
			require.Equal(t, "1", body)
			require.Equal(t, "a", tc.cache.Keys()[0])
		})
	}
}
