package requestcache

import (
	"os"
	"path/filepath"
	"testing"

	"herowiki/internal/components/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	tel := telemetry.NewRecorderAPI()
	store := NewStore(filepath.Join(t.TempDir(), "nested", "cache.json"), tel)

	cache := NewCache()
	cache.Set("https://x.test", "<html><body>index & more</body></html>")
	cache.Set("https://x.test/a_a_1_b_2", "{\"json\": true}")
	cache.Set("https://x.test/unicode", "Ana Amari (أنا عماري)")

	require.NoError(t, store.Save(cache))

	loaded := store.Load()
	diff := cmp.Diff(cache.Entries(), loaded.Entries())
	if diff != "" {
		t.Fatal(diff)
	}
	require.Empty(t, tel.Find("warning", report_store_load))
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"), telemetry.NewRecorderAPI())

	first := NewCache()
	first.Set("a", "1")
	first.Set("b", "2")
	require.NoError(t, store.Save(first))

	second := NewCache()
	second.Set("c", "3")
	require.NoError(t, store.Save(second))

	require.Equal(t, []string{"c"}, store.Load().Keys())
}

func TestStoreSavedFileIsReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	store := NewStore(path, telemetry.NewRecorderAPI())

	cache := NewCache()
	cache.Set("https://x.test", "<p>hi</p>")
	require.NoError(t, store.Save(cache))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"https://x.test\": \"<p>hi</p>\"\n}\n", string(contents))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestStoreLoadMissing(t *testing.T) {
	tel := telemetry.NewRecorderAPI()
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"), tel)

	cache := store.Load()
	require.Equal(t, 0, cache.Len())
	require.Empty(t, tel.Find("warning", report_store_load))
}

func TestStoreLoadCorrupt(t *testing.T) {
	testCases := []string{
		"",
		"{not json",
		"[1, 2, 3]",
		"{\"key\": 42}",
	}

	for _, contents := range testCases {
		path := filepath.Join(t.TempDir(), "cache.json")
		require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

		tel := telemetry.NewRecorderAPI()
		cache := NewStore(path, tel).Load()
		require.Equal(t, 0, cache.Len(), "contents: %q", contents)
		require.Len(t, tel.Find("warning", report_store_load), 1, "contents: %q", contents)

		cache.Set("usable", "yes")
		require.Equal(t, 1, cache.Len())
	}
}

func TestStoreSaveFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("a file, not a dir"), 0600))

	tel := telemetry.NewRecorderAPI()
	store := NewStore(filepath.Join(blocker, "cache.json"), tel)

	cache := NewCache()
	cache.Set("a", "1")
	require.Error(t, store.Save(cache))
	require.NotEmpty(t, tel.Find("broken", report_store_save))
}
