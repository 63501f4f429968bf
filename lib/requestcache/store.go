package requestcache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"herowiki/internal/components/telemetry"
)

const DefaultPath = "cache.json"

const (
	report_store_load = "store.load"
	report_store_save = "store.save"
)

// Store persists a whole Cache as a single JSON object on disk.
type Store struct {
	Path string
	tel  telemetry.API
}

func NewStore(path string, tel telemetry.API) Store {
	if path == "" {
		path = DefaultPath
	}
	return Store{
		Path: path,
		tel:  telemetry.NewScopedAPI("request_cache", tel),
	}
}

// Load reads the persisted cache. A missing or unreadable file yields an
// empty cache instead of an error, the worst case is that pages get fetched again.
func (s Store) Load() Cache {
	contents, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		s.tel.ReportDebug("no cache file, starting empty", s.Path)
		return NewCache()
	}
	if err != nil {
		s.tel.ReportWarning(report_store_load, fmt.Errorf("read %s: %w", s.Path, err))
		return NewCache()
	}

	var entries map[string]string
	err = json.Unmarshal(contents, &entries)
	if err != nil {
		s.tel.ReportWarning(report_store_load, fmt.Errorf("decode %s: %w", s.Path, err))
		return NewCache()
	}

	s.tel.ReportCount("store.entries", int64(len(entries)))
	return NewCacheFrom(entries)
}

// Save serializes the entire cache and replaces the file at Path.
// The contents are written to a sibling temp file first, so a failed write
// never leaves a truncated cache behind.
func (s Store) Save(cache Cache) error {
	buf := bytes.NewBuffer(nil)
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(cache.entries)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	dir := filepath.Dir(s.Path)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		s.tel.ReportBroken(report_store_save, err)
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		s.tel.ReportBroken(report_store_save, err)
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	err = tmp.Chmod(0644)
	if err != nil {
		tmp.Close()
		s.tel.ReportBroken(report_store_save, err)
		return fmt.Errorf("chmod temp cache file: %w", err)
	}
	_, err = tmp.Write(buf.Bytes())
	if err != nil {
		tmp.Close()
		s.tel.ReportBroken(report_store_save, err)
		return fmt.Errorf("write cache: %w", err)
	}
	err = tmp.Close()
	if err != nil {
		s.tel.ReportBroken(report_store_save, err)
		return fmt.Errorf("close cache: %w", err)
	}

	err = os.Rename(tmp.Name(), s.Path)
	if err != nil {
		s.tel.ReportBroken(report_store_save, err)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
