package imagecache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// mockFetcher implements Fetcher for testing.
type mockFetcher struct {
	images map[string][]byte
	calls  int
	err    error
}

func (m *mockFetcher) FetchImage(ctx context.Context, identifier string) ([]byte, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.images[identifier]
	if !ok {
		return nil, fmt.Errorf("no such image: %s", identifier)
	}
	return data, nil
}

func TestResolvePrefersLocalBase(t *testing.T) {
	localBase := t.TempDir()
	imgPath := filepath.Join(localBase, "cardimg", "BS1", "1.png")
	if err := os.MkdirAll(filepath.Dir(imgPath), 0o755); err != nil {
		t.Fatalf("Failed to create image dir: %v", err)
	}
	if err := os.WriteFile(imgPath, []byte("original"), 0o644); err != nil {
		t.Fatalf("Failed to write image: %v", err)
	}

	fetcher := &mockFetcher{}
	cache, err := New(Options{LocalBase: localBase, CacheDir: t.TempDir(), Fetcher: fetcher})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path, fromCache, err := cache.Resolve(context.Background(), "cardimg/BS1/1.png")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != imgPath {
		t.Errorf("path = %q, want %q", path, imgPath)
	}
	if !fromCache {
		t.Error("local original should count as a cache hit")
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times, want 0", fetcher.calls)
	}
}

func TestResolveFetchesAndPopulatesCache(t *testing.T) {
	fetcher := &mockFetcher{images: map[string][]byte{
		"cardimg/BS2/7.png": []byte("fetched-bytes"),
	}}
	cache, err := New(Options{CacheDir: t.TempDir(), Fetcher: fetcher})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path, fromCache, err := cache.Resolve(context.Background(), "cardimg/BS2/7.png")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if fromCache {
		t.Error("first resolve should be a miss")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read cached file: %v", err)
	}
	if string(data) != "fetched-bytes" {
		t.Errorf("cached content = %q", data)
	}

	// Second resolve hits the cache without another fetch.
	path2, fromCache, err := cache.Resolve(context.Background(), "cardimg/BS2/7.png")
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if !fromCache || path2 != path {
		t.Errorf("second resolve: fromCache=%v path=%q", fromCache, path2)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
}

func TestResolveFetchFailure(t *testing.T) {
	fetcher := &mockFetcher{err: fmt.Errorf("network down")}
	cache, err := New(Options{CacheDir: t.TempDir(), Fetcher: fetcher})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, _, err := cache.Resolve(context.Background(), "x.png"); err == nil {
		t.Error("Resolve() should surface fetch failures")
	}
}

func TestResolveEmptyIdentifier(t *testing.T) {
	cache, err := New(Options{CacheDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, _, err := cache.Resolve(context.Background(), ""); err == nil {
		t.Error("Resolve(\"\") should fail")
	}
}

func TestCacheSurvivesReopen(t *testing.T) {
	cacheDir := t.TempDir()
	fetcher := &mockFetcher{images: map[string][]byte{"a.png": []byte("aaa")}}

	cache, err := New(Options{CacheDir: cacheDir, Fetcher: fetcher})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, _, err := cache.Resolve(context.Background(), "a.png"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// A fresh cache over the same directory picks up the entry on scan.
	reopened, err := New(Options{CacheDir: cacheDir, Fetcher: &mockFetcher{}})
	if err != nil {
		t.Fatalf("reopen New() error = %v", err)
	}
	_, fromCache, err := reopened.Resolve(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("Resolve() after reopen error = %v", err)
	}
	if !fromCache {
		t.Error("reopened cache should hit without fetching")
	}
}

func TestEviction(t *testing.T) {
	fetcher := &mockFetcher{images: map[string][]byte{
		"a.png": make([]byte, 600),
		"b.png": make([]byte, 600),
	}}
	cache, err := New(Options{CacheDir: t.TempDir(), MaxSize: 1000, Fetcher: fetcher})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	pathA, _, err := cache.Resolve(ctx, "a.png")
	if err != nil {
		t.Fatalf("Resolve(a) error = %v", err)
	}
	if _, _, err := cache.Resolve(ctx, "b.png"); err != nil {
		t.Fatalf("Resolve(b) error = %v", err)
	}

	// a.png should have been evicted to make room for b.png.
	if _, err := os.Stat(pathA); !os.IsNotExist(err) {
		t.Errorf("expected %s to be evicted", pathA)
	}
	stats := cache.GetStats()
	if stats.TotalFiles != 1 || stats.TotalSize != 600 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestClear(t *testing.T) {
	fetcher := &mockFetcher{images: map[string][]byte{"a.png": []byte("aaa")}}
	cache, err := New(Options{CacheDir: t.TempDir(), Fetcher: fetcher})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	path, _, err := cache.Resolve(context.Background(), "a.png")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cached file should be removed by Clear()")
	}
	if stats := cache.GetStats(); stats.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", stats.TotalFiles)
	}
}
