// Package imagecache manages local caching of card images.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Fetcher downloads the image bytes for an identifier. Implemented by
// the remote client.
type Fetcher interface {
	FetchImage(ctx context.Context, identifier string) ([]byte, error)
}

// Cache resolves card image identifiers to local files: a file under the
// local image base wins, then the key-addressed cache, then a remote
// fetch that populates the cache. Safe for concurrent use.
type Cache struct {
	localBase string
	cacheDir  string
	maxSize   int64 // Maximum cache size in bytes (0 = unlimited)
	fetcher   Fetcher

	mu       sync.RWMutex
	sizes    map[string]int64     // Map of file path to file size
	lastUsed map[string]time.Time // LRU tracking
}

// Options configures the image cache.
type Options struct {
	// LocalBase is the base directory joined with image identifiers to
	// find already-downloaded originals. Empty means cache-only.
	LocalBase string

	// CacheDir is the directory for fetched images.
	CacheDir string

	// MaxSize is the maximum cache size in bytes (0 = unlimited; the
	// cache grows without bound by default, which is accepted).
	MaxSize int64

	// Fetcher retrieves images on a cache miss. Nil disables fetching;
	// misses then resolve to an error.
	Fetcher Fetcher
}

// New creates a new image cache, scanning any existing cached files.
func New(options Options) (*Cache, error) {
	if options.CacheDir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(options.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	cache := &Cache{
		localBase: options.LocalBase,
		cacheDir:  options.CacheDir,
		maxSize:   options.MaxSize,
		fetcher:   options.Fetcher,
		sizes:     make(map[string]int64),
		lastUsed:  make(map[string]time.Time),
	}

	if err := cache.scan(); err != nil {
		return nil, fmt.Errorf("scan cache directory: %w", err)
	}

	return cache, nil
}

// Resolve returns a local file path for the image identifier. fromCache
// is true when no fetch was needed (local original or cache hit).
func (c *Cache) Resolve(ctx context.Context, identifier string) (path string, fromCache bool, err error) {
	if identifier == "" {
		return "", false, fmt.Errorf("image identifier is empty")
	}

	if c.localBase != "" {
		localPath := filepath.Join(c.localBase, filepath.FromSlash(identifier))
		if _, err := os.Stat(localPath); err == nil {
			return localPath, true, nil
		}
	}

	cachePath := filepath.Join(c.cacheDir, c.cacheKey(identifier))

	c.mu.RLock()
	_, cached := c.sizes[cachePath]
	c.mu.RUnlock()
	if cached {
		c.mu.Lock()
		c.lastUsed[cachePath] = time.Now()
		c.mu.Unlock()
		return cachePath, true, nil
	}

	if c.fetcher == nil {
		return "", false, fmt.Errorf("image %s not cached and no fetcher configured", identifier)
	}

	data, err := c.fetcher.FetchImage(ctx, identifier)
	if err != nil {
		return "", false, fmt.Errorf("fetch %s: %w", identifier, err)
	}

	if err := c.store(cachePath, data); err != nil {
		return "", false, err
	}
	return cachePath, false, nil
}

// store writes fetched bytes into the cache via a temp file so a crash
// never leaves a partial entry behind.
func (c *Cache) store(cachePath string, data []byte) error {
	tempFile, err := os.CreateTemp(c.cacheDir, "download-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("write cached image: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	size := int64(len(data))

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureSpace(size); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("ensure cache space: %w", err)
	}

	if err := os.Rename(tempPath, cachePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("move cached file: %w", err)
	}

	c.sizes[cachePath] = size
	c.lastUsed[cachePath] = time.Now()
	return nil
}

// ensureSpace evicts least-recently-used files if necessary to make room
// for a new file. Must be called with c.mu locked.
func (c *Cache) ensureSpace(neededSize int64) error {
	if c.maxSize == 0 {
		return nil
	}

	var currentSize int64
	for _, size := range c.sizes {
		currentSize += size
	}
	if currentSize+neededSize <= c.maxSize {
		return nil
	}

	type fileEntry struct {
		path     string
		lastUsed time.Time
		size     int64
	}

	files := make([]fileEntry, 0, len(c.sizes))
	for path, size := range c.sizes {
		files = append(files, fileEntry{path: path, lastUsed: c.lastUsed[path], size: size})
	}

	// Oldest first.
	for i := 0; i < len(files); i++ {
		for j := i + 1; j < len(files); j++ {
			if files[i].lastUsed.After(files[j].lastUsed) {
				files[i], files[j] = files[j], files[i]
			}
		}
	}

	for _, file := range files {
		if currentSize+neededSize <= c.maxSize {
			break
		}
		if err := os.Remove(file.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("evict cached file: %w", err)
		}
		delete(c.sizes, file.path)
		delete(c.lastUsed, file.path)
		currentSize -= file.size
	}

	return nil
}

// Clear removes all cached images.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path := range c.sizes {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove cached file: %w", err)
		}
	}

	c.sizes = make(map[string]int64)
	c.lastUsed = make(map[string]time.Time)
	return nil
}

// Stats contains statistics about the cache.
type Stats struct {
	TotalFiles int
	TotalSize  int64
	MaxSize    int64
	CacheDir   string
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var totalSize int64
	for _, size := range c.sizes {
		totalSize += size
	}

	return Stats{
		TotalFiles: len(c.sizes),
		TotalSize:  totalSize,
		MaxSize:    c.maxSize,
		CacheDir:   c.cacheDir,
	}
}

// scan initializes cache metadata from the cache directory contents.
func (c *Cache) scan() error {
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) == ".tmp" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(c.cacheDir, entry.Name())
		c.sizes[path] = info.Size()
		c.lastUsed[path] = info.ModTime()
	}

	return nil
}

// cacheKey derives the cache filename from the identifier's hash.
func (c *Cache) cacheKey(identifier string) string {
	hash := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(hash[:]) + filepath.Ext(identifier)
}
