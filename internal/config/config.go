package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Card catalog configuration
	Catalog CatalogConfig `toml:"catalog"`

	// Deck building configuration
	Deck DeckConfig `toml:"deck"`

	// Image resolution and caching configuration
	Images ImagesConfig `toml:"images"`

	// Gallery presentation configuration
	Gallery GalleryConfig `toml:"gallery"`
}

// CatalogConfig contains card catalog settings.
type CatalogConfig struct {
	FilePath string `toml:"file_path"` // Path to the card catalog JSON file
	DBPath   string `toml:"db_path"`   // Path to the SQLite card database ("" = JSON only)
}

// DeckConfig contains deck composition settings.
//
// The two application variants shipped with different main-deck caps (34
// and 38), so the limit is configuration rather than a hard-coded value.
type DeckConfig struct {
	Dir          string `toml:"dir"`           // Directory where decks are stored
	MainLimit    int    `toml:"main_limit"`    // Maximum cards in the main section
	TriggerLimit int    `toml:"trigger_limit"` // Maximum cards in the triggers section
	MaxCopies    int    `toml:"max_copies"`    // Maximum copies of a single card
}

// ImagesConfig contains image resolution settings.
type ImagesConfig struct {
	LocalBase  string `toml:"local_base"`   // Base directory for card images
	RemoteBase string `toml:"remote_base"`  // Base URL for missing card images
	CacheDir   string `toml:"cache_dir"`    // Thumbnail cache directory
	MaxCacheMB int    `toml:"max_cache_mb"` // Max cache size in MB (0 = unlimited)
}

// GalleryConfig contains incremental gallery settings.
type GalleryConfig struct {
	BatchSize       int `toml:"batch_size"`       // Cards revealed per batch
	ResolverWorkers int `toml:"resolver_workers"` // Concurrent image resolution workers
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			FilePath: "ridecore_cards.json",
			DBPath:   "",
		},
		Deck: DeckConfig{
			Dir:          "decks",
			MainLimit:    34,
			TriggerLimit: 16,
			MaxCopies:    4,
		},
		Images: ImagesConfig{
			LocalBase:  "",
			RemoteBase: "",
			CacheDir:   "thumbs_cache",
			MaxCacheMB: 0,
		},
		Gallery: GalleryConfig{
			BatchSize:       50,
			ResolverWorkers: 4,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".ridecore-companion")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom loads the configuration from the given path. Returns default
// config if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Catalog.FilePath == "" && c.Catalog.DBPath == "" {
		return fmt.Errorf("catalog file_path or db_path must be set")
	}
	if c.Deck.MainLimit <= 0 {
		return fmt.Errorf("invalid main_limit %d: must be positive", c.Deck.MainLimit)
	}
	if c.Deck.TriggerLimit <= 0 {
		return fmt.Errorf("invalid trigger_limit %d: must be positive", c.Deck.TriggerLimit)
	}
	if c.Deck.MaxCopies <= 0 {
		return fmt.Errorf("invalid max_copies %d: must be positive", c.Deck.MaxCopies)
	}
	if c.Gallery.BatchSize <= 0 {
		return fmt.Errorf("invalid batch_size %d: must be positive", c.Gallery.BatchSize)
	}
	if c.Gallery.ResolverWorkers <= 0 {
		return fmt.Errorf("invalid resolver_workers %d: must be positive", c.Gallery.ResolverWorkers)
	}
	if c.Images.MaxCacheMB < 0 {
		return fmt.Errorf("invalid max_cache_mb %d: must not be negative", c.Images.MaxCacheMB)
	}
	return nil
}
