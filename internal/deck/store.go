package deck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// DeckExt is the deck file extension.
const DeckExt = ".deck"

// ErrDeckNotFound is returned by Load when no deck file exists for the
// requested name. It is distinct from a parse failure.
var ErrDeckNotFound = errors.New("deck not found")

// deckFile is the on-disk deck format: exactly two count mappings. The
// deck name is the filename, never stored inside the file.
type deckFile struct {
	Main     map[string]int `json:"main"`
	Triggers map[string]int `json:"triggers"`
}

// Store persists named decks as JSON files in a deck directory. There is
// no locking: concurrent external modification is out of scope and the
// last writer wins.
type Store struct {
	dir    string
	limits Limits
	logger *slog.Logger
}

// NewStore creates a deck store rooted at dir. Loaded decks are given
// the provided limits.
func NewStore(dir string, limits Limits) *Store {
	return &Store{
		dir:    dir,
		limits: limits,
		logger: slog.Default().With("component", "deckstore"),
	}
}

// SanitizeName strips every character outside the alphanumeric, space,
// dash and underscore set from a deck name.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Path returns the file path a deck name maps to.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, SanitizeName(name)+DeckExt)
}

// Save writes the deck's two count mappings under the given name,
// creating the deck directory if absent.
func (s *Store) Save(d *Deck, name string) error {
	safe := SanitizeName(name)
	if strings.TrimSpace(safe) == "" {
		return fmt.Errorf("invalid deck name %q", name)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create deck directory: %w", err)
	}

	data, err := json.MarshalIndent(deckFile{
		Main:     d.Main(),
		Triggers: d.Triggers(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal deck: %w", err)
	}

	path := filepath.Join(s.dir, safe+DeckExt)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write deck file: %w", err)
	}

	s.logger.Info("deck saved", "name", safe, "cards", d.Total())
	return nil
}

// Load reads the named deck back. A missing file yields ErrDeckNotFound;
// malformed content yields a parse error.
func (s *Store) Load(name string) (*Deck, error) {
	path := s.Path(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deck %q: %w", name, ErrDeckNotFound)
		}
		return nil, fmt.Errorf("read deck file: %w", err)
	}

	var file deckFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse deck file %s: %w", path, err)
	}

	d := New(s.limits)
	d.setCounts(file.Main, file.Triggers)
	return d, nil
}

// List enumerates the available deck names (filenames without the
// extension), sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read deck directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), DeckExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), DeckExt))
	}
	sort.Strings(names)
	return names, nil
}

// Watch monitors the deck directory with fsnotify and invokes onChange
// whenever a deck file is created, written, renamed or removed. It blocks
// until the context is cancelled. A front end uses this to keep its deck
// dropdown current.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create deck directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch deck directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, DeckExt) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				s.logger.Debug("deck directory changed", "file", event.Name, "op", event.Op.String())
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("deck watcher error", "error", err)
		}
	}
}
