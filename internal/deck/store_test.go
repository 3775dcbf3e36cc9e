package deck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	catalog := testCatalog()
	store := NewStore(t.TempDir(), DefaultLimits())

	tests := []struct {
		name  string
		build func() *Deck
	}{
		{
			name:  "empty deck",
			build: func() *Deck { return New(DefaultLimits()) },
		},
		{
			name: "populated deck",
			build: func() *Deck {
				d := New(DefaultLimits())
				_ = d.Add(SectionMain, "Blaster Blade", catalog)
				_ = d.Add(SectionMain, "Blaster Blade", catalog)
				_ = d.Add(SectionMain, "Wingal", catalog)
				_ = d.Add(SectionTriggers, "Little Sage, Marron", catalog)
				return d
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.build()
			if err := store.Save(d, tt.name); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			loaded, err := store.Load(tt.name)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if !reflect.DeepEqual(loaded.Main(), d.Main()) {
				t.Errorf("Main() = %v, want %v", loaded.Main(), d.Main())
			}
			if !reflect.DeepEqual(loaded.Triggers(), d.Triggers()) {
				t.Errorf("Triggers() = %v, want %v", loaded.Triggers(), d.Triggers())
			}
		})
	}
}

func TestStoreSanitizesNames(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Deck", "My Deck"},
		{"slash/../attack", "slashattack"},
		{"kagero_v2-final", "kagero_v2-final"},
		{"naïve: deck?", "nave deck"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeName(tt.in); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStoreSaveRejectsEmptyName(t *testing.T) {
	store := NewStore(t.TempDir(), DefaultLimits())
	if err := store.Save(New(DefaultLimits()), "!!!///"); err == nil {
		t.Error("Save() should reject names that sanitize to nothing")
	}
}

func TestStoreLoadMissingDeck(t *testing.T) {
	store := NewStore(t.TempDir(), DefaultLimits())
	_, err := store.Load("nope")
	if !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("Load() error = %v, want ErrDeckNotFound", err)
	}
}

func TestStoreLoadMalformedDeck(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, DefaultLimits())
	if err := os.WriteFile(filepath.Join(dir, "bad.deck"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("Failed to write deck file: %v", err)
	}

	_, err := store.Load("bad")
	if err == nil {
		t.Fatal("Load() should fail on malformed JSON")
	}
	if errors.Is(err, ErrDeckNotFound) {
		t.Error("parse failure must be distinct from ErrDeckNotFound")
	}
}

func TestStoreLoadDropsNonPositiveCounts(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, DefaultLimits())
	content := `{"main":{"Blaster Blade":2,"Wingal":0},"triggers":{"Little Sage, Marron":-1}}`
	if err := os.WriteFile(filepath.Join(dir, "edited.deck"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write deck file: %v", err)
	}

	d, err := store.Load("edited")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Count(SectionMain, "Wingal") != 0 || d.Count(SectionTriggers, "Little Sage, Marron") != 0 {
		t.Error("non-positive counts should not survive a load")
	}
	if d.Count(SectionMain, "Blaster Blade") != 2 {
		t.Errorf("Count(Blaster Blade) = %d, want 2", d.Count(SectionMain, "Blaster Blade"))
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, DefaultLimits())

	// Empty directory and missing directory both list as empty.
	names, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List() = %v, want empty", names)
	}

	for _, name := range []string{"zeta", "alpha"} {
		if err := store.Save(New(DefaultLimits()), name); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}
	// Non-deck files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	names, err = store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"alpha", "zeta"}) {
		t.Errorf("List() = %v, want [alpha zeta]", names)
	}
}

func TestStoreWatchReportsDeckChanges(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, DefaultLimits())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register before touching the directory.
	time.Sleep(100 * time.Millisecond)

	if err := store.Save(New(DefaultLimits()), "watched"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification after saving a deck")
	}

	// Files without the deck extension are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not return after cancellation")
	}
}
