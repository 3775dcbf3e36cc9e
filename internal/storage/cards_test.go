package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	config := DefaultConfig(":memory:")
	config.AutoMigrate = true
	db, err := Open(config)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleRecords() []cards.Card {
	return []cards.Card{
		{
			Number: 1,
			Name:   "Blaster Blade",
			Grade:  2,
			Type:   "Normal Unit",
			Clan:   "Royal Paladin",
			Set:    "BS1",
			Power:  "9000",
			Shield: "5000",
			Effect: cards.EffectText{"[AUTO]: When placed, retire one enemy rear-guard."},
			Image:  "cardimg/BS1/1.png",
		},
		{
			Number: 2,
			Name:   "Heal Trigger Angel",
			Grade:  0,
			Type:   "Trigger Unit - Heal",
			Clan:   "Royal Paladin",
			Set:    "BS1",
			Power:  "5000",
			Shield: "10000",
			Image:  "cardimg/BS1/2.png",
		},
	}
}

func TestImportAndLoadCatalog(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	n, err := db.ImportCatalog(ctx, sampleRecords())
	if err != nil {
		t.Fatalf("ImportCatalog() error = %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d cards, want 2", n)
	}

	loaded, err := db.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d cards, want 2", len(loaded))
	}
	if loaded[0].Name != "Blaster Blade" || loaded[1].Name != "Heal Trigger Angel" {
		t.Errorf("load order: %s, %s", loaded[0].Name, loaded[1].Name)
	}
	if loaded[0].Power != "9000" || loaded[0].Grade != 2 {
		t.Errorf("card fields lost: %+v", loaded[0])
	}
	if len(loaded[0].Effect) != 1 {
		t.Errorf("effect lines = %d, want 1", len(loaded[0].Effect))
	}
	if loaded[1].Effect != nil && len(loaded[1].Effect) != 0 {
		t.Errorf("empty effect should stay empty, got %v", loaded[1].Effect)
	}
}

func TestImportUpsertsByNumber(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.ImportCatalog(ctx, sampleRecords()); err != nil {
		t.Fatalf("first ImportCatalog() error = %v", err)
	}

	updated := sampleRecords()
	updated[0].Power = "10000"
	if _, err := db.ImportCatalog(ctx, updated); err != nil {
		t.Fatalf("second ImportCatalog() error = %v", err)
	}

	count, err := db.CountCards(ctx)
	if err != nil {
		t.Fatalf("CountCards() error = %v", err)
	}
	if count != 2 {
		t.Errorf("count after re-import = %d, want 2", count)
	}

	card, err := db.GetCard(ctx, "Blaster Blade")
	if err != nil {
		t.Fatalf("GetCard() error = %v", err)
	}
	if card.Power != "10000" {
		t.Errorf("Power = %q after update, want 10000", card.Power)
	}
}

func TestGetCardNotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.GetCard(context.Background(), "No Such Card"); err == nil {
		t.Error("GetCard() should fail for missing card")
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	config := DefaultConfig(path)
	config.AutoMigrate = true

	db, err := Open(config)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.CountCards(context.Background()); err != nil {
		t.Errorf("CountCards() on fresh db error = %v", err)
	}
}
