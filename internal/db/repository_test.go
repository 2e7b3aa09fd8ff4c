package db

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kasheena/code-for-good/internal/lexicon"
)

func samplePack() lexicon.Config {
	return lexicon.Config{Categories: []lexicon.Category{
		{ID: "exclusionary", Label: "Exclusionary", Color: "orange", Weight: 1, Terms: []string{"rockstar", "work hard, play hard"}},
		{ID: "male_coded", Label: "Male-coded", Color: "red", Weight: 1, Terms: []string{"aggressive", "dominant", "lead"}},
		{ID: "female_coded", Weight: 0.5, Terms: []string{"supportive"}},
	}}
}

func TestSaveAndLoadLexicon(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pack.db")
	input := samplePack()

	if err := SaveLexicon(dbPath, input); err != nil {
		t.Fatalf("save lexicon: %v", err)
	}

	categories, err := CountRows(dbPath, "categories")
	if err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if categories != 3 {
		t.Fatalf("expected 3 categories, got %d", categories)
	}
	terms, err := CountRows(dbPath, "terms")
	if err != nil {
		t.Fatalf("count terms: %v", err)
	}
	if terms != 6 {
		t.Fatalf("expected 6 terms, got %d", terms)
	}

	got, err := LoadLexicon(dbPath)
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	if !reflect.DeepEqual(got, input) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, input)
	}
	if _, err := lexicon.Load(got); err != nil {
		t.Fatalf("loaded pack does not validate: %v", err)
	}
}

func TestSaveLexiconReplacesPack(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pack.db")
	if err := SaveLexicon(dbPath, samplePack()); err != nil {
		t.Fatalf("first save: %v", err)
	}

	smaller := lexicon.Config{
		Categories:           []lexicon.Category{{ID: "calm", Weight: -1, Terms: []string{"steady"}}},
		AllowNegativeWeights: true,
	}
	if err := SaveLexicon(dbPath, smaller); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := LoadLexicon(dbPath)
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	if !reflect.DeepEqual(got, smaller) {
		t.Fatalf("expected replaced pack %+v, got %+v", smaller, got)
	}
}

func TestSaveLexiconRollsBackOnDuplicateID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pack.db")
	if err := SaveLexicon(dbPath, samplePack()); err != nil {
		t.Fatalf("save: %v", err)
	}

	dup := lexicon.Config{Categories: []lexicon.Category{
		{ID: "a", Weight: 1, Terms: []string{"x"}},
		{ID: "a", Weight: 1, Terms: []string{"y"}},
	}}
	if err := SaveLexicon(dbPath, dup); err == nil {
		t.Fatal("expected duplicate category id to fail")
	}

	got, err := LoadLexicon(dbPath)
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	if len(got.Categories) != 3 {
		t.Fatalf("expected original pack to survive, got %d categories", len(got.Categories))
	}
}

func TestLoadLexiconEmptyDatabase(t *testing.T) {
	got, err := LoadLexicon(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	if len(got.Categories) != 0 {
		t.Fatalf("expected no categories, got %d", len(got.Categories))
	}
	if _, err := lexicon.Load(got); err == nil {
		t.Fatal("expected empty pack to fail validation")
	}
}
