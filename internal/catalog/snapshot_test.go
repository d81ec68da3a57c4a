package catalog

import (
	"path/filepath"
	"testing"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "use_cases.json")
	cases := []UseCase{
		{Title: "Support Bot", Industry: "Retail", Framework: FrameworkCrewAI},
		{Title: "Fraud Agent", Industry: "Finance", Framework: FrameworkUnknown},
	}

	if err := Save(path, cases); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Load() returned %d cases, want 2", len(loaded))
	}
	if loaded[0].Title != "Support Bot" || loaded[1].Framework != FrameworkUnknown {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load() on missing file = nil, want error")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := Save(path, nil); err != nil {
		t.Fatal(err)
	}
	// Overwrite with garbage.
	if err := writeFile(path, "{not json"); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() on invalid JSON = nil, want error")
	}
}
