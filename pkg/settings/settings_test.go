package settings

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "settings.json"))

	s, err := m.Load()
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if s.Browser != "" || s.Username != "" || s.PostLimit != 0 {
		t.Errorf("expected zero-value settings, got %+v", s)
	}
}

func TestSaveAndLoad(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "settings.json"))

	saved := &Settings{
		Browser:   "firefox",
		MediaType: "stories",
		PostLimit: 25,
		Username:  "alice",
	}
	if err := m.Save(saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.UpdatedAt.IsZero() {
		t.Error("Save should stamp UpdatedAt")
	}

	loaded, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Browser != "firefox" || loaded.MediaType != "stories" ||
		loaded.PostLimit != 25 || loaded.Username != "alice" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestSaveOverwrites(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "settings.json"))

	if err := m.Save(&Settings{Username: "alice"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Save(&Settings{Username: "bob"}); err != nil {
		t.Fatal(err)
	}

	loaded, err := m.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Username != "bob" {
		t.Errorf("expected latest save to win, got %q", loaded.Username)
	}
}
