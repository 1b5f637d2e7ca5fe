package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.MonitorAddr != Default().MonitorAddr {
		t.Errorf("MonitorAddr = %q, want default", cfg.MonitorAddr)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Decks["left"] = DeckConfig{ImporterPath: "/usr/bin/flac-importer"}
	cfg.TrackRate = 48000

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Decks["left"].ImporterPath != "/usr/bin/flac-importer" {
		t.Errorf("Decks[left] = %+v", loaded.Decks["left"])
	}
	if loaded.TrackRate != 48000 {
		t.Errorf("TrackRate = %d, want 48000", loaded.TrackRate)
	}
}

func TestLoadFromRejectsWrongType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("track_rate: \"not a number\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected a validation error for a string track_rate")
	}
}
