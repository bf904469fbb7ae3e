package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), "1234")
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if cfg.ClientID != "1234" || cfg.Transport != "pipe" {
		t.Errorf("defaults = %+v, want fallback client id and pipe transport", cfg)
	}
}

func TestLoadParsesAndValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presence.toml")
	data := `
client_id = "5678"
transport = "websocket"
log_level = "debug"

[activity]
details = "Testing"
state = "Busy"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ClientID != "5678" || cfg.Transport != "websocket" || cfg.Activity.Details != "Testing" {
		t.Errorf("parsed config = %+v", cfg)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []Config{
		{ClientID: "", Transport: "pipe"},
		{ClientID: "1", Transport: "carrier-pigeon"},
		{ClientID: "1", Transport: "pipe", LogLevel: "loud"},
	}
	for _, cfg := range tests {
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", cfg)
		}
	}
}

func TestStoreSwapNotifiesListeners(t *testing.T) {
	initial := Default()
	initial.ClientID = "1"
	s := NewStore(initial)

	var gotOld, gotNew string
	s.OnChange(func(old, updated *Config) {
		gotOld, gotNew = old.ClientID, updated.ClientID
	})

	updated := Default()
	updated.ClientID = "2"
	s.Swap(updated)

	if gotOld != "1" || gotNew != "2" {
		t.Errorf("listener saw %q -> %q, want 1 -> 2", gotOld, gotNew)
	}
	if s.Get().ClientID != "2" {
		t.Errorf("Get() = %q after swap, want 2", s.Get().ClientID)
	}
}
