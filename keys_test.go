package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeKeyName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" ", "space"},
		{"Control+C", "ctrl+c"},
		{"ctl+k", "ctrl+k"},
		{"Return", "enter"},
		{"L", "L"}, // single uppercase preserved
		{"Q", "Q"},
		{"esc", "esc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeKeyName(tt.in); got != tt.want {
			t.Errorf("normalizeKeyName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupFallsBackToGlobal(t *testing.T) {
	r := NewKeyRegistry()

	if b := r.Lookup("t", scopeShelves); b == nil || b.Action != actionTare {
		t.Fatalf("scope binding not found: %+v", b)
	}
	// L is only bound globally; every scope should resolve it.
	if b := r.Lookup("L", scopeItems); b == nil || b.Action != actionLock {
		t.Fatalf("global fallback failed: %+v", b)
	}
	// Scope-local tab binding wins over the global one.
	if b := r.Lookup("tab", scopeExitConfirm); b == nil || b.Action != actionToggleFocus {
		t.Fatalf("scope should shadow global for tab: %+v", b)
	}
}

func TestExitConfirmScopeHasNoEscape(t *testing.T) {
	r := NewKeyRegistry()
	if b := r.Lookup("esc", scopeExitConfirm); b != nil {
		t.Fatalf("esc must not be bound in exit_confirm, got %q", b.Action)
	}
}

func TestApplyKeybindingConfig(t *testing.T) {
	r := NewKeyRegistry()
	err := r.ApplyKeybindingConfig([]keybindingConfig{
		{Scope: scopeShelves, Action: "tare", Keys: []string{"c"}},
	})
	if err != nil {
		t.Fatalf("ApplyKeybindingConfig: %v", err)
	}
	if b := r.Lookup("c", scopeShelves); b == nil || b.Action != actionTare {
		t.Fatal("override key not applied")
	}
	if b := r.Lookup("t", scopeShelves); b != nil {
		t.Fatal("old key still bound after override")
	}
}

func TestApplyKeybindingConfigRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   []keybindingConfig
	}{
		{"unknown scope", []keybindingConfig{{Scope: "nope", Action: "tare", Keys: []string{"x"}}}},
		{"unknown action", []keybindingConfig{{Scope: scopeShelves, Action: "nope", Keys: []string{"x"}}}},
		{"missing keys", []keybindingConfig{{Scope: scopeShelves, Action: "tare"}}},
		{"duplicate entry", []keybindingConfig{
			{Scope: scopeShelves, Action: "tare", Keys: []string{"x"}},
			{Scope: scopeShelves, Action: "tare", Keys: []string{"z"}},
		}},
		{"key conflict", []keybindingConfig{
			{Scope: scopeShelves, Action: "tare", Keys: []string{"j"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewKeyRegistry()
			if err := r.ApplyKeybindingConfig(tt.in); err == nil {
				t.Fatal("want error, got nil")
			}
		})
	}
}

func TestLoadKeybindingOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybindings.toml")
	content := `
[[bindings]]
scope = "shelves"
action = "tare"
keys = ["c"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	overrides, err := LoadKeybindingOverrides(path)
	if err != nil {
		t.Fatalf("LoadKeybindingOverrides: %v", err)
	}
	if len(overrides) != 1 || overrides[0].Scope != "shelves" || overrides[0].Keys[0] != "c" {
		t.Fatalf("overrides = %+v", overrides)
	}

	// Missing file is fine.
	got, err := LoadKeybindingOverrides(filepath.Join(dir, "absent.toml"))
	if err != nil || got != nil {
		t.Fatalf("missing file: %v, %v", got, err)
	}
}

func TestEveryScopeHasExitPath(t *testing.T) {
	// Every surface must be able to reach the exit dialog, directly or via
	// the global fallback.
	r := NewKeyRegistry()
	scopes := []string{scopeGlobal, scopeStandby, scopeShelves, scopeItems, scopeItemSearch, scopeTareModal, scopeSystem}
	for _, scope := range scopes {
		found := false
		for _, k := range []string{"q", "ctrl+c"} {
			if b := r.Lookup(k, scope); b != nil && b.Action == actionExit {
				found = true
			}
		}
		if !found {
			t.Errorf("scope %q has no path to the exit dialog", scope)
		}
	}
}
