package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/bitsnbytes/bnbkiosk/internal/config"
)

func testModel() model {
	cfg := config.Config{}
	cfg.Kiosk.Name = "test-kiosk"
	cfg.Kiosk.AdminPattern = "1379"
	cfg.Tare.KnownWeightG = 500
	cfg.Telemetry.OfflineAfterSec = 10
	cfg.UI.RowsPerPage = 10
	return newModel(cfg, zerolog.Nop(), NewKeyRegistry(), deps{})
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m model, k string) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyPress(k))
	got, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", next)
	}
	return got, cmd
}

func pressAll(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		m, _ = press(t, m, k)
	}
	return m
}

func unlocked(t *testing.T) model {
	t.Helper()
	m := testModel()
	m = pressAll(t, m, "1", "3", "7", "9")
	if m.locked {
		t.Fatal("pattern did not unlock the console")
	}
	return m
}
