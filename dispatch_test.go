package main

import "testing"

func TestActiveScopeResolution(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*model)
		wantScope string
	}{
		{"standby", func(m *model) { m.locked = true }, scopeStandby},
		{"shelves", func(m *model) { m.locked = false; m.activeTab = tabShelves }, scopeShelves},
		{"items", func(m *model) { m.locked = false; m.activeTab = tabItems }, scopeItems},
		{"system", func(m *model) { m.locked = false; m.activeTab = tabSystem }, scopeSystem},
		{"item_search", func(m *model) { m.locked = false; m.activeTab = tabItems; m.searchOpen = true }, scopeItemSearch},
		{"tare", func(m *model) { m.locked = false; m.tare = &tareState{} }, scopeTareModal},
		{"exit_over_tab", func(m *model) { m.locked = false; m.exit.phase = exitDialogOpen }, scopeExitConfirm},
		{"exit_over_tare", func(m *model) { m.locked = false; m.tare = &tareState{}; m.exit.phase = exitDialogOpen }, scopeExitConfirm},
		{"exit_over_search", func(m *model) { m.locked = false; m.searchOpen = true; m.exit.phase = exitDialogOpen }, scopeExitConfirm},
		{"exit_over_standby", func(m *model) { m.locked = true; m.exit.phase = exitDialogWaiting }, scopeExitConfirm},
		{"tare_over_search", func(m *model) { m.locked = false; m.searchOpen = true; m.tare = &tareState{} }, scopeTareModal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel()
			tt.setup(&m)
			if got := m.activeScope(); got != tt.wantScope {
				t.Fatalf("activeScope() = %q, want %q", got, tt.wantScope)
			}
		})
	}
}

func TestExitConfirmIsHighestPrecedence(t *testing.T) {
	entries := overlayPrecedence()
	if len(entries) == 0 || entries[0].name != "exitConfirm" {
		t.Fatal("exit confirm must be the first overlay entry")
	}
}

func TestEveryOverlayScopeHasBindings(t *testing.T) {
	r := NewKeyRegistry()
	m := testModel()
	for _, entry := range overlayPrecedence() {
		scope := entry.scope(m)
		if len(r.BindingsForScope(scope)) == 0 {
			t.Errorf("overlay %q scope %q has no bindings", entry.name, scope)
		}
	}
}
