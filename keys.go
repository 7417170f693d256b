package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal      = "global"
	scopeStandby     = "standby"
	scopeShelves     = "shelves"
	scopeItems       = "items"
	scopeItemSearch  = "item_search"
	scopeTareModal   = "tare_modal"
	scopeSystem      = "system"
	scopeExitConfirm = "exit_confirm"
)

const (
	actionExit        Action = "exit"
	actionNextTab     Action = "next_tab"
	actionPrevTab     Action = "prev_tab"
	actionNavigate    Action = "navigate"
	actionSlot        Action = "slot"
	actionSelect      Action = "select"
	actionClose       Action = "close"
	actionLock        Action = "lock"
	actionTare        Action = "tare"
	actionCapture     Action = "capture"
	actionSearch      Action = "search"
	actionRefresh     Action = "refresh"
	actionDoors       Action = "doors"
	actionHatch       Action = "hatch"
	actionClearEntry  Action = "clear_entry"
	actionToggleFocus Action = "toggle_focus"
	actionYes         Action = "yes"
	actionNo          Action = "no"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	// Global fallback lookup.
	reg(scopeGlobal, actionExit, []string{"q", "ctrl+c"}, "exit")
	reg(scopeGlobal, actionNextTab, []string{"tab"}, "next tab")
	reg(scopeGlobal, actionPrevTab, []string{"shift+tab"}, "prev tab")
	reg(scopeGlobal, actionLock, []string{"L"}, "lock")

	// Standby lock screen: digits feed the unlock pattern directly, so only
	// the reset key and exit are bound here.
	reg(scopeStandby, actionClearEntry, []string{"esc"}, "reset entry")
	reg(scopeStandby, actionExit, []string{"ctrl+c"}, "exit")

	// Shelves tab footer.
	reg(scopeShelves, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "shelf")
	reg(scopeShelves, actionSlot, []string{"h/l", "h", "left", "l", "right"}, "slot")
	reg(scopeShelves, actionTare, []string{"t"}, "tare slot")
	reg(scopeShelves, actionNextTab, []string{"tab"}, "next tab")
	reg(scopeShelves, actionExit, []string{"q", "ctrl+c"}, "exit")

	// Items tab footer.
	reg(scopeItems, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeItems, actionSearch, []string{"/"}, "search")
	reg(scopeItems, actionRefresh, []string{"r"}, "refresh")
	reg(scopeItems, actionNextTab, []string{"tab"}, "next tab")
	reg(scopeItems, actionExit, []string{"q", "ctrl+c"}, "exit")

	// Item search overlay: printable keys are the query, so only control
	// keys are bound.
	reg(scopeItemSearch, actionSelect, []string{"enter"}, "jump to item")
	reg(scopeItemSearch, actionClose, []string{"esc"}, "close")

	// Tare modal footer.
	reg(scopeTareModal, actionCapture, []string{"enter"}, "capture")
	reg(scopeTareModal, actionClose, []string{"esc"}, "cancel")

	// System tab footer.
	reg(scopeSystem, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "scroll log")
	reg(scopeSystem, actionDoors, []string{"d"}, "toggle doors")
	reg(scopeSystem, actionHatch, []string{"b"}, "toggle hatch")
	reg(scopeSystem, actionNextTab, []string{"tab"}, "next tab")
	reg(scopeSystem, actionExit, []string{"q", "ctrl+c"}, "exit")

	// Exit confirm dialog. Deliberately no esc binding: the dialog only
	// closes through an explicit yes or no.
	reg(scopeExitConfirm, actionToggleFocus, []string{"h/l", "h", "left", "l", "right", "tab"}, "switch")
	reg(scopeExitConfirm, actionSelect, []string{"enter"}, "confirm")
	reg(scopeExitConfirm, actionYes, []string{"y"}, "yes")
	reg(scopeExitConfirm, actionNo, []string{"n"}, "no")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" {
			continue
		}
		if len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.bindingsByScope[scope]; !ok {
			r.bindingsByScope[scope] = nil
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 {
			continue
		}
		if r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		if b := r.lookupInScope(keyName, scopeGlobal); b != nil {
			return b
		}
	}
	return nil
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		if len(b.Keys) == 0 {
			continue
		}
		helpKey := b.Keys[0]
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(helpKey, b.Help)))
	}
	return out
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	if scope == "" {
		return nil
	}
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// Preserve single uppercase rune so uppercase/lowercase bindings
			// can be distinct actions within the same scope.
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "ctl+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}

// ---------------------------------------------------------------------------
// Keybinding overrides — keybindings.toml next to the config file
// ---------------------------------------------------------------------------

type keybindingConfig struct {
	Scope  string   `toml:"scope"`
	Action string   `toml:"action"`
	Keys   []string `toml:"keys"`
}

type keybindingFile struct {
	Bindings []keybindingConfig `toml:"bindings"`
}

// LoadKeybindingOverrides reads operator key overrides from path. A missing
// file is not an error; kiosks usually run with the defaults.
func LoadKeybindingOverrides(path string) ([]keybindingConfig, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	var f keybindingFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.Bindings, nil
}

func (r *KeyRegistry) ApplyKeybindingConfig(items []keybindingConfig) error {
	if r == nil || len(items) == 0 {
		return nil
	}
	type pair struct {
		scope  string
		action Action
	}
	seenPair := make(map[pair]bool)
	for _, o := range items {
		scope := strings.TrimSpace(o.Scope)
		if scope == "" {
			return fmt.Errorf("shortcut override: scope is required")
		}
		action := Action(strings.TrimSpace(o.Action))
		if action == "" {
			return fmt.Errorf("shortcut override scope=%q: action is required", scope)
		}
		keys := normalizeKeyList(o.Keys)
		if len(keys) == 0 {
			return fmt.Errorf("shortcut override scope=%q action=%q: keys are required", scope, action)
		}

		bindings := r.bindingsByScope[scope]
		if len(bindings) == 0 {
			return fmt.Errorf("shortcut override scope=%q action=%q: unknown scope", scope, action)
		}
		var target *Binding
		for _, b := range bindings {
			if b.Action == action {
				target = b
				break
			}
		}
		if target == nil {
			return fmt.Errorf("shortcut override scope=%q action=%q: unknown action in scope", scope, action)
		}
		p := pair{scope: scope, action: action}
		if seenPair[p] {
			return fmt.Errorf("shortcut override scope=%q action=%q: duplicated override entry", scope, action)
		}
		seenPair[p] = true
		target.Keys = keys
	}

	r.rebuildIndex()
	for scope, bindings := range r.bindingsByScope {
		seen := make(map[string]Action)
		for _, b := range bindings {
			for _, k := range b.Keys {
				if prev, ok := seen[k]; ok {
					return fmt.Errorf("shortcut override conflict in scope=%q: key %q used by both %q and %q", scope, k, prev, b.Action)
				}
				seen[k] = b.Action
			}
		}
	}
	return nil
}

func (r *KeyRegistry) rebuildIndex() {
	r.indexByScope = make(map[string]map[string]*Binding, len(r.bindingsByScope))
	for scope, bindings := range r.bindingsByScope {
		r.indexByScope[scope] = make(map[string]*Binding)
		for _, b := range bindings {
			for _, k := range b.Keys {
				r.indexByScope[scope][k] = b
			}
		}
	}
}
