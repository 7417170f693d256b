package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Exit confirm dialog
// ---------------------------------------------------------------------------
//
// The kiosk console never quits on a bare keypress. Any exit request routes
// through this dialog: a modal over a dimmed screen with explicit Yes/No
// buttons. No resumes the console unchanged. Yes runs the shutdown sequence
// exactly once; while it is in flight the dialog ignores further input, and
// if shutdown fails the dialog stays up with the error so the operator can
// retry.

type exitDialogPhase int

const (
	exitDialogClosed exitDialogPhase = iota
	exitDialogOpen
	exitDialogWaiting
)

type exitDialog struct {
	phase    exitDialogPhase
	yesFocus bool
	errText  string
}

// open reports whether the dialog (and therefore the dim layer) is visible.
func (d exitDialog) open() bool {
	return d.phase != exitDialogClosed
}

// requestExit opens the dialog. Repeated requests while it is already open
// or waiting are no-ops, so a held-down exit key cannot stack dialogs or
// re-trigger shutdown.
func (m model) requestExit() (tea.Model, tea.Cmd) {
	if m.exit.phase != exitDialogClosed {
		return m, nil
	}
	m.exit.phase = exitDialogOpen
	m.exit.yesFocus = false // default to the safe choice
	m.exit.errText = ""
	m.log.Debug().Msg("exit requested")
	return m, nil
}

// exitDoneMsg reports the outcome of the shutdown sequence started by Yes.
type exitDoneMsg struct {
	err error
}

func (m model) updateExitConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.exit.phase == exitDialogWaiting {
		// Shutdown in flight; nothing to decide anymore.
		return m, nil
	}
	keyName := normalizeKeyName(msg.String())
	binding := m.keys.Lookup(keyName, scopeExitConfirm)
	if binding == nil {
		return m, nil
	}
	switch binding.Action {
	case actionToggleFocus:
		m.exit.yesFocus = !m.exit.yesFocus
		return m, nil
	case actionYes:
		return m.confirmExit()
	case actionNo:
		return m.dismissExit()
	case actionSelect:
		if m.exit.yesFocus {
			return m.confirmExit()
		}
		return m.dismissExit()
	case actionExit:
		// Already open; an exit request changes nothing.
		return m, nil
	}
	return m, nil
}

func (m model) confirmExit() (tea.Model, tea.Cmd) {
	m.exit.phase = exitDialogWaiting
	m.exit.errText = ""
	exitFn := m.exitFn
	return m, func() tea.Msg {
		if exitFn == nil {
			return exitDoneMsg{}
		}
		return exitDoneMsg{err: exitFn()}
	}
}

func (m model) dismissExit() (tea.Model, tea.Cmd) {
	m.exit = exitDialog{}
	return m, nil
}

func (m model) handleExitDone(msg exitDoneMsg) (tea.Model, tea.Cmd) {
	if m.exit.phase != exitDialogWaiting {
		// Stale completion; no shutdown is pending.
		return m, nil
	}
	if msg.err != nil {
		// Back to the decision state so Yes can retry.
		m.exit.phase = exitDialogOpen
		m.exit.errText = msg.err.Error()
		m.log.Error().Err(msg.err).Msg("shutdown failed")
		return m, nil
	}
	return m, tea.Quit
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

func (m model) exitDialogView() string {
	title := titleStyle.Render("Exit console?")
	body := "The kiosk screen will close."

	yes := dialogButtonStyle.Render("[ Yes ]")
	no := dialogButtonStyle.Render("[ No ]")
	if m.exit.phase == exitDialogWaiting {
		yes = dialogButtonFocusStyle.Render("[ Yes ]")
		body = "Shutting down…"
	} else if m.exit.yesFocus {
		yes = dialogButtonFocusStyle.Render("[ Yes ]")
	} else {
		no = dialogButtonFocusStyle.Render("[ No ]")
	}
	buttons := yes + "   " + no

	lines := []string{title, "", body, "", buttons}
	if m.exit.errText != "" {
		errLine := errorTextStyle.Render(truncate("shutdown failed: "+m.exit.errText, 44))
		lines = append(lines, "", errLine)
	}
	return lipgloss.Place(dialogInnerWidth, len(lines), lipgloss.Center, lipgloss.Top,
		strings.Join(lines, "\n"))
}

const dialogInnerWidth = 36
