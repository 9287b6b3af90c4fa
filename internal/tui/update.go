package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"dupereview/internal/batch"
	"dupereview/internal/enrich"
	"dupereview/internal/review"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case sideLoadedMsg:
		return m.handleSideLoaded(msg)
	case deleteDoneMsg:
		return m.handleDeleteDone(msg)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	switch m.mode {
	case modeGoto:
		return m.handleGotoKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	case modeEditNote:
		return m.handleNoteKey(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "left", "h":
		ticket, err := m.ctrl.Prev(m.ctx)
		return m.afterSelect(ticket, err)
	case "right", "l":
		ticket, err := m.ctrl.Next(m.ctx)
		return m.afterSelect(ticket, err)
	case "g":
		m.mode = modeGoto
		m.input = ""
		return m, nil
	case "f":
		ticket, ok := m.ctrl.Refresh()
		if !ok {
			return m, nil
		}
		return m, enrichPair(m.ctx, m.fetcher, ticket)
	case "a", "b":
		side := enrich.SideA
		if msg.String() == "b" {
			side = enrich.SideB
		}
		if _, err := m.ctrl.RequestDelete(side); err != nil {
			return m.collect(err), nil
		}
		m.mode = modeConfirm
		return m, nil
	case "m":
		return m.mark(batch.StatusMerge)
	case "r":
		return m.mark(batch.StatusRedistribution)
	case "d":
		return m.mark(batch.StatusDifferent)
	case "u":
		return m.mark(batch.StatusReview)
	case "s":
		if m.export == nil {
			return m, nil
		}
		path, err := m.export()
		if err != nil {
			return m.collect(err), nil
		}
		return m.info("Exported to " + path), nil
	}
	return m, nil
}

func (m Model) mark(status batch.Status) (tea.Model, tea.Cmd) {
	err := m.ctrl.Mark(m.ctx, status)
	m = m.collect(err)
	if err == nil && m.ctrl.Status() == status {
		m = m.info("Marked " + status.Label())
	}
	return m, nil
}

func (m Model) afterSelect(ticket review.Ticket, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		return m.collect(err), nil
	}
	return m.collect(nil), enrichPair(m.ctx, m.fetcher, ticket)
}

func (m Model) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input = ""
		return m, nil
	case tea.KeyEnter:
		m.mode = modeBrowse
		value := m.input
		m.input = ""
		page, err := strconv.Atoi(value)
		if err != nil {
			return m.collect(fmt.Errorf("invalid page %q", value)), nil
		}
		ticket, err := m.ctrl.Select(m.ctx, page)
		return m.afterSelect(ticket, err)
	case tea.KeyBackspace:
		if m.input != "" {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r >= '0' && r <= '9' {
				m.input += string(r)
			}
		}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	flow, open := m.ctrl.Flow()
	if !open {
		m.mode = modeBrowse
		return m, nil
	}
	if flow.Submitting {
		return m, nil
	}
	switch msg.String() {
	case "y", "enter":
		req, err := m.ctrl.BeginConfirm()
		if err != nil {
			return m.collect(err), nil
		}
		return m, submitDelete(m.ctx, m.ctrl, req)
	case "n", "esc":
		m.ctrl.CancelDelete()
		m.mode = modeBrowse
		return m.info("Deletion cancelled"), nil
	case "e":
		m.mode = modeEditNote
		m.input = flow.Note
		return m, nil
	}
	return m, nil
}

func (m Model) handleNoteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeConfirm
		m.input = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.ctrl.SetNote(strings.TrimSpace(m.input)); err != nil {
			m = m.collect(err)
		}
		m.mode = modeConfirm
		m.input = ""
		return m, nil
	case tea.KeyBackspace:
		if m.input != "" {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.input += " "
		return m, nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m Model) handleSideLoaded(msg sideLoadedMsg) (tea.Model, tea.Cmd) {
	m.ctrl.ApplySide(m.ctx, msg.Generation, msg.Side, msg.Snapshot)
	return m.collect(nil), nil
}

func (m Model) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	err := m.ctrl.CompleteDelete(m.ctx, msg.Request, msg.Err)
	m = m.collect(err)
	if _, open := m.ctrl.Flow(); !open {
		m.mode = modeBrowse
	}
	return m, nil
}
