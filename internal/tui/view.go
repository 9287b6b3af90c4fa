package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dupereview/internal/batch"
	"dupereview/internal/catalog"
	"dupereview/internal/enrich"
	"dupereview/internal/review"
)

const maxListed = 6

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	if _, ok := m.ctrl.Ticket(); !ok {
		b.WriteString(mutedStyle.Render("Nothing to review on this page."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.card(enrich.SideA),
			" ",
			m.card(enrich.SideB),
		))
		b.WriteString("\n")
		b.WriteString(m.similarities())
		b.WriteString("\n")
	}

	if flow, open := m.ctrl.Flow(); open {
		b.WriteString(m.dialog(flow))
		b.WriteString("\n")
	}
	if m.mode == modeGoto {
		b.WriteString("Go to page: " + m.input + "_\n")
	}
	for _, n := range m.notices {
		b.WriteString(renderNotice(n))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help()))
	return b.String()
}

func (m Model) header() string {
	s := m.ctrl.Session()
	if s == nil {
		return titleStyle.Render("dupereview") + " · no session loaded"
	}
	ticket, ok := m.ctrl.Ticket()
	page := "-"
	if ok {
		page = fmt.Sprintf("%d/%d", ticket.Page, s.PageCount())
	}
	parts := []string{
		titleStyle.Render("dupereview"),
		s.Filename(),
		"Page " + page,
		"mode " + string(s.Mode),
	}
	if ok {
		parts = append(parts, statusStyle.Render(m.ctrl.Status().Label()))
	}
	return strings.Join(parts, " · ")
}

func (m Model) card(side enrich.Side) string {
	state := m.ctrl.Side(side)
	ticket, _ := m.ctrl.Ticket()
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render("Scene "+side.String()), ticket.SceneID(side))

	snap := state.Snapshot
	switch {
	case snap.Scene == nil && state.Pending:
		b.WriteString(mutedStyle.Render("loading..."))
		return cardStyle.Render(b.String())
	case snap.Scene == nil:
		if state.Err != nil {
			b.WriteString(errorStyle.Render("unavailable"))
		}
		return cardStyle.Render(b.String())
	}
	if state.Stale() {
		b.WriteString(warnStyle.Render("stale: showing "+snap.SceneID) + "\n")
	} else if state.Pending {
		b.WriteString(mutedStyle.Render("refreshing...") + "\n")
	}

	scene := snap.Scene
	title := scene.Title
	if label := snap.DeletionLabel(); label != "" {
		title += " " + errorStyle.Render(label)
	}
	b.WriteString(title + "\n")
	writeField(&b, "Studio", scene.StudioName())
	writeField(&b, "Studio URL", scene.StudioURL())
	writeField(&b, "Release", scene.ReleaseDate)
	writeField(&b, "Duration", catalog.FormatDuration(scene.Duration))
	writeField(&b, "Director", scene.Director)
	writeField(&b, "Code", scene.Code)

	if len(scene.Performers) > 0 {
		names := make([]string, 0, len(scene.Performers))
		for _, p := range scene.Performers {
			names = append(names, fmt.Sprintf("%s (%s)", p.Name(), catalog.GenderLabel(p.Performer.Gender)))
		}
		writeField(&b, "Performers", truncateList(names))
	}
	writeField(&b, "Tags", truncateList(scene.SortedTags()))
	writeField(&b, "Fingerprints", fmt.Sprintf("%d", len(scene.Fingerprints)))
	if snap.PendingDeleteCount > 0 {
		writeField(&b, "Pending deletes", fmt.Sprintf("%d", snap.PendingDeleteCount))
	}
	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s %s\n", mutedStyle.Render(label+":"), value)
}

func truncateList(items []string) string {
	if len(items) <= maxListed {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:maxListed], ", ") + fmt.Sprintf(" +%d more", len(items)-maxListed)
}

func (m Model) similarities() string {
	ticket, ok := m.ctrl.Ticket()
	if !ok {
		return ""
	}
	row, ok := m.ctrl.Session().Row(ticket.Index)
	if !ok {
		return ""
	}
	parts := make([]string, 0, 5)
	for _, sim := range row.Similarities() {
		value := sim.Verdict.Display(sim.Value)
		switch sim.Verdict {
		case batch.VerdictIdentical:
			value = successStyle.Render(value)
		case batch.VerdictDifferent:
			value = errorStyle.Render(value)
		}
		if value == "" {
			value = "-"
		}
		parts = append(parts, sim.Label+": "+value)
	}
	return strings.Join(parts, "  |  ")
}

func (m Model) dialog(flow review.DeleteFlow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Delete scene %s (%s)?\n", flow.Side, flow.SceneID)
	if m.mode == modeEditNote {
		fmt.Fprintf(&b, "Note: %s_\n", m.input)
	} else {
		fmt.Fprintf(&b, "Note: %s\n", flow.Note)
	}
	switch {
	case flow.Submitting:
		b.WriteString(mutedStyle.Render("submitting..."))
	case flow.LastErr != nil:
		b.WriteString(errorStyle.Render(flow.LastErr.Error()) + "\n")
		b.WriteString("y retry · e edit note · n cancel")
	default:
		b.WriteString("y submit · e edit note · n cancel")
	}
	return dialogStyle.Render(b.String())
}

func renderNotice(n review.Notice) string {
	switch n.Level {
	case review.LevelError:
		return errorStyle.Render(n.Message)
	case review.LevelWarn:
		return warnStyle.Render(n.Message)
	default:
		return successStyle.Render(n.Message)
	}
}

func (m Model) help() string {
	switch m.mode {
	case modeGoto:
		return "enter go · esc cancel"
	case modeConfirm:
		return "y confirm · n cancel · e edit note"
	case modeEditNote:
		return "enter save note · esc discard"
	default:
		return "←/→ page · g goto · a/b dupe delete · m merge · r redistribution · d different · u review · f refresh · s export · q quit"
	}
}
