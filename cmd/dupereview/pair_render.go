package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"dupereview/internal/catalog"
	"dupereview/internal/enrich"
	"dupereview/internal/review"
	"dupereview/internal/session"
)

// selectAndEnrich moves the controller to page and applies a fresh lookup of
// both sides, which also runs the automatic Delete override.
func selectAndEnrich(ctx context.Context, ctrl *review.Controller, source enrich.Source, logger *slog.Logger, page int) (review.Ticket, error) {
	ticket, err := ctrl.Select(ctx, page)
	if err != nil {
		return review.Ticket{}, err
	}
	result := enrich.NewFetcher(source, logger).Fetch(ctx, ticket.SceneA, ticket.SceneB)
	ctrl.ApplyEnrichment(ctx, ticket.Generation, result)
	return ticket, nil
}

// defaultPage resumes at the last recorded page when it is still in range.
func defaultPage(s *session.Session) int {
	if s.LastPage >= 1 && s.LastPage <= s.PageCount() {
		return s.LastPage
	}
	return 1
}

func parsePage(arg string) (int, error) {
	page, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid page %q", arg)
	}
	return page, nil
}

func sideScene(state review.SideState) (*catalog.Scene, string) {
	if state.Fresh && state.Snapshot.Scene != nil {
		return state.Snapshot.Scene, ""
	}
	if state.Err != nil {
		return nil, "unavailable: " + state.Err.Error()
	}
	return nil, "not loaded"
}

// comparisonRows builds the field-by-field table for both sides.
func comparisonRows(ctrl *review.Controller) [][]string {
	ticket, _ := ctrl.Ticket()
	a := ctrl.Side(enrich.SideA)
	b := ctrl.Side(enrich.SideB)
	sceneA, problemA := sideScene(a)
	sceneB, problemB := sideScene(b)

	rows := [][]string{{"ID", ticket.SceneA, ticket.SceneB}}
	if sceneA == nil && sceneB == nil {
		return append(rows, []string{"Details", problemA, problemB})
	}

	field := func(label string, get func(enrich.Snapshot) string) {
		valueA, valueB := problemA, problemB
		if sceneA != nil {
			valueA = displayValue(get(a.Snapshot))
		}
		if sceneB != nil {
			valueB = displayValue(get(b.Snapshot))
		}
		rows = append(rows, []string{label, valueA, valueB})
	}

	field("Title", func(s enrich.Snapshot) string {
		if label := s.DeletionLabel(); label != "" {
			return strings.TrimSpace(s.Scene.Title + " " + label)
		}
		return s.Scene.Title
	})
	field("Studio", func(s enrich.Snapshot) string { return s.Scene.StudioName() })
	field("Studio URL", func(s enrich.Snapshot) string { return s.Scene.StudioURL() })
	field("Release date", func(s enrich.Snapshot) string { return s.Scene.ReleaseDate })
	field("Duration", func(s enrich.Snapshot) string { return catalog.FormatDuration(s.Scene.Duration) })
	field("Director", func(s enrich.Snapshot) string { return s.Scene.Director })
	field("Code", func(s enrich.Snapshot) string { return s.Scene.Code })
	field("Performers", func(s enrich.Snapshot) string {
		names := make([]string, 0, len(s.Scene.Performers))
		for _, p := range s.Scene.Performers {
			names = append(names, fmt.Sprintf("%s (%s)", p.Name(), catalog.GenderLabel(p.Performer.Gender)))
		}
		return strings.Join(names, "\n")
	})
	field("Tags", func(s enrich.Snapshot) string { return strings.Join(s.Scene.SortedTags(), ", ") })
	field("Images", func(s enrich.Snapshot) string { return strconv.Itoa(len(s.Scene.Images)) })
	field("Fingerprints", func(s enrich.Snapshot) string { return strconv.Itoa(len(s.Scene.Fingerprints)) })
	field("Pending deletes", func(s enrich.Snapshot) string { return strconv.Itoa(s.PendingDeleteCount) })
	return rows
}

func similarityRows(ctrl *review.Controller) [][]string {
	ticket, ok := ctrl.Ticket()
	if !ok {
		return nil
	}
	row, ok := ctrl.Session().Row(ticket.Index)
	if !ok {
		return nil
	}
	sims := row.Similarities()
	rows := make([][]string, 0, len(sims))
	for _, sim := range sims {
		rows = append(rows, []string{sim.Label, displayValue(sim.Verdict.Display(sim.Value))})
	}
	return rows
}

func fingerprintRows(scene *catalog.Scene) [][]string {
	rows := make([][]string, 0, len(scene.Fingerprints))
	for _, fp := range scene.Fingerprints {
		mine := ""
		if fp.UserSubmitted {
			mine = "yes"
		}
		rows = append(rows, []string{
			fp.Algorithm,
			fp.Hash,
			displayValue(catalog.FormatDuration(fp.Duration)),
			strconv.Itoa(fp.Submissions),
			mine,
		})
	}
	return rows
}

func linkRows(scene *catalog.Scene) [][]string {
	rows := make([][]string, 0, len(scene.URLs))
	for _, u := range scene.URLs {
		rows = append(rows, []string{displayValue(u.Site.Name), u.URL})
	}
	return rows
}

// renderPair writes the full comparison for the selected pair.
func renderPair(out io.Writer, ctrl *review.Controller, sceneURL func(string) string, details bool) {
	ticket, ok := ctrl.Ticket()
	if !ok {
		fmt.Fprintln(out, "No pair selected.")
		return
	}
	s := ctrl.Session()
	colorize := shouldColorize(out)
	status := ctrl.Status()
	heading := fmt.Sprintf("Page %d of %d · row %d", ticket.Page, s.PageCount(), ticket.Index+1)
	for _, line := range renderSectionHeader(heading, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Status", dispositionKind(status), status.Label(), colorize))
	fmt.Fprintln(out)

	fmt.Fprintln(out, renderTable([]string{"", "Scene A", "Scene B"}, comparisonRows(ctrl), nil))
	fmt.Fprintln(out, renderTable([]string{"Similarity", "Value"}, similarityRows(ctrl), nil))

	if details {
		for _, side := range enrich.Sides {
			scene, _ := sideScene(ctrl.Side(side))
			if scene == nil {
				continue
			}
			title := fmt.Sprintf("Scene %s · %s", side, sceneURL(scene.ID))
			if len(scene.Fingerprints) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Algorithm", "Hash", "Duration", "Submissions", "Mine"},
					fingerprintRows(scene),
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
					tableOptions{title: title + " · fingerprints"},
				))
			}
			if len(scene.URLs) > 0 {
				fmt.Fprintln(out, renderTable([]string{"Site", "URL"}, linkRows(scene), nil, tableOptions{title: title + " · links"}))
			}
		}
	}
	printNotices(out, ctrl.Notices(), colorize)
}
