package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"dupereview/internal/enrich"
	"dupereview/internal/review"
)

// fetchSide looks up one side of the pair selected by ticket.
func fetchSide(ctx context.Context, fetcher SideFetcher, ticket review.Ticket, side enrich.Side) tea.Cmd {
	return func() tea.Msg {
		return sideLoadedMsg{
			Generation: ticket.Generation,
			Side:       side,
			Snapshot:   fetcher.FetchSide(ctx, ticket.SceneID(side)),
		}
	}
}

// enrichPair starts independent lookups for both sides.
func enrichPair(ctx context.Context, fetcher SideFetcher, ticket review.Ticket) tea.Cmd {
	if fetcher == nil {
		return nil
	}
	return tea.Batch(
		fetchSide(ctx, fetcher, ticket, enrich.SideA),
		fetchSide(ctx, fetcher, ticket, enrich.SideB),
	)
}

func submitDelete(ctx context.Context, ctrl *review.Controller, req review.DeleteRequest) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{Request: req, Err: ctrl.Submit(ctx, req)}
	}
}
