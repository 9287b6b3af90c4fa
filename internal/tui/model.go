package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"dupereview/internal/enrich"
	"dupereview/internal/review"
	"dupereview/internal/services"
)

// SideFetcher resolves one scene id.
type SideFetcher interface {
	FetchSide(ctx context.Context, id string) enrich.Snapshot
}

// Exporter writes the current batch and returns the file path.
type Exporter func() (string, error)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeGoto
	modeConfirm
	modeEditNote
)

const maxNotices = 5

// Model is the bubbletea model for a review session.
type Model struct {
	ctx     context.Context
	ctrl    *review.Controller
	fetcher SideFetcher
	export  Exporter

	mode     inputMode
	input    string
	notices  []review.Notice
	width    int
	quitting bool
}

// New builds a Model over ctrl. The controller should already have a session
// started; the first pair is enriched from Init.
func New(ctx context.Context, ctrl *review.Controller, fetcher SideFetcher, export Exporter) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	return Model{ctx: ctx, ctrl: ctrl, fetcher: fetcher, export: export}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	ticket, ok := m.ctrl.Ticket()
	if !ok {
		return nil
	}
	return enrichPair(m.ctx, m.fetcher, ticket)
}

// Run starts the program on the current terminal.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx)).Run()
	return err
}

// collect moves controller notices into the model, falling back to err when
// the controller produced none.
func (m Model) collect(err error) Model {
	notices := m.ctrl.Notices()
	if len(notices) == 0 && err != nil {
		notices = []review.Notice{noticeFromError(err)}
	}
	m.notices = append(m.notices, notices...)
	if over := len(m.notices) - maxNotices; over > 0 {
		m.notices = append([]review.Notice(nil), m.notices[over:]...)
	}
	return m
}

func (m Model) info(msg string) Model {
	m.notices = append(m.notices, review.Notice{Level: review.LevelInfo, Message: msg})
	return m.collect(nil)
}

func noticeFromError(err error) review.Notice {
	kind := services.Kind(err)
	level := review.LevelError
	if kind == services.KindInput || kind == services.KindPrecondition {
		level = review.LevelWarn
	}
	return review.Notice{Level: level, Kind: kind, Message: err.Error()}
}
