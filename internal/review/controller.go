package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dupereview/internal/batch"
	"dupereview/internal/enrich"
	"dupereview/internal/logging"
	"dupereview/internal/services"
	"dupereview/internal/session"
)

const component = "review"

// Submitter files destroy edits with the catalog.
type Submitter interface {
	SubmitDestroy(ctx context.Context, id, note string) (string, error)
}

// Ticket identifies one selection of a pair. Enrichment results must be
// applied with the generation from the ticket they were fetched for.
type Ticket struct {
	Generation uint64
	Page       int
	Index      int
	SceneA     string
	SceneB     string
}

// SceneID returns the scene id for side.
func (t Ticket) SceneID(side enrich.Side) string {
	if side == enrich.SideB {
		return t.SceneB
	}
	return t.SceneA
}

// SideState is the enrichment state shown for one side.
type SideState struct {
	Snapshot enrich.Snapshot
	// Fresh is set once Snapshot belongs to the current selection.
	Fresh bool
	// Pending is set while a lookup for the current selection is outstanding.
	Pending bool
	// Err is the last lookup failure for the current selection.
	Err error
}

// Stale reports whether the displayed snapshot predates the current selection.
func (s SideState) Stale() bool {
	return !s.Fresh && s.Snapshot.SceneID != ""
}

// Controller applies reviewer actions and enrichment results to a session.
type Controller struct {
	sessions  *session.Manager
	submitter Submitter
	baseURL   string
	logger    *slog.Logger

	generation uint64
	selected   bool
	ticket     Ticket
	sides      [2]SideState
	flow       *DeleteFlow
	notices    []Notice
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logging.NewComponentLogger(logger, component)
	}
}

// NewController builds a Controller. baseURL is the catalog site used in
// generated edit notes.
func NewController(sessions *session.Manager, submitter Submitter, baseURL string, opts ...Option) *Controller {
	c := &Controller{
		sessions:  sessions,
		submitter: submitter,
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		logger:    logging.NewComponentLogger(nil, component),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session being reviewed.
func (c *Controller) Session() *session.Session {
	return c.sessions.Current()
}

// Generation returns the current selection generation.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// Ticket returns the current selection, or false when no pair is selected.
func (c *Controller) Ticket() (Ticket, bool) {
	return c.ticket, c.selected
}

// Side returns the enrichment state for side.
func (c *Controller) Side(side enrich.Side) SideState {
	return c.sides[side]
}

// Flow returns a copy of the open delete flow.
func (c *Controller) Flow() (DeleteFlow, bool) {
	if c.flow == nil {
		return DeleteFlow{}, false
	}
	return *c.flow, true
}

// Status returns the status of the selected row.
func (c *Controller) Status() batch.Status {
	row, ok := c.currentRow()
	if !ok {
		return batch.StatusUnset
	}
	return row.Status
}

// Notices drains pending reviewer messages.
func (c *Controller) Notices() []Notice {
	out := c.notices
	c.notices = nil
	return out
}

func (c *Controller) notify(n Notice) {
	c.notices = append(c.notices, n)
}

func (c *Controller) contextLogger(ctx context.Context) *slog.Logger {
	if s := c.sessions.Current(); s != nil {
		ctx = services.WithSessionID(ctx, s.ID)
	}
	if c.selected {
		ctx = services.WithPage(ctx, c.ticket.Page)
	}
	return logging.WithContext(ctx, c.logger)
}

func (c *Controller) currentRow() (*batch.CandidateRow, bool) {
	if !c.selected {
		return nil, false
	}
	return c.sessions.Current().Row(c.ticket.Index)
}

func (c *Controller) submitting() bool {
	return c.flow != nil && c.flow.Submitting
}

// Start selects the session's current page without persisting it. It is
// called after a load or restore.
func (c *Controller) Start() (Ticket, bool) {
	s := c.sessions.Current()
	entry, ok := s.Current()
	if !ok {
		c.blank()
		return Ticket{}, false
	}
	c.selectEntry(s.Page(), entry)
	return c.ticket, true
}

// Select moves to page, persists it, and starts a new generation. A page
// outside the active set clears the selection and its enrichment.
func (c *Controller) Select(ctx context.Context, page int) (Ticket, error) {
	if c.submitting() {
		return Ticket{}, services.Wrap(services.ErrPrecondition, component, "select", "a deletion is being submitted", nil)
	}
	s := c.sessions.Current()
	if s == nil {
		return Ticket{}, services.Wrap(services.ErrPrecondition, component, "select", "no session loaded", nil)
	}
	entry, ok := s.At(page)
	if !ok {
		c.blank()
		return Ticket{}, services.Wrap(services.ErrInput, component, "select",
			fmt.Sprintf("page %d is outside 1..%d", page, s.PageCount()), nil)
	}
	if err := c.sessions.SetPage(ctx, page); err != nil {
		c.notify(errorNotice("could not save page", err))
		return Ticket{}, err
	}
	c.selectEntry(page, entry)
	return c.ticket, nil
}

// Next selects the following page.
func (c *Controller) Next(ctx context.Context) (Ticket, error) {
	return c.Select(ctx, c.ticket.Page+1)
}

// Prev selects the preceding page.
func (c *Controller) Prev(ctx context.Context) (Ticket, error) {
	return c.Select(ctx, c.ticket.Page-1)
}

// Refresh starts a new generation for the current pair so it is enriched again.
func (c *Controller) Refresh() (Ticket, bool) {
	if !c.selected || c.submitting() {
		return c.ticket, false
	}
	entry, ok := c.sessions.Current().At(c.ticket.Page)
	if !ok {
		return c.ticket, false
	}
	c.selectEntry(c.ticket.Page, entry)
	return c.ticket, true
}

func (c *Controller) selectEntry(page int, entry session.Entry) {
	c.generation++
	c.selected = true
	c.flow = nil
	c.ticket = Ticket{
		Generation: c.generation,
		Page:       page,
		Index:      entry.Index,
		SceneA:     entry.Row.SceneAID,
		SceneB:     entry.Row.SceneBID,
	}
	for i := range c.sides {
		c.sides[i].Fresh = false
		c.sides[i].Pending = true
		c.sides[i].Err = nil
	}
}

func (c *Controller) blank() {
	c.generation++
	c.selected = false
	c.ticket = Ticket{Generation: c.generation}
	c.sides = [2]SideState{}
	c.flow = nil
}

// ApplySide records one side's enrichment. Results from an older generation
// are dropped and false is returned. A failed lookup keeps the previously
// shown snapshot in place.
func (c *Controller) ApplySide(ctx context.Context, generation uint64, side enrich.Side, snap enrich.Snapshot) bool {
	logger := c.contextLogger(ctx)
	if !c.selected || generation != c.generation {
		logger.Debug("discarding stale enrichment",
			logging.Side(side),
			logging.SceneID(snap.SceneID),
			logging.Any("generation", generation),
			logging.Any("current_generation", c.generation),
		)
		return false
	}
	state := &c.sides[side]
	state.Pending = false
	if snap.Err != nil {
		state.Err = snap.Err
		if snap.Scene == nil {
			c.notify(errorNotice(fmt.Sprintf("side %s (%s) could not be loaded", side, snap.SceneID), snap.Err))
			return true
		}
		c.notify(errorNotice(fmt.Sprintf("pending edits for side %s (%s) could not be checked", side, snap.SceneID), snap.Err))
		// The scene record arrived without its pending-edit count; a
		// deleted record still decides the override.
		state.Snapshot = snap
		state.Fresh = true
		c.applyOverride(ctx)
		return true
	}
	state.Snapshot = snap
	state.Fresh = true
	state.Err = nil
	c.applyOverride(ctx)
	return true
}

// ApplyEnrichment records both sides of a fetch.
func (c *Controller) ApplyEnrichment(ctx context.Context, generation uint64, result enrich.PairResult) bool {
	applied := c.ApplySide(ctx, generation, enrich.SideA, result.A)
	return c.ApplySide(ctx, generation, enrich.SideB, result.B) && applied
}

// applyOverride forces Delete when fresh enrichment shows a side is already
// deleted or pending deletion.
func (c *Controller) applyOverride(ctx context.Context) {
	row, ok := c.currentRow()
	if !ok || row.Status == batch.StatusDelete {
		return
	}
	for _, side := range enrich.Sides {
		state := c.sides[side]
		if !state.Fresh || !state.Snapshot.AlreadyDeleted() {
			continue
		}
		previous := row.Status
		if err := c.sessions.SetStatus(ctx, c.ticket.Index, batch.StatusDelete); err != nil {
			c.notify(errorNotice("could not record automatic Delete", err))
			return
		}
		c.contextLogger(ctx).Info("status overridden by catalog state",
			logging.EventType("status_override"),
			logging.Side(side),
			logging.SceneID(state.Snapshot.SceneID),
			logging.String("previous", previous.Label()),
		)
		c.notify(infoNotice(fmt.Sprintf("Scene %s %s is already deleted or pending deletion; pair marked Delete",
			side, state.Snapshot.SceneID)))
		return
	}
}

// Mark records a manual disposition on the selected pair. Delete is only
// reachable through the delete flow or the automatic override.
func (c *Controller) Mark(ctx context.Context, status batch.Status) error {
	if !c.selected {
		return services.Wrap(services.ErrPrecondition, component, "mark", "no pair selected", nil)
	}
	if c.submitting() {
		return services.Wrap(services.ErrPrecondition, component, "mark", "a deletion is being submitted", nil)
	}
	if status == batch.StatusUnset {
		status = batch.StatusReview
	}
	if status == batch.StatusDelete {
		return services.Wrap(services.ErrValidation, component, "mark",
			"Delete is recorded by submitting a destroy edit", nil)
	}
	if err := c.sessions.SetStatus(ctx, c.ticket.Index, status); err != nil {
		c.notify(errorNotice("could not record status", err))
		return err
	}
	c.applyOverride(ctx)
	return nil
}

// RequestDelete opens a delete flow for side, pre-filled with a note pointing
// at the other side. It is refused when that side is already deleted or has
// a destroy edit pending, or when its details have not been loaded.
func (c *Controller) RequestDelete(side enrich.Side) (DeleteFlow, error) {
	if !c.selected {
		return DeleteFlow{}, services.Wrap(services.ErrPrecondition, component, "request delete", "no pair selected", nil)
	}
	if c.submitting() {
		return DeleteFlow{}, services.Wrap(services.ErrPrecondition, component, "request delete", "a deletion is being submitted", nil)
	}
	state := c.sides[side]
	if !state.Fresh {
		err := services.Wrap(services.ErrPrecondition, component, "request delete",
			fmt.Sprintf("scene %s details are not loaded", side), nil)
		c.notify(errorNotice("cannot delete yet", err))
		return DeleteFlow{}, err
	}
	if state.Snapshot.AlreadyDeleted() {
		err := services.Wrap(services.ErrPrecondition, component, "request delete",
			fmt.Sprintf("scene %s is already marked for deletion", side), nil)
		c.notify(Notice{Level: LevelWarn, Kind: services.KindPrecondition,
			Message: fmt.Sprintf("Scene %s is already marked for deletion", side)})
		return DeleteFlow{}, err
	}
	if state.Err != nil {
		err := services.Wrap(services.ErrPrecondition, component, "request delete",
			fmt.Sprintf("pending edits for scene %s could not be checked; refresh first", side), state.Err)
		c.notify(errorNotice("cannot delete yet", err))
		return DeleteFlow{}, err
	}
	otherID := c.ticket.SceneID(side.Other())
	c.flow = &DeleteFlow{
		Index:   c.ticket.Index,
		Side:    side,
		SceneID: c.ticket.SceneID(side),
		OtherID: otherID,
		Note:    DupeNote(c.baseURL, otherID),
	}
	return *c.flow, nil
}

// SetNote replaces the note on the open delete flow.
func (c *Controller) SetNote(note string) error {
	if c.flow == nil || c.flow.Submitting {
		return services.Wrap(services.ErrPrecondition, component, "set note", "no editable delete flow", nil)
	}
	c.flow.Note = note
	return nil
}

// CancelDelete closes the delete flow without changing anything. It returns
// false when there is nothing to cancel or a submission is in flight.
func (c *Controller) CancelDelete() bool {
	if c.flow == nil || c.flow.Submitting {
		return false
	}
	c.flow = nil
	return true
}

// BeginConfirm validates the open flow and marks it as submitting. The
// returned request is passed to Submit and then CompleteDelete.
func (c *Controller) BeginConfirm() (DeleteRequest, error) {
	if c.flow == nil {
		return DeleteRequest{}, services.Wrap(services.ErrPrecondition, component, "confirm delete", "no delete flow open", nil)
	}
	if c.flow.Submitting {
		return DeleteRequest{}, services.Wrap(services.ErrPrecondition, component, "confirm delete", "already submitting", nil)
	}
	note := strings.TrimSpace(c.flow.Note)
	if note == "" {
		err := services.Wrap(services.ErrValidation, component, "confirm delete", "an edit note is required", nil)
		c.flow.LastErr = err
		return DeleteRequest{}, err
	}
	if c.submitter == nil {
		return DeleteRequest{}, services.Wrap(services.ErrConfiguration, component, "confirm delete", "no catalog client configured", nil)
	}
	c.flow.Submitting = true
	c.flow.LastErr = nil
	return DeleteRequest{Index: c.flow.Index, Side: c.flow.Side, SceneID: c.flow.SceneID, Note: note}, nil
}

// Submit files the destroy edit for req. It touches no controller state and
// may run off the event loop.
func (c *Controller) Submit(ctx context.Context, req DeleteRequest) error {
	_, err := c.submitter.SubmitDestroy(ctx, req.SceneID, req.Note)
	return err
}

// CompleteDelete applies the outcome of a submission. On failure the flow
// stays open for another attempt; on success the row is marked Delete and the
// flow closes.
func (c *Controller) CompleteDelete(ctx context.Context, req DeleteRequest, submitErr error) error {
	var flow *DeleteFlow
	if c.flow != nil && c.flow.Index == req.Index && c.flow.SceneID == req.SceneID {
		flow = c.flow
		flow.Submitting = false
	}
	logger := c.contextLogger(ctx)
	if submitErr != nil {
		if !errors.Is(submitErr, services.ErrSubmission) {
			submitErr = services.Wrap(services.ErrSubmission, component, "confirm delete", "destroy edit failed", submitErr)
		}
		if flow != nil {
			flow.LastErr = submitErr
		}
		logging.WarnWithContext(logger, "destroy edit failed", "delete_submit_failed",
			logging.SceneID(req.SceneID),
			logging.Error(submitErr),
			logging.String(logging.FieldErrorHint, "retry from the confirmation prompt"),
			logging.String(logging.FieldImpact, "pair status unchanged"),
		)
		c.notify(errorNotice("destroy edit failed", submitErr))
		return submitErr
	}
	if flow != nil {
		c.flow = nil
	}
	if err := c.sessions.SetStatus(ctx, req.Index, batch.StatusDelete); err != nil {
		c.notify(errorNotice("destroy edit filed but status not saved", err))
		return err
	}
	logger.Info("destroy edit submitted",
		logging.Side(req.Side),
		logging.SceneID(req.SceneID),
	)
	c.notify(infoNotice(fmt.Sprintf("Destroy edit submitted for scene %s; pair marked Delete", req.SceneID)))
	return nil
}

// ConfirmDelete submits the open flow synchronously.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	req, err := c.BeginConfirm()
	if err != nil {
		return err
	}
	return c.CompleteDelete(ctx, req, c.Submit(ctx, req))
}
