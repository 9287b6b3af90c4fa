package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dupereview/internal/batch"
	"dupereview/internal/logging"
	"dupereview/internal/services"
)

// Store is the durable key/value interface a Manager persists through.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Manager owns the current session and keeps the store in step with it.
type Manager struct {
	store   Store
	key     string
	logger  *slog.Logger
	now     func() time.Time
	current *Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logging.NewComponentLogger(logger, "session")
	}
}

// WithClock overrides the time source used for saved_at stamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager builds a Manager persisting under key.
func NewManager(store Store, key string, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		key:    key,
		logger: logging.NewComponentLogger(nil, "session"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the active session, or nil when none is loaded.
func (m *Manager) Current() *Session {
	return m.current
}

func (m *Manager) contextLogger(ctx context.Context) *slog.Logger {
	if m.current != nil {
		ctx = services.WithSessionID(ctx, m.current.ID)
	}
	return logging.WithContext(ctx, m.logger)
}

// Load replaces the session with b filtered by mode and persists it. On error
// the previous session, in memory and in the store, is left untouched.
func (m *Manager) Load(ctx context.Context, b *batch.Batch, mode batch.Mode) (*Session, error) {
	if b == nil {
		return nil, services.Wrap(services.ErrInput, "session", "load", "no batch to load", nil)
	}
	next := newSession(uuid.NewString(), b, mode)
	if err := m.persist(ctx, next); err != nil {
		return nil, err
	}
	m.current = next
	m.contextLogger(ctx).Info("session loaded",
		logging.String("filename", b.Filename),
		logging.String("mode", string(mode)),
		logging.Int("rows", b.Len()),
		logging.Int("active", next.PageCount()),
	)
	return next, nil
}

// Restore rebuilds the session from the store. It returns (nil, nil) when
// nothing is stored. The active view is recomputed from the stored statuses
// using the stored mode, and the page resets to 1.
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	data, err := m.store.Get(ctx, m.key)
	if errors.Is(err, services.ErrNotFound) {
		m.current = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	dec, err := decode(data)
	if err != nil {
		return nil, err
	}

	id := dec.id
	if id == "" {
		id = uuid.NewString()
	}
	restored := newSession(id, dec.batch, dec.mode)
	restored.SavedAt = dec.savedAt
	restored.LastPage = dec.page
	m.current = restored

	if dec.migrated {
		if err := m.persist(ctx, restored); err != nil {
			return nil, fmt.Errorf("migrate legacy session: %w", err)
		}
		m.contextLogger(ctx).Info("legacy session migrated",
			logging.String("filename", restored.Filename()),
			logging.Int("rows", restored.Batch.Len()),
		)
	}
	m.contextLogger(ctx).Debug("session restored",
		logging.String("filename", restored.Filename()),
		logging.Int("active", restored.PageCount()),
	)
	return restored, nil
}

// Save persists the current session.
func (m *Manager) Save(ctx context.Context) error {
	if m.current == nil {
		return services.Wrap(services.ErrPrecondition, "session", "save", "no session loaded", nil)
	}
	return m.persist(ctx, m.current)
}

func (m *Manager) persist(ctx context.Context, s *Session) error {
	savedAt := m.now()
	data, err := encode(s, savedAt)
	if err != nil {
		return err
	}
	if err := m.store.Put(ctx, m.key, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.SavedAt = savedAt
	return nil
}

// SetStatus records status on the row at a batch index and persists. If the
// write fails the in-memory status is restored. The active view is not
// recomputed; a decided row stays on its page until the next load.
func (m *Manager) SetStatus(ctx context.Context, index int, status batch.Status) error {
	if m.current == nil {
		return services.Wrap(services.ErrPrecondition, "session", "set status", "no session loaded", nil)
	}
	if !status.Known() {
		return services.Wrap(services.ErrValidation, "session", "set status",
			fmt.Sprintf("unknown status %q", status), nil)
	}
	row, ok := m.current.Row(index)
	if !ok {
		return services.Wrap(services.ErrInput, "session", "set status",
			fmt.Sprintf("row %d is out of range", index), nil)
	}
	previous := row.Status
	if previous == status {
		return nil
	}
	row.Status = status
	if err := m.persist(ctx, m.current); err != nil {
		row.Status = previous
		return err
	}
	m.contextLogger(ctx).Info("status recorded",
		logging.Int("row", index),
		logging.Status(status.Label()),
		logging.String("previous", previous.Label()),
	)
	return nil
}

// SetPage moves to page and records it. Pages outside [1, PageCount] are rejected.
func (m *Manager) SetPage(ctx context.Context, page int) error {
	if m.current == nil {
		return services.Wrap(services.ErrPrecondition, "session", "set page", "no session loaded", nil)
	}
	if page < 1 || page > m.current.PageCount() {
		return services.Wrap(services.ErrInput, "session", "set page",
			fmt.Sprintf("page %d is outside 1..%d", page, m.current.PageCount()), nil)
	}
	if page == m.current.page {
		return nil
	}
	previous := m.current.page
	m.current.page = page
	if err := m.persist(ctx, m.current); err != nil {
		m.current.page = previous
		return err
	}
	m.contextLogger(ctx).Debug("page recorded", logging.Page(page))
	return nil
}

// Clear erases the stored session and forgets the in-memory one.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if m.current != nil {
		m.contextLogger(ctx).Info("session cleared", logging.String("filename", m.current.Filename()))
	}
	m.current = nil
	return nil
}
