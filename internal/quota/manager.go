package quota

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Store persists window usage across process restarts. A missing or
// unreadable store is never fatal; the manager starts from zeroed
// counters instead.
type Store interface {
	Load(ctx context.Context) ([]Usage, error)
	Save(ctx context.Context, usage Usage) error
}

// WindowSnapshot reports one window's consumption for status output.
type WindowSnapshot struct {
	Kind             WindowKind `json:"kind"`
	WindowStart      time.Time  `json:"window_start"`
	ConsumedChars    int64      `json:"consumed_chars"`
	ConsumedRequests int64      `json:"consumed_requests"`
	CharLimit        int64      `json:"char_limit"`
	RequestLimit     int64      `json:"request_limit"`
	Exhausted        bool       `json:"exhausted"`
}

// Manager tracks daily and monthly translation usage against hard
// limits. CanTranslate never mutates counters; RecordUsage must be
// called exactly once per successful external call. All methods share
// one mutex so a check-then-record sequence under a single caller
// cannot interleave with another caller's charge.
type Manager struct {
	mu      sync.Mutex
	daily   window
	monthly window
	store   Store
	nowFn   func() time.Time
}

// NewManager constructs a Manager with the given limits, loading any
// persisted usage from the store.
func NewManager(ctx context.Context, limits Limits, store Store, nowFn func() time.Time) *Manager {
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().UTC()
	m := &Manager{
		daily: window{
			kind:         WindowDaily,
			start:        now,
			charLimit:    limits.DailyChars,
			requestLimit: limits.DailyRequests,
		},
		monthly: window{
			kind:         WindowMonthly,
			start:        now,
			charLimit:    limits.MonthlyChars,
			requestLimit: limits.MonthlyRequests,
		},
		store: store,
		nowFn: nowFn,
	}
	m.load(ctx)
	return m
}

func (m *Manager) load(ctx context.Context) {
	if m.store == nil {
		return
	}
	usages, errLoad := m.store.Load(ctx)
	if errLoad != nil {
		log.WithError(errLoad).Warn("quota: usage store unreadable, starting from zeroed state")
		return
	}
	for _, u := range usages {
		var w *window
		switch u.Kind {
		case WindowDaily:
			w = &m.daily
		case WindowMonthly:
			w = &m.monthly
		default:
			continue
		}
		if !u.WindowStart.IsZero() {
			w.start = u.WindowStart.UTC()
		}
		w.chars = u.ConsumedChars
		w.requests = u.ConsumedRequests
	}
}

// CanTranslate reports whether charging charCount characters plus one
// request would stay inside both windows. Counters are not mutated; a
// rejection flips the offending window to its sticky exhausted state
// until a boundary-crossing reset.
func (m *Manager) CanTranslate(ctx context.Context, charCount int) bool {
	if charCount < 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetLocked(ctx)

	if m.daily.exhausted || m.monthly.exhausted {
		return false
	}

	allowed := true
	if !m.daily.fits(int64(charCount)) {
		m.daily.exhausted = true
		allowed = false
	}
	if !m.monthly.fits(int64(charCount)) {
		m.monthly.exhausted = true
		allowed = false
	}
	return allowed
}

// RecordUsage charges charCount characters and one request to both
// windows and persists the new state. Callers invoke this only after a
// successful external translation call.
func (m *Manager) RecordUsage(ctx context.Context, charCount int) {
	if charCount < 0 {
		charCount = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetLocked(ctx)

	m.daily.chars += int64(charCount)
	m.daily.requests++
	m.monthly.chars += int64(charCount)
	m.monthly.requests++

	m.persistLocked(ctx, &m.daily)
	m.persistLocked(ctx, &m.monthly)
}

// Snapshot returns the current consumption of both windows, applying
// any pending boundary reset first.
func (m *Manager) Snapshot(ctx context.Context) []WindowSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetLocked(ctx)

	return []WindowSnapshot{
		snapshotOf(&m.daily),
		snapshotOf(&m.monthly),
	}
}

// resetLocked applies boundary-crossing resets under the manager lock.
// Only the first caller past a boundary performs the reset; later
// callers observe the already-reset state.
func (m *Manager) resetLocked(ctx context.Context) {
	now := m.nowFn()
	if m.daily.maybeReset(now) {
		log.WithField("window", WindowDaily).Info("quota: window reset")
		m.persistLocked(ctx, &m.daily)
	}
	if m.monthly.maybeReset(now) {
		log.WithField("window", WindowMonthly).Info("quota: window reset")
		m.persistLocked(ctx, &m.monthly)
	}
}

func (m *Manager) persistLocked(ctx context.Context, w *window) {
	if m.store == nil {
		return
	}
	if errSave := m.store.Save(ctx, w.usage()); errSave != nil {
		log.WithError(errSave).WithField("window", w.kind).
			Warn("quota: persist failed, continuing with in-memory counters")
	}
}

func snapshotOf(w *window) WindowSnapshot {
	return WindowSnapshot{
		Kind:             w.kind,
		WindowStart:      w.start,
		ConsumedChars:    w.chars,
		ConsumedRequests: w.requests,
		CharLimit:        w.charLimit,
		RequestLimit:     w.requestLimit,
		Exhausted:        w.exhausted,
	}
}
