package quota

import "time"

// WindowKind identifies a usage window.
type WindowKind string

const (
	WindowDaily   WindowKind = "daily"
	WindowMonthly WindowKind = "monthly"
)

// Usage is the persisted consumption snapshot of one window.
type Usage struct {
	Kind             WindowKind
	WindowStart      time.Time
	ConsumedChars    int64
	ConsumedRequests int64
}

// Limits holds the configured budget per window. A zero limit means
// unlimited for that dimension.
type Limits struct {
	DailyChars      int64
	DailyRequests   int64
	MonthlyChars    int64
	MonthlyRequests int64
}

// DefaultLimits mirrors the DeepL free tier: 500k characters per month
// and 1000 requests per day. The daily character budget defaults to the
// monthly budget when not set explicitly.
func DefaultLimits() Limits {
	return Limits{
		DailyChars:    500000,
		DailyRequests: 1000,
		MonthlyChars:  500000,
	}
}

type window struct {
	kind         WindowKind
	start        time.Time
	chars        int64
	requests     int64
	charLimit    int64
	requestLimit int64
	exhausted    bool
}

// boundary returns the instant the window resets: the next UTC-midnight
// after windowStart for daily windows, the first UTC-midnight of the
// following calendar month for monthly windows.
func (w *window) boundary() time.Time {
	s := w.start.UTC()
	switch w.kind {
	case WindowMonthly:
		return time.Date(s.Year(), s.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	default:
		return time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	}
}

// maybeReset zeroes the window if now has crossed the boundary and
// reports whether a reset happened. Aligning the new start to the
// period boundary keeps the reset idempotent: a second caller at the
// same instant observes the already-reset state.
func (w *window) maybeReset(now time.Time) bool {
	now = now.UTC()
	if now.Before(w.boundary()) {
		return false
	}
	switch w.kind {
	case WindowMonthly:
		w.start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		w.start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	w.chars = 0
	w.requests = 0
	w.exhausted = false
	return true
}

// fits reports whether charging charCount more characters and one more
// request stays within the window limits.
func (w *window) fits(charCount int64) bool {
	if w.charLimit > 0 && w.chars+charCount > w.charLimit {
		return false
	}
	if w.requestLimit > 0 && w.requests+1 > w.requestLimit {
		return false
	}
	return true
}

func (w *window) usage() Usage {
	return Usage{
		Kind:             w.kind,
		WindowStart:      w.start,
		ConsumedChars:    w.chars,
		ConsumedRequests: w.requests,
	}
}
