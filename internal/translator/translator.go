package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/feedforge/multimarket/internal/quota"
	log "github.com/sirupsen/logrus"
)

// Client performs one external translation call.
type Client interface {
	Translate(ctx context.Context, text, targetLocale string) (string, error)
}

// Outcome is the result of a gated translation request. Translated is
// false when the text is a deterministic placeholder, so downstream
// consumers never mistake a fallback for machine-translated content.
type Outcome struct {
	Text       string
	Translated bool
}

// Service gates translation calls through the quota manager. A single
// mutex serializes check-call-record: the external free tier allows one
// in-flight request, and the same lock keeps two concurrent callers
// from jointly overshooting the character budget.
type Service struct {
	mu       sync.Mutex
	client   Client
	quota    *quota.Manager
	attempts int
	backoff  time.Duration
}

// NewService constructs a Service with the given retry budget.
func NewService(client Client, manager *quota.Manager, attempts int, backoff time.Duration) *Service {
	if attempts < 1 {
		attempts = 3
	}
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &Service{
		client:   client,
		quota:    manager,
		attempts: attempts,
		backoff:  backoff,
	}
}

// Translate returns the text translated to the target locale, or the
// labeled placeholder when the quota rejects the charge or the external
// service fails past its retry budget. Usage is recorded only after a
// successful call.
func (s *Service) Translate(ctx context.Context, text, targetLocale string) Outcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	charCount := len([]rune(text))
	if s.quota != nil && !s.quota.CanTranslate(ctx, charCount) {
		log.WithField("locale", targetLocale).Debug("translator: quota exhausted, using placeholder")
		return Outcome{Text: Placeholder(text, targetLocale)}
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			if errWait := sleepContext(ctx, time.Duration(attempt-1)*s.backoff); errWait != nil {
				lastErr = errWait
				break
			}
		}
		translated, errCall := s.client.Translate(ctx, text, targetLocale)
		if errCall == nil {
			if s.quota != nil {
				s.quota.RecordUsage(ctx, charCount)
			}
			return Outcome{Text: translated, Translated: true}
		}
		lastErr = errCall
		if ctx.Err() != nil {
			break
		}
	}

	log.WithError(lastErr).WithField("locale", targetLocale).
		Warn("translator: service failed after retries, using placeholder")
	return Outcome{Text: Placeholder(text, targetLocale)}
}

// Placeholder returns the deterministic fallback for untranslated text:
// the original tagged with the target locale.
func Placeholder(text, targetLocale string) string {
	tag := strings.ToUpper(strings.TrimSpace(targetLocale))
	if tag == "" {
		tag = "??"
	}
	return fmt.Sprintf("[%s] %s", tag, text)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
