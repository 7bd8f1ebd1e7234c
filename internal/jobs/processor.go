package jobs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "welth/internal/errors"
	"welth/internal/logger"
	"welth/internal/ratelimit"
	"welth/internal/services"
)

// ErrThrottled matches a ThrottledError with errors.Is.
var ErrThrottled = errors.New("jobs: user throttled")

// ThrottledError reports an event refused because its user is over the
// per-user limit. The event can be retried after RetryAfter.
type ThrottledError struct {
	UserID     string
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("jobs: user %s throttled, retry in %s", e.UserID, e.RetryAfter)
}

func (e *ThrottledError) Is(target error) bool { return target == ErrThrottled }

// Processor handles RecurringEvents, throttled per user.
type Processor struct {
	recurrence services.RecurrenceServicer
	limiter    *ratelimit.Keyed
	now        func() time.Time
}

// NewProcessor creates a Processor. limiter may be nil to disable throttling.
func NewProcessor(recurrence services.RecurrenceServicer, limiter *ratelimit.Keyed) *Processor {
	return &Processor{
		recurrence: recurrence,
		limiter:    limiter,
		now:        time.Now,
	}
}

// Handle processes one event. It never waits on the throttle: an event over
// its user's limit fails fast with a *ThrottledError so other users' events
// keep flowing.
func (p *Processor) Handle(ctx context.Context, ev RecurringEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	if p.limiter != nil {
		if delay := p.limiter.Reserve(ev.UserID); delay > 0 {
			return &ThrottledError{UserID: ev.UserID, RetryAfter: delay}
		}
	}

	created, err := p.recurrence.ProcessRecurringTransaction(ctx, ev.UserID, ev.TransactionID, p.now())
	if err != nil {
		return err
	}

	logger.Named("recurrence").Debugw("recurring event handled",
		"transaction_id", ev.TransactionID,
		"user_id", ev.UserID,
		"created", created,
	)
	return nil
}

// Permanent reports whether err will recur on redelivery, so the message
// should be dropped rather than requeued.
func Permanent(err error) bool {
	if errors.Is(err, ErrInvalidEvent) {
		return true
	}
	if appErr, ok := apperrors.As(err); ok {
		return appErr.StatusCode >= http.StatusBadRequest && appErr.StatusCode < http.StatusInternalServerError
	}
	return false
}
