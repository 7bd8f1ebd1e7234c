package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"welth/internal/logger"
	"welth/internal/services"
)

// Dispatcher delivers recurring events to whatever processes them.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []RecurringEvent) error
}

// InlineDispatcher processes events in the calling goroutine. It suits single
// process deployments where no broker is configured.
type InlineDispatcher struct {
	processor *Processor
}

// NewInlineDispatcher creates an InlineDispatcher.
func NewInlineDispatcher(processor *Processor) *InlineDispatcher {
	return &InlineDispatcher{processor: processor}
}

// Dispatch handles each event in order. Events over their user's throttle
// are skipped; the template stays due and the next trigger run picks it up.
// Other failures are logged and reported together.
func (d *InlineDispatcher) Dispatch(ctx context.Context, events []RecurringEvent) error {
	log := logger.Named("recurrence")
	failed, throttled := 0, 0
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := d.processor.Handle(ctx, ev)
		switch {
		case err == nil:
		case errors.Is(err, ErrThrottled):
			throttled++
		default:
			failed++
			log.Errorw("recurring event failed", "transaction_id", ev.TransactionID, "user_id", ev.UserID, "error", err)
		}
	}
	if throttled > 0 {
		log.Infow("recurring events deferred to the next run", "throttled", throttled)
	}
	if failed > 0 {
		return fmt.Errorf("jobs: %d of %d recurring events failed", failed, len(events))
	}
	return nil
}

// TriggerRecurring finds every due template and dispatches one event per
// template. It returns the number of events dispatched.
func TriggerRecurring(ctx context.Context, recurrence services.RecurrenceServicer, dispatcher Dispatcher, now time.Time) (int, error) {
	due, err := recurrence.FindDueRecurring(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	events := make([]RecurringEvent, len(due))
	for i := range due {
		events[i] = NewRecurringEvent(due[i].ID, due[i].UserID)
	}

	if err := dispatcher.Dispatch(ctx, events); err != nil {
		return len(events), err
	}

	logger.Named("recurrence").Infow("recurring transactions triggered", "count", len(events))
	return len(events), nil
}
