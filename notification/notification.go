// Package notification fans workflow events out to e-mail and webhooks.
// Events are sent after the database transaction that produced them has
// committed; delivery failures are logged and never reach the API caller.
package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	EventRequisitionApproved   = "requisition.approved"
	EventRequisitionRejected   = "requisition.rejected"
	EventPurchaseOrderApproved = "purchase_order.approved"
	EventReceiptVerified       = "goods_receipt.verified"
	EventStockTransferred      = "stock.transferred"
	EventLeadConverted         = "lead.converted"
	EventReconciliationFailed  = "reconciliation.discrepancies"
)

type Event struct {
	Type       string    `json:"type"`
	Reference  string    `json:"reference"`
	Detail     string    `json:"detail"`
	Operator   string    `json:"operator"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Notifier interface {
	Notify(ctx context.Context, evt Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

type multi struct {
	notifiers []Notifier
}

// Multi delivers to every notifier and joins their errors.
func Multi(notifiers ...Notifier) Notifier {
	var active []Notifier
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	if len(active) == 0 {
		return Nop{}
	}
	return &multi{notifiers: active}
}

func (m *multi) Notify(ctx context.Context, evt Event) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AsyncNotifier hands events to a background goroutine. Close waits for
// the ones still in flight.
type AsyncNotifier struct {
	next    Notifier
	log     *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Async sends in the background so SMTP or webhook latency never holds up a
// request. Failures are logged.
func Async(next Notifier, log *zap.Logger, timeout time.Duration) *AsyncNotifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AsyncNotifier{next: next, log: log, timeout: timeout}
}

func (a *AsyncNotifier) Notify(ctx context.Context, evt Event) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.log.Warn("notifier closed, event dropped", zap.String("event", evt.Type), zap.String("reference", evt.Reference))
		return nil
	}
	a.wg.Add(1)
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	go func() {
		defer a.wg.Done()
		defer cancel()
		if err := a.next.Notify(ctx, evt); err != nil {
			a.log.Warn("notification failed",
				zap.String("event", evt.Type),
				zap.String("reference", evt.Reference),
				zap.Error(err))
		}
	}()
	return nil
}

// Close stops accepting events and waits for pending deliveries, or for ctx.
func (a *AsyncNotifier) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
