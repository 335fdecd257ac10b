package services

import (
	"context"
	"time"

	"fiber-erp/notification"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// base carries what every workflow service needs.
type base struct {
	db       *gorm.DB
	notifier notification.Notifier
	log      *zap.Logger
	now      func() time.Time
}

func newBase(db *gorm.DB, notifier notification.Notifier, log *zap.Logger) base {
	if notifier == nil {
		notifier = notification.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return base{db: db, notifier: notifier, log: log, now: time.Now}
}

// notify is called only after the transaction has committed.
func (b *base) notify(ctx context.Context, evtType, reference, detail, operator string) {
	err := b.notifier.Notify(ctx, notification.Event{
		Type:       evtType,
		Reference:  reference,
		Detail:     detail,
		Operator:   operator,
		OccurredAt: b.now(),
	})
	if err != nil {
		b.log.Warn("notification failed", zap.String("event", evtType), zap.String("reference", reference), zap.Error(err))
	}
}

func operatorOrSystem(operator string) string {
	if operator == "" {
		return "system"
	}
	return operator
}
