package scheduler

import (
	"context"
	"fmt"
	"time"

	"fiber-erp/notification"
	"fiber-erp/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

type Reconciler interface {
	Run(ctx context.Context) (services.Report, error)
}

// Scheduler runs the ledger reconciliation on a cron spec.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	reconciler Reconciler
	notifier   notification.Notifier
	logger     *zap.Logger
}

func New(spec string, reconciler Reconciler, notifier notification.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &Scheduler{
		cron:       cron.New(),
		spec:       spec,
		reconciler: reconciler,
		notifier:   notifier,
		logger:     logger,
	}
}

// Start registers the reconciliation job and starts the cron loop. An empty
// spec disables the job.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.logger.Info("reconciliation schedule disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.reconcile); err != nil {
		return fmt.Errorf("schedule reconciliation %q: %w", s.spec, err)
	}
	s.logger.Info("starting scheduler", zap.String("reconcile_cron", s.spec))
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.reconciler.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled reconciliation failed", zap.Error(err))
		return
	}
	if report.OK() {
		return
	}

	err = s.notifier.Notify(ctx, notification.Event{
		Type:       notification.EventReconciliationFailed,
		Reference:  time.Now().UTC().Format("2006-01-02"),
		Detail:     report.Summary(),
		Operator:   "scheduler",
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.logger.Error("failed to send reconciliation alert", zap.Error(err))
	}
}
