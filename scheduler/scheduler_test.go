package scheduler

import (
	"context"
	"errors"
	"testing"

	"fiber-erp/notification"
	"fiber-erp/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReconciler struct {
	report services.Report
	err    error
}

func (f fakeReconciler) Run(context.Context) (services.Report, error) { return f.report, f.err }

type captured struct{ events []notification.Event }

func (c *captured) Notify(_ context.Context, evt notification.Event) error {
	c.events = append(c.events, evt)
	return nil
}

func TestReconcile_AlertsOnDiscrepancies(t *testing.T) {
	n := &captured{}
	s := New("@daily", fakeReconciler{report: services.Report{
		Checked:       1,
		Discrepancies: []services.Discrepancy{{PoNumber: "20240101-abcdef", Problem: "receiving warehouse missing"}},
	}}, n, zap.NewNop())

	s.reconcile()
	require.Len(t, n.events, 1)
	require.Equal(t, notification.EventReconciliationFailed, n.events[0].Type)
	require.Contains(t, n.events[0].Detail, "20240101-abcdef")
}

func TestReconcile_QuietWhenClean(t *testing.T) {
	n := &captured{}
	New("@daily", fakeReconciler{report: services.Report{Checked: 4}}, n, nil).reconcile()
	New("@daily", fakeReconciler{err: errors.New("db down")}, n, nil).reconcile()
	require.Empty(t, n.events)
}

func TestStart_RejectsBadSpec(t *testing.T) {
	require.Error(t, New("not a cron spec", fakeReconciler{}, nil, nil).Start())

	s := New("", fakeReconciler{}, nil, nil)
	require.NoError(t, s.Start())

	s = New("*/5 * * * *", fakeReconciler{}, nil, nil)
	require.NoError(t, s.Start())
	s.Stop()
}
