package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewPONumber_Format(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("WIB", 7*3600))

	for i := 0; i < 200; i++ {
		n := NewPONumber(now)
		require.Regexp(t, poNumberPattern, n)
		// date is taken in UTC
		require.Equal(t, "20240309", n[:8])
	}
}

func TestNewPONumber_Varies(t *testing.T) {
	now := time.Now()
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		seen[NewPONumber(now)] = struct{}{}
	}
	require.Greater(t, len(seen), 90)
}

func TestDerivedNumbers(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	require.Equal(t, "GR-20240115-20240115-abc123", GRNumber(now, "20240115-abc123"))
	require.Equal(t, "INV-20240115", InvoiceNumber(now))
	require.Equal(t, "TRANSFER-1705312800000", TransferReference(now))
	require.Regexp(t, `^QT-20240115-[a-z0-9]{6}$`, QuotationNumber(now))
}

func TestIsReservedReference(t *testing.T) {
	for _, ref := range []string{"20240115-abc123", "20240115-ABC123", "TRANSFER-1", "ADJ-1", "gr-x", "INV-20240115", "QT-20240115-aaaaaa", "REQ-4", "LEAD-9"} {
		require.True(t, IsReservedReference(ref), ref)
	}
	for _, ref := range []string{"", "WRITE-OFF-1", "OPENING", "2024-01-15", "PO-LEGACY-1"} {
		require.False(t, IsReservedReference(ref), ref)
	}
}
