package services

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

const (
	base36       = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength = 6
	dateLayout   = "20060102"

	// attempts at a free PO number before giving up
	maxNumberAttempts = 5
)

// prefixes of references the service generates itself
var generatedPrefixes = []string{"TRANSFER-", "ADJ-", "GR-", "INV-", "QT-", "REQ-", "LEAD-"}

var poNumberPattern = regexp.MustCompile(`^\d{8}-[a-z0-9]{6}$`)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
)

func randomSuffix() string {
	rngMu.Lock()
	defer rngMu.Unlock()

	var b strings.Builder
	b.Grow(suffixLength)
	for i := 0; i < suffixLength; i++ {
		b.WriteByte(base36[rng.Intn(len(base36))])
	}
	return b.String()
}

// NewPONumber is the only purchase order number generator:
// UTC date, a dash, then six lowercase base-36 characters.
func NewPONumber(now time.Time) string {
	return now.UTC().Format(dateLayout) + "-" + randomSuffix()
}

func GRNumber(now time.Time, poNumber string) string {
	return fmt.Sprintf("GR-%s-%s", now.UTC().Format(dateLayout), poNumber)
}

func InvoiceNumber(now time.Time) string {
	return "INV-" + now.UTC().Format(dateLayout)
}

func TransferReference(now time.Time) string {
	return fmt.Sprintf("TRANSFER-%d", now.UnixMilli())
}

func AdjustmentReference(now time.Time) string {
	return fmt.Sprintf("ADJ-%d", now.UnixMilli())
}

// IsReservedReference reports whether ref has the shape of a purchase order
// number or of a reference the service generates, so a caller cannot post
// ledger rows under it.
func IsReservedReference(ref string) bool {
	if poNumberPattern.MatchString(strings.ToLower(ref)) {
		return true
	}
	upper := strings.ToUpper(ref)
	for _, p := range generatedPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

func QuotationNumber(now time.Time) string {
	return fmt.Sprintf("QT-%s-%s", now.UTC().Format(dateLayout), randomSuffix())
}
