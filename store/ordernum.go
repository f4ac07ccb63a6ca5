package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Order numbers are human-readable and day-scoped:
// "SP" + 2-digit year + month + day + 4-digit daily sequence, e.g.
// SP2609010001 for the first order of 2026-09-01.

// OrderNumberPrefix returns the SP<yy><mm><dd> prefix for the given day.
func OrderNumberPrefix(at time.Time) string {
	return fmt.Sprintf("SP%02d%02d%02d", at.Year()%100, int(at.Month()), at.Day())
}

// FormatOrderNumber combines a day prefix with a 1-based daily sequence.
func FormatOrderNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// OrderNumberSequence extracts the numeric suffix of an order number with
// the given prefix. Returns 0 when the number does not belong to that day.
func OrderNumberSequence(orderNumber, prefix string) int64 {
	if !strings.HasPrefix(orderNumber, prefix) {
		return 0
	}
	seq, err := strconv.ParseInt(orderNumber[len(prefix):], 10, 64)
	if err != nil || seq < 0 {
		return 0
	}
	return seq
}
