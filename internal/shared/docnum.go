package shared

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocNumber builds a human-readable record number:
// <PREFIX><yyyyMMddHHmmss><4-char-random>, e.g. ORD20240115103000AB12.
// Uniqueness is advisory; the storage layer enforces it with a unique
// constraint and callers surface ErrDuplicateRecordNumber on violation.
func DocNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return prefix + now.Format("20060102150405") + suffix
}
