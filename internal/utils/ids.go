// internal/utils/ids.go
package utils

import (
	"strconv"
	"strings"
	"time"
)

// Royalty-layer identifiers are capped at 16 characters (on-chain
// account constraint), so external identifiers get truncated and
// ticket identifiers are assembled to fit exactly.
const maxIDLength = 16

// ShortEventID derives the royalty-platform event id from an external
// source event id.
func ShortEventID(sourceID string) string {
	if len(sourceID) > maxIDLength {
		return sourceID[:maxIDLength]
	}
	return sourceID
}

// NewTicketID builds a ticket identifier from the event and a
// time-based nonce: TM(2) + event tail(5) + dash(1) + nonce(8).
func NewTicketID(eventID string, t time.Time) string {
	nonce := strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
	if len(nonce) > 8 {
		nonce = nonce[len(nonce)-8:]
	}
	tail := eventID
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	return "TM" + strings.ToUpper(tail) + "-" + nonce
}

// TruncateString caps a string at max runes, used when mapping source
// event metadata onto the royalty platform's bounded fields.
func TruncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
