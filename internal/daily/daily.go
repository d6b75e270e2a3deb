// Package daily derives the shared seed of the daily challenge and keeps the
// score ledger of finished runs.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic RNG seed for a date using HMAC(salt, YYYY-MM-DD).
// Every daily session started on the same UTC day with the same salt replays the
// same pool and shooter sequence.
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes, sign bit cleared so the seed prints as a positive number
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}
