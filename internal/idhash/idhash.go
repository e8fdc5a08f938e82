package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(symbol|market|strategy_id|started_at_unix_ms)
// Returns hex-encoded hash (64 characters).
func ComputeRunID(symbol, market, strategyID string, startedAt time.Time) string {
	data := fmt.Sprintf("%s|%s|%s|%d",
		symbol,
		market,
		strategyID,
		startedAt.UnixMilli(),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(run_id|seq|date_unix_ms|action|shares)
// The per-run sequence number disambiguates multiple fills with the
// same date, action and size.
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(runID string, seq int, date time.Time, action string, shares int64) string {
	data := fmt.Sprintf("%s|%d|%d|%s|%d",
		runID,
		seq,
		date.UnixMilli(),
		action,
		shares,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
