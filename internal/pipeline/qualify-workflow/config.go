// internal/pipeline/qualify-workflow/config.go
package qualifyworkflow

import "time"

// Config carries the thresholds the workflow branches on.
type Config struct {
	// NotifyScoreThreshold: scores strictly above this trigger the
	// notify-and-persist branch even without QUALIFIED status.
	NotifyScoreThreshold int

	// CallScoreThreshold: scores strictly above this additionally trigger the
	// voice escalation. Must be >= NotifyScoreThreshold.
	CallScoreThreshold int

	// NeedsReviewAttempts: turns without a status change before the session is
	// flagged for human review.
	NeedsReviewAttempts int

	// SideEffectTimeout bounds the fire-and-forget notification and
	// persistence calls after the turn has already returned.
	SideEffectTimeout time.Duration
}

// DefaultConfig mirrors the config package defaults for tests and tools that
// build a workflow directly.
func DefaultConfig() Config {
	return Config{
		NotifyScoreThreshold: 80,
		CallScoreThreshold:   90,
		NeedsReviewAttempts:  5,
		SideEffectTimeout:    10 * time.Second,
	}
}
