package model

import "github.com/secmon-lab/phantom/pkg/domain/types"

// Strategy is the decision engine's output for one tick: what to do, about
// what, before any content is generated. It lives only in memory for the
// duration of the tick; only its effects (counters, memory records) are
// persisted.
type Strategy struct {
	Action      types.Action
	ContentType types.ContentType
	Topic       string
	// SourceURL is the reserved suffix preserved through truncation and
	// appended on the text fallback path
	SourceURL string

	// Reason explains idle decisions
	Reason string
}

// TickResult is the terminal record of one tick
type TickResult struct {
	Success     bool
	Action      types.Action
	ContentType types.ContentType
	Topic       string
	PostID      string
	// Err is non-empty for every FAIL outcome and holds the skip reason
	// for idle/no-content outcomes
	Err string
}

// Idle builds an idle result with the given reason
func IdleResult(reason string) *TickResult {
	return &TickResult{
		Success: true,
		Action:  types.ActionIdle,
		Err:     reason,
	}
}
