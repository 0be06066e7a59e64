// Package notify publishes settlement events for downstream consumers
// (presentation layer, audit).
package notify

import (
	"context"
	"time"
)

// SettlementEvent describes one settled game.
type SettlementEvent struct {
	GameID     string    `json:"gameId"`
	SubjectWon bool      `json:"subjectWon"`
	Resolved   int       `json:"resolved"`
	SettledAt  time.Time `json:"settledAt"`
}

// Publisher emits settlement events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	SettlementResolved(ctx context.Context, e SettlementEvent) error
}

// Nop is a Publisher that drops every event. Used when no broker is
// configured.
type Nop struct{}

// SettlementResolved implements Publisher.
func (Nop) SettlementResolved(context.Context, SettlementEvent) error { return nil }
