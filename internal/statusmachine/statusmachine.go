// Package statusmachine implements the single pure function that decides
// whether an order status transition is valid (spec.md §4.1, C1). Both the
// producer and the consumer call IsValidTransition so the two sides can never
// drift apart on what counts as a legal move.
package statusmachine

import "github.com/merkulovlad/orderflow/internal/model"

// IsValidTransition decides whether moving from current to next is legal.
//
//   - current == nil (first write for this orderId): true iff next is one of
//     the five known statuses.
//   - current != nil and ranks are equal: false (duplicate/no-op, caller must
//     not write).
//   - next is CANCELED and current's rank is non-terminal (0..2): true.
//     COMPLETED (3) -> CANCELED (4) is false, since 3 is not in 0..2.
//   - otherwise: true iff rank(next) == rank(current) + 1.
//   - either status string unknown: false.
func IsValidTransition(current *string, next string) bool {
	nextRank, ok := model.Rank(next)
	if !ok {
		return false
	}

	if current == nil {
		return true
	}

	curRank, ok := model.Rank(*current)
	if !ok {
		return false
	}

	if curRank == nextRank {
		return false
	}

	if nextRank == model.RankCanceled {
		return !model.IsTerminal(*current)
	}

	return nextRank == curRank+1
}
