package orderview

import "github.com/tablelink/api/internal/enum"

// ComputeRoundStatus merges the statuses of a round's units. The checks run in
// priority order: all rejected, all remaining ready, any preparing, any
// pending. A pending unit surfaces as a confirmed round. Never returns
// enum.RoundStatusCompleted; that is assigned only to closed orders.
func ComputeRoundStatus(items []StoredOrderItem) string {
	if len(items) == 0 {
		return enum.RoundStatusPending
	}

	if allItems(items, func(s string) bool { return s == enum.ItemStatusRejected }) {
		return enum.RoundStatusRejected
	}

	active := make([]StoredOrderItem, 0, len(items))
	for _, item := range items {
		if item.Status != enum.ItemStatusRejected {
			active = append(active, item)
		}
	}

	if allItems(active, func(s string) bool { return s == enum.ItemStatusReady }) {
		return enum.RoundStatusReady
	}
	if anyItem(active, func(s string) bool { return s == enum.ItemStatusPreparing }) {
		return enum.RoundStatusPreparing
	}
	if anyItem(active, func(s string) bool { return s == enum.ItemStatusPending }) {
		return enum.RoundStatusConfirmed
	}
	return enum.RoundStatusPending
}

// ComputeGlobalStatus labels a whole order from its rounds.
func ComputeGlobalStatus(rounds []OrderRound) string {
	statuses := make([]string, len(rounds))
	for i, r := range rounds {
		statuses[i] = ComputeRoundStatus(r.Items)
	}
	return GlobalStatusOf(statuses)
}

// GlobalStatusOf applies the order label rules to already resolved round
// statuses. Rejected rounds never block "All Ready".
func GlobalStatusOf(roundStatuses []string) string {
	if len(roundStatuses) == 0 {
		return enum.GlobalStatusNoRounds
	}

	cancelled := true
	done := true
	for _, s := range roundStatuses {
		if s != enum.RoundStatusRejected {
			cancelled = false
		}
		switch s {
		case enum.RoundStatusReady, enum.RoundStatusCompleted, enum.RoundStatusRejected:
		default:
			done = false
		}
	}

	switch {
	case cancelled:
		return enum.GlobalStatusCancelled
	case done:
		return enum.GlobalStatusAllReady
	default:
		return enum.GlobalStatusInProgress
	}
}

// allItems reports whether every item's status satisfies fn.
// Vacuously true for an empty slice.
func allItems(items []StoredOrderItem, fn func(status string) bool) bool {
	for _, item := range items {
		if !fn(item.Status) {
			return false
		}
	}
	return true
}

func anyItem(items []StoredOrderItem, fn func(status string) bool) bool {
	for _, item := range items {
		if fn(item.Status) {
			return true
		}
	}
	return false
}
