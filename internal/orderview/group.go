package orderview

import (
	"encoding/json"
	"slices"
	"time"
)

// RoundWindow is how long after a round's first unit later units still join
// that round. The window is anchored at the first unit and does not slide.
const RoundWindow = 60 * time.Second

// GroupDisplayItems collapses units with identical name, options and status
// into one row each, ordered by the earliest created_at of each row.
//
// Options are compared by their serialized form, so the same modifiers in a
// different order produce a different row.
func GroupDisplayItems(items []StoredOrderItem) []GroupedOrderItem {
	groups := []GroupedOrderItem{}
	index := make(map[string]int)

	for _, item := range items {
		key := displayKey(item)
		if i, ok := index[key]; ok {
			g := &groups[i]
			g.Count++
			g.ItemIDs = append(g.ItemIDs, item.ItemID)
			if item.CreatedAt.Before(g.CreatedAt) {
				g.CreatedAt = item.CreatedAt
			}
			continue
		}
		index[key] = len(groups)
		groups = append(groups, GroupedOrderItem{
			Name:         item.Name,
			Options:      slices.Clone(item.Options),
			Status:       item.Status,
			Price:        item.Price,
			CategoryName: item.CategoryName,
			Count:        1,
			ItemIDs:      []string{item.ItemID},
			CreatedAt:    item.CreatedAt,
		})
	}

	slices.SortStableFunc(groups, func(a, b GroupedOrderItem) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return groups
}

// displayKey is name, serialized options and status joined with NUL bytes,
// which cannot appear in any of the three parts.
func displayKey(item StoredOrderItem) string {
	return item.Name + "\x00" + optionsKey(item.Options) + "\x00" + item.Status
}

func optionsKey(opts []OrderItemOption) string {
	if len(opts) == 0 {
		return "[]"
	}
	b, err := json.Marshal(opts)
	if err != nil {
		// decimal and string fields always marshal
		return "[]"
	}
	return string(b)
}

// GroupIntoRounds splits units into placement rounds. Units are sorted by
// created_at; a unit joins the current round when it was created no more than
// RoundWindow after the round's first unit, otherwise it starts a new round.
func GroupIntoRounds(items []StoredOrderItem) []OrderRound {
	rounds := []OrderRound{}
	if len(items) == 0 {
		return rounds
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b StoredOrderItem) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	var current []StoredOrderItem
	var windowOrigin time.Time

	closeRound := func() {
		rounds = append(rounds, OrderRound{
			RoundNumber:    len(rounds) + 1,
			Timestamp:      windowOrigin,
			Items:          current,
			SpecialRequest: firstSpecialRequest(current),
		})
	}

	for _, item := range sorted {
		if current == nil {
			current = []StoredOrderItem{item}
			windowOrigin = item.CreatedAt
			continue
		}
		if item.CreatedAt.Sub(windowOrigin) <= RoundWindow {
			current = append(current, item)
			continue
		}
		closeRound()
		current = []StoredOrderItem{item}
		windowOrigin = item.CreatedAt
	}
	closeRound()

	return rounds
}

// firstSpecialRequest returns the first non-empty note in the round. Units of
// one placement share the same note; disagreeing notes are not reconciled.
func firstSpecialRequest(items []StoredOrderItem) *string {
	for _, item := range items {
		if item.SpecialRequest != nil && *item.SpecialRequest != "" {
			s := *item.SpecialRequest
			return &s
		}
	}
	return nil
}
