package orderview

import (
	"github.com/shopspring/decimal"
	"github.com/tablelink/api/internal/enum"
)

// RoundSummary is a round together with everything derived from it.
type RoundSummary struct {
	OrderRound
	Status string             `json:"status"`
	Groups []GroupedOrderItem `json:"groups"`
	Total  decimal.Decimal    `json:"total"`
}

// OrderSummary is the full derived view of one order snapshot. Per-round
// statuses are kept next to the coarser global label.
type OrderSummary struct {
	GlobalStatus string             `json:"global_status"`
	Rounds       []RoundSummary     `json:"rounds"`
	Groups       []GroupedOrderItem `json:"groups"`
	Total        decimal.Decimal    `json:"total"`
	ItemCount    int                `json:"item_count"`
}

// Summarize runs the whole engine over one snapshot. When closed is true the
// order has been closed by the backend and every round that was not rejected
// is reported as completed.
func Summarize(items []StoredOrderItem, closed bool) OrderSummary {
	rounds := GroupIntoRounds(items)

	summaries := make([]RoundSummary, len(rounds))
	statuses := make([]string, len(rounds))
	for i, r := range rounds {
		status := ComputeRoundStatus(r.Items)
		if closed && status != enum.RoundStatusRejected {
			status = enum.RoundStatusCompleted
		}
		statuses[i] = status
		summaries[i] = RoundSummary{
			OrderRound: r,
			Status:     status,
			Groups:     GroupDisplayItems(r.Items),
			Total:      CalculateOrderTotal(r.Items),
		}
	}

	return OrderSummary{
		GlobalStatus: GlobalStatusOf(statuses),
		Rounds:       summaries,
		Groups:       GroupDisplayItems(items),
		Total:        CalculateOrderTotal(items),
		ItemCount:    len(items),
	}
}
