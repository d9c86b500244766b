package orderview

import (
	"time"

	"github.com/shopspring/decimal"
)

// --- Test helpers ---

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func opt(group, label, price string) OrderItemOption {
	return OrderItemOption{GroupName: group, Label: label, Price: dec(price)}
}

// unit builds one ordered unit created offset after t0.
func unit(id, name, status, price string, offset time.Duration, opts ...OrderItemOption) StoredOrderItem {
	return StoredOrderItem{
		ItemID:     id,
		MenuItemID: "menu-" + name,
		Name:       name,
		Price:      dec(price),
		Options:    opts,
		Status:     status,
		CreatedAt:  t0.Add(offset),
	}
}

func withNote(item StoredOrderItem, note string) StoredOrderItem {
	item.SpecialRequest = &note
	return item
}

func itemIDs(items []StoredOrderItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ItemID
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
