// Package orderview derives the kitchen and customer views of an order from a
// flat snapshot of its ordered units: display groups, placement rounds, round
// and order statuses, and totals. Every function is pure and never mutates its
// input, so a fresh snapshot can be summarized at any time without carrying
// state between calls.
package orderview

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tablelink/api/internal/enum"
)

// Errors returned by DecodeItems and Validate. Each is wrapped with the
// offending item_id.
var (
	ErrMissingItemID    = errors.New("item_id is required")
	ErrMissingCreatedAt = errors.New("created_at is required")
	ErrUnknownStatus    = errors.New("unknown status")
	ErrNegativePrice    = errors.New("price must be >= 0")
	ErrMalformedItem    = errors.New("malformed item")
)

// OrderItemOption is one selected modifier on an ordered unit.
type OrderItemOption struct {
	GroupName string          `json:"groupName"`
	Label     string          `json:"label"`
	Price     decimal.Decimal `json:"price"`
}

// StoredOrderItem is one ordered unit. Quantity is always 1; three burgers are
// three records.
type StoredOrderItem struct {
	ItemID         string            `json:"item_id"`
	MenuItemID     string            `json:"menu_item_id"`
	Name           string            `json:"name"`
	Price          decimal.Decimal   `json:"price"`
	Options        []OrderItemOption `json:"options"`
	Status         string            `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	CategoryName   *string           `json:"category_name,omitempty"`
	SpecialRequest *string           `json:"special_request,omitempty"`
}

// GroupedOrderItem collapses units sharing name, options and status.
// Price and CategoryName are taken from the first member encountered.
type GroupedOrderItem struct {
	Name         string            `json:"name"`
	Options      []OrderItemOption `json:"options"`
	Status       string            `json:"status"`
	Price        decimal.Decimal   `json:"price"`
	CategoryName *string           `json:"category_name,omitempty"`
	Count        int               `json:"count"`
	ItemIDs      []string          `json:"item_ids"`
	CreatedAt    time.Time         `json:"created_at"`
}

// OrderRound is one placement: the units created within RoundWindow of the
// round's first unit.
type OrderRound struct {
	RoundNumber    int               `json:"round_number"`
	Timestamp      time.Time         `json:"timestamp"`
	Items          []StoredOrderItem `json:"items"`
	SpecialRequest *string           `json:"special_request"`
}

// DecodeItems unmarshals a JSON snapshot one unit at a time. A unit that does
// not decode (an unparseable created_at, a price that is not a number) is
// reported by its item_id, or by its index when the item_id is unreadable.
func DecodeItems(raw []json.RawMessage) ([]StoredOrderItem, error) {
	if raw == nil {
		return nil, nil
	}
	items := make([]StoredOrderItem, len(raw))
	for i, msg := range raw {
		if err := json.Unmarshal(msg, &items[i]); err != nil {
			var ref struct {
				ItemID string `json:"item_id"`
			}
			if json.Unmarshal(msg, &ref) == nil && ref.ItemID != "" {
				return nil, fmt.Errorf("item %s: %w: %w", ref.ItemID, ErrMalformedItem, err)
			}
			return nil, fmt.Errorf("items[%d]: %w: %w", i, ErrMalformedItem, err)
		}
	}
	return items, nil
}

// Validate checks a snapshot before it is summarized and reports the first
// offending item. The grouping, status and total functions accept unvalidated
// input too; an unknown status then simply matches no status rule.
func Validate(items []StoredOrderItem) error {
	for i, item := range items {
		if item.ItemID == "" {
			return fmt.Errorf("items[%d]: %w", i, ErrMissingItemID)
		}
		if item.CreatedAt.IsZero() {
			return fmt.Errorf("item %s: %w", item.ItemID, ErrMissingCreatedAt)
		}
		if !isKnownItemStatus(item.Status) {
			return fmt.Errorf("item %s: %w %q", item.ItemID, ErrUnknownStatus, item.Status)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("item %s: %w", item.ItemID, ErrNegativePrice)
		}
		for j, opt := range item.Options {
			if opt.Price.IsNegative() {
				return fmt.Errorf("item %s: options[%d]: %w", item.ItemID, j, ErrNegativePrice)
			}
		}
	}
	return nil
}

func isKnownItemStatus(s string) bool {
	switch s {
	case enum.ItemStatusPending, enum.ItemStatusPreparing,
		enum.ItemStatusReady, enum.ItemStatusRejected:
		return true
	}
	return false
}
