package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tablelink/api/internal/enum"
	"github.com/tablelink/api/internal/orderview"
	"github.com/tablelink/api/internal/store"
)

// Errors returned by the order summary service.
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidSnapshot = errors.New("invalid order snapshot")
	ErrCorruptOrder    = errors.New("order has malformed items")
)

// OrderItemStore defines the DB methods needed to load an order snapshot.
// Satisfied by *store.OrderItemStore.
type OrderItemStore interface {
	GetOrder(ctx context.Context, shopID, orderID uuid.UUID) (store.Order, error)
	ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]orderview.StoredOrderItem, error)
}

// OrderSnapshot is an order together with its units as loaded in one call.
type OrderSnapshot struct {
	Order store.Order
	Items []orderview.StoredOrderItem
}

// SummaryResult is the derived view of one stored order.
type SummaryResult struct {
	Order   store.Order
	Summary orderview.OrderSummary
}

// OrderSummaryService loads order snapshots and runs them through orderview.
type OrderSummaryService struct {
	store OrderItemStore
}

// NewOrderSummaryService creates a new OrderSummaryService.
func NewOrderSummaryService(store OrderItemStore) *OrderSummaryService {
	return &OrderSummaryService{store: store}
}

// LoadSnapshot fetches the order and its units and validates the units.
// Every call reads a fresh snapshot; nothing is cached between calls.
func (s *OrderSummaryService) LoadSnapshot(ctx context.Context, shopID, orderID uuid.UUID) (*OrderSnapshot, error) {
	order, err := s.store.GetOrder(ctx, shopID, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := s.store.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	if err := orderview.Validate(items); err != nil {
		// Stored rows are expected to be well formed; this is a server-side fault.
		return nil, fmt.Errorf("%w: order %s: %w", ErrCorruptOrder, orderID, err)
	}

	return &OrderSnapshot{Order: order, Items: items}, nil
}

// GetSummary returns the full derived view of a stored order.
func (s *OrderSummaryService) GetSummary(ctx context.Context, shopID, orderID uuid.UUID) (*SummaryResult, error) {
	snap, err := s.LoadSnapshot(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}
	closed := snap.Order.Status == enum.OrderStatusClosed
	return &SummaryResult{
		Order:   snap.Order,
		Summary: orderview.Summarize(snap.Items, closed),
	}, nil
}

// SummarizeSnapshot validates a caller-supplied snapshot and summarizes it.
// Validation failures wrap ErrInvalidSnapshot and name the offending item.
func (s *OrderSummaryService) SummarizeSnapshot(items []orderview.StoredOrderItem, closed bool) (*orderview.OrderSummary, error) {
	if err := orderview.Validate(items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	summary := orderview.Summarize(items, closed)
	return &summary, nil
}
