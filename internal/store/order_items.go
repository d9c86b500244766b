// Package store reads order snapshots from Postgres. It is read-only: item
// creation and kitchen status transitions are owned by the ordering backend.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/tablelink/api/internal/orderview"
)

// DBTX is the subset of pgx used by the store.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Order is one dining session (one table visit) that items are placed on.
type Order struct {
	ID          uuid.UUID
	ShopID      uuid.UUID
	TableNumber *string
	Status      string
	CreatedAt   time.Time
}

// OrderItemStore loads orders and their units.
type OrderItemStore struct {
	db DBTX
}

// NewOrderItemStore creates an OrderItemStore on top of a pool, conn or tx.
func NewOrderItemStore(db DBTX) *OrderItemStore {
	return &OrderItemStore{db: db}
}

const getOrder = `
SELECT id, shop_id, table_number, status, created_at
FROM orders
WHERE id = $1 AND shop_id = $2`

// GetOrder returns the order if it belongs to the shop, pgx.ErrNoRows otherwise.
func (s *OrderItemStore) GetOrder(ctx context.Context, shopID, orderID uuid.UUID) (Order, error) {
	var o Order
	var table pgtype.Text
	err := s.db.QueryRow(ctx, getOrder, orderID, shopID).Scan(
		&o.ID,
		&o.ShopID,
		&table,
		&o.Status,
		&o.CreatedAt,
	)
	if err != nil {
		return Order{}, err
	}
	o.TableNumber = textPtr(table)
	return o, nil
}

const listOrderItems = `
SELECT id, menu_item_id, name, price, options, status, created_at, category_name, special_request
FROM order_items
WHERE order_id = $1
ORDER BY created_at, id`

// ListOrderItems returns every unit placed on the order.
func (s *OrderItemStore) ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]orderview.StoredOrderItem, error) {
	rows, err := s.db.Query(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := []orderview.StoredOrderItem{}
	for rows.Next() {
		var (
			id, menuItemID    uuid.UUID
			name, status      string
			price             pgtype.Numeric
			options           []byte
			createdAt         time.Time
			category, request pgtype.Text
		)
		if err := rows.Scan(&id, &menuItemID, &name, &price, &options, &status, &createdAt, &category, &request); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}

		item := orderview.StoredOrderItem{
			ItemID:         id.String(),
			MenuItemID:     menuItemID.String(),
			Name:           name,
			Status:         status,
			CreatedAt:      createdAt,
			CategoryName:   textPtr(category),
			SpecialRequest: textPtr(request),
		}
		if item.Price, err = numericToDecimal(price); err != nil {
			return nil, fmt.Errorf("item %s: price: %w", item.ItemID, err)
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &item.Options); err != nil {
				return nil, fmt.Errorf("item %s: options: %w", item.ItemID, err)
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

// --- Helpers ---

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(val.(string))
}
