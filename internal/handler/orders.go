package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tablelink/api/internal/orderview"
	"github.com/tablelink/api/internal/service"
)

const maxSnapshotBytes = 1 << 20

// OrderSummarizer defines the service methods needed by order handlers.
// Satisfied by *service.OrderSummaryService; narrow interface for testability.
type OrderSummarizer interface {
	GetSummary(ctx context.Context, shopID, orderID uuid.UUID) (*service.SummaryResult, error)
	SummarizeSnapshot(items []orderview.StoredOrderItem, closed bool) (*orderview.OrderSummary, error)
}

// OrderHandler serves the kitchen, cashier and customer views of an order.
type OrderHandler struct {
	svc OrderSummarizer
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderSummarizer) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// RegisterRoutes registers stored-order endpoints on the given Chi router.
// Expected to be mounted inside a shop-scoped subrouter: /shops/{sid}/orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{id}/summary", h.Summary)
	r.Get("/{id}/rounds", h.Rounds)
	r.Get("/{id}/items", h.Items)
}

// RegisterSnapshotRoutes registers the stateless endpoint that summarizes a
// caller-supplied snapshot. Mounted at /orders.
func (h *OrderHandler) RegisterSnapshotRoutes(r chi.Router) {
	r.Post("/summarize", h.Summarize)
}

// --- Request / Response types ---

// summarizeRequest keeps items raw so each unit is decoded on its own and a
// malformed one can be reported by item_id.
type summarizeRequest struct {
	Items  []json.RawMessage `json:"items"`
	Closed bool              `json:"closed"`
}

type optionResponse struct {
	GroupName string `json:"groupName"`
	Label     string `json:"label"`
	Price     string `json:"price"`
}

type itemResponse struct {
	ItemID         string           `json:"item_id"`
	MenuItemID     string           `json:"menu_item_id"`
	Name           string           `json:"name"`
	Price          string           `json:"price"`
	UnitValue      string           `json:"unit_value"`
	Options        []optionResponse `json:"options"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	CategoryName   *string          `json:"category_name"`
	SpecialRequest *string          `json:"special_request"`
}

type groupResponse struct {
	Name         string           `json:"name"`
	Options      []optionResponse `json:"options"`
	Status       string           `json:"status"`
	Price        string           `json:"price"`
	UnitValue    string           `json:"unit_value"`
	CategoryName *string          `json:"category_name"`
	Count        int              `json:"count"`
	ItemIDs      []string         `json:"item_ids"`
	CreatedAt    time.Time        `json:"created_at"`
}

type roundResponse struct {
	RoundNumber    int             `json:"round_number"`
	Timestamp      time.Time       `json:"timestamp"`
	Status         string          `json:"status"`
	SpecialRequest *string         `json:"special_request"`
	Total          string          `json:"total"`
	Items          []itemResponse  `json:"items"`
	Groups         []groupResponse `json:"groups"`
}

type summaryResponse struct {
	OrderID      *uuid.UUID      `json:"order_id,omitempty"`
	ShopID       *uuid.UUID      `json:"shop_id,omitempty"`
	TableNumber  *string         `json:"table_number,omitempty"`
	OrderStatus  string          `json:"order_status,omitempty"`
	GlobalStatus string          `json:"global_status"`
	ItemCount    int             `json:"item_count"`
	Total        string          `json:"total"`
	Rounds       []roundResponse `json:"rounds"`
	Groups       []groupResponse `json:"groups"`
}

// roundStatusResponse is the compact per-round row of the rounds endpoint.
type roundStatusResponse struct {
	RoundNumber    int       `json:"round_number"`
	Timestamp      time.Time `json:"timestamp"`
	Status         string    `json:"status"`
	SpecialRequest *string   `json:"special_request"`
	ItemCount      int       `json:"item_count"`
	Total          string    `json:"total"`
}

type roundsResponse struct {
	OrderID      uuid.UUID             `json:"order_id"`
	GlobalStatus string                `json:"global_status"`
	Rounds       []roundStatusResponse `json:"rounds"`
}

type itemsResponse struct {
	OrderID   uuid.UUID       `json:"order_id"`
	ItemCount int             `json:"item_count"`
	Total     string          `json:"total"`
	Groups    []groupResponse `json:"groups"`
}

// --- Handlers ---

// Summary handles GET /shops/{sid}/orders/{id}/summary.
func (h *OrderHandler) Summary(w http.ResponseWriter, r *http.Request) {
	res, ok := h.loadSummary(w, r)
	if !ok {
		return
	}

	resp := toSummaryResponse(res.Summary)
	resp.OrderID = &res.Order.ID
	resp.ShopID = &res.Order.ShopID
	resp.TableNumber = res.Order.TableNumber
	resp.OrderStatus = res.Order.Status

	writeJSON(w, http.StatusOK, resp)
}

// Rounds handles GET /shops/{sid}/orders/{id}/rounds.
func (h *OrderHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	res, ok := h.loadSummary(w, r)
	if !ok {
		return
	}

	rounds := make([]roundStatusResponse, len(res.Summary.Rounds))
	for i, rs := range res.Summary.Rounds {
		rounds[i] = roundStatusResponse{
			RoundNumber:    rs.RoundNumber,
			Timestamp:      rs.Timestamp,
			Status:         rs.Status,
			SpecialRequest: rs.SpecialRequest,
			ItemCount:      len(rs.Items),
			Total:          formatMoney(rs.Total),
		}
	}

	writeJSON(w, http.StatusOK, roundsResponse{
		OrderID:      res.Order.ID,
		GlobalStatus: res.Summary.GlobalStatus,
		Rounds:       rounds,
	})
}

// Items handles GET /shops/{sid}/orders/{id}/items.
func (h *OrderHandler) Items(w http.ResponseWriter, r *http.Request) {
	res, ok := h.loadSummary(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, itemsResponse{
		OrderID:   res.Order.ID,
		ItemCount: res.Summary.ItemCount,
		Total:     formatMoney(res.Summary.Total),
		Groups:    toGroupResponses(res.Summary.Groups),
	})
}

// Summarize handles POST /orders/summarize.
func (h *OrderHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSnapshotBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	items, err := orderview.DecodeItems(req.Items)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("%v: %v", service.ErrInvalidSnapshot, err)})
		return
	}

	summary, err := h.svc.SummarizeSnapshot(items, req.Closed)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSnapshot) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: summarize snapshot: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(*summary))
}

// loadSummary parses the path IDs and fetches the summary. It writes the
// error response itself and reports whether the caller should continue.
func (h *OrderHandler) loadSummary(w http.ResponseWriter, r *http.Request) (*service.SummaryResult, bool) {
	shopID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid shop ID"})
		return nil, false
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return nil, false
	}

	res, err := h.svc.GetSummary(r.Context(), shopID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return nil, false
		}
		if errors.Is(err, service.ErrCorruptOrder) {
			log.Printf("ERROR: get order summary: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return nil, false
		}
		log.Printf("ERROR: get order summary: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return nil, false
	}

	return res, true
}

// --- Helpers ---

func toSummaryResponse(s orderview.OrderSummary) summaryResponse {
	rounds := make([]roundResponse, len(s.Rounds))
	for i, rs := range s.Rounds {
		items := make([]itemResponse, len(rs.Items))
		for j, item := range rs.Items {
			items[j] = toItemResponse(item)
		}
		rounds[i] = roundResponse{
			RoundNumber:    rs.RoundNumber,
			Timestamp:      rs.Timestamp,
			Status:         rs.Status,
			SpecialRequest: rs.SpecialRequest,
			Total:          formatMoney(rs.Total),
			Items:          items,
			Groups:         toGroupResponses(rs.Groups),
		}
	}

	return summaryResponse{
		GlobalStatus: s.GlobalStatus,
		ItemCount:    s.ItemCount,
		Total:        formatMoney(s.Total),
		Rounds:       rounds,
		Groups:       toGroupResponses(s.Groups),
	}
}

func toItemResponse(item orderview.StoredOrderItem) itemResponse {
	return itemResponse{
		ItemID:         item.ItemID,
		MenuItemID:     item.MenuItemID,
		Name:           item.Name,
		Price:          formatMoney(item.Price),
		UnitValue:      formatMoney(orderview.UnitValue(item)),
		Options:        toOptionResponses(item.Options),
		Status:         item.Status,
		CreatedAt:      item.CreatedAt,
		CategoryName:   item.CategoryName,
		SpecialRequest: item.SpecialRequest,
	}
}

func toGroupResponses(groups []orderview.GroupedOrderItem) []groupResponse {
	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		unitValue := orderview.UnitValue(orderview.StoredOrderItem{Price: g.Price, Options: g.Options})
		resp[i] = groupResponse{
			Name:         g.Name,
			Options:      toOptionResponses(g.Options),
			Status:       g.Status,
			Price:        formatMoney(g.Price),
			UnitValue:    formatMoney(unitValue),
			CategoryName: g.CategoryName,
			Count:        g.Count,
			ItemIDs:      g.ItemIDs,
			CreatedAt:    g.CreatedAt,
		}
	}
	return resp
}

func toOptionResponses(opts []orderview.OrderItemOption) []optionResponse {
	resp := make([]optionResponse, len(opts))
	for i, opt := range opts {
		resp[i] = optionResponse{
			GroupName: opt.GroupName,
			Label:     opt.Label,
			Price:     formatMoney(opt.Price),
		}
	}
	return resp
}
