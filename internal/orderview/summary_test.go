package orderview

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tablelink/api/internal/enum"
)

func TestSummarize_OneRoundMixedStatuses(t *testing.T) {
	items := []StoredOrderItem{
		unit("a", "Burger", "ready", "10", 0),
		unit("b", "Burger", "preparing", "10", 0),
	}

	s := Summarize(items, false)
	if len(s.Rounds) != 1 {
		t.Fatalf("rounds: got %d, want 1", len(s.Rounds))
	}
	if s.Rounds[0].Status != enum.RoundStatusPreparing {
		t.Errorf("round status: got %s, want preparing", s.Rounds[0].Status)
	}
	if len(s.Groups) != 2 {
		t.Errorf("groups: got %d, want 2", len(s.Groups))
	}
	if s.GlobalStatus != enum.GlobalStatusInProgress {
		t.Errorf("global: got %s, want In Progress", s.GlobalStatus)
	}
	if !s.Total.Equal(dec("20")) {
		t.Errorf("total: got %s, want 20", s.Total)
	}
	if s.ItemCount != 2 {
		t.Errorf("item_count: got %d, want 2", s.ItemCount)
	}
}

func TestSummarize_PerRoundDetail(t *testing.T) {
	items := []StoredOrderItem{
		withNote(unit("a", "Soup", "ready", "6", 0), "extra spicy"),
		withNote(unit("b", "Soup", "rejected", "6", 5*time.Second), "extra spicy"),
		unit("c", "Tea", "pending", "2", 4*time.Minute),
		unit("d", "Tea", "pending", "2", 4*time.Minute),
	}

	s := Summarize(items, false)
	if len(s.Rounds) != 2 {
		t.Fatalf("rounds: got %d, want 2", len(s.Rounds))
	}

	r1, r2 := s.Rounds[0], s.Rounds[1]
	if r1.Status != enum.RoundStatusReady || r2.Status != enum.RoundStatusConfirmed {
		t.Errorf("round statuses: got %s,%s; want ready,confirmed", r1.Status, r2.Status)
	}
	if !r1.Total.Equal(dec("6")) || !r2.Total.Equal(dec("4")) {
		t.Errorf("round totals: got %s,%s; want 6,4", r1.Total, r2.Total)
	}
	if len(r2.Groups) != 1 || r2.Groups[0].Count != 2 {
		t.Errorf("round 2 groups: got %+v, want one group of 2", r2.Groups)
	}
	if r1.SpecialRequest == nil || *r1.SpecialRequest != "extra spicy" {
		t.Errorf("round 1 special_request: got %v", r1.SpecialRequest)
	}
	if !s.Total.Equal(dec("10")) {
		t.Errorf("total: got %s, want 10", s.Total)
	}
}

func TestSummarize_ClosedOrderCompletesRounds(t *testing.T) {
	items := []StoredOrderItem{
		unit("a", "Soup", "preparing", "6", 0),
		unit("b", "Tea", "rejected", "2", 5*time.Minute),
	}

	s := Summarize(items, true)
	if s.Rounds[0].Status != enum.RoundStatusCompleted {
		t.Errorf("round 1: got %s, want completed", s.Rounds[0].Status)
	}
	if s.Rounds[1].Status != enum.RoundStatusRejected {
		t.Errorf("round 2: got %s, want rejected", s.Rounds[1].Status)
	}
	if s.GlobalStatus != enum.GlobalStatusAllReady {
		t.Errorf("global: got %s, want All Ready", s.GlobalStatus)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, false)
	if s.GlobalStatus != enum.GlobalStatusNoRounds {
		t.Errorf("global: got %s, want No rounds", s.GlobalStatus)
	}
	if len(s.Rounds) != 0 || len(s.Groups) != 0 || !s.Total.IsZero() {
		t.Errorf("expected empty summary, got %+v", s)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	items := []StoredOrderItem{
		unit("a", "Soup", "ready", "6", 0, opt("Size", "Bowl", "1")),
		unit("b", "Tea", "pending", "2", 3*time.Minute),
	}
	if !reflect.DeepEqual(Summarize(items, false), Summarize(items, false)) {
		t.Error("Summarize is not idempotent")
	}
}

// =====================
// Decoding and validation
// =====================

func TestStoredOrderItem_DecodesPersistedJSON(t *testing.T) {
	raw := `[{
		"item_id": "9b2f",
		"menu_item_id": "m-1",
		"name": "Pad Thai",
		"price": 11.5,
		"options": [{"groupName": "Spice", "label": "Hot", "price": 0.75}],
		"status": "preparing",
		"created_at": "2024-05-01T12:00:00.123456+00:00",
		"category_name": "Noodles",
		"special_request": null
	}]`

	var items []StoredOrderItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	item := items[0]
	if !item.Price.Equal(dec("11.5")) {
		t.Errorf("price: got %s, want 11.5", item.Price)
	}
	if !UnitValue(item).Equal(dec("12.25")) {
		t.Errorf("unit value: got %s, want 12.25", UnitValue(item))
	}
	if item.CategoryName == nil || *item.CategoryName != "Noodles" {
		t.Errorf("category_name: got %v", item.CategoryName)
	}
	if item.SpecialRequest != nil {
		t.Errorf("special_request: got %q, want nil", *item.SpecialRequest)
	}
	if err := Validate(items); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestDecodeItems(t *testing.T) {
	good := json.RawMessage(`{"item_id": "u1", "name": "Teh", "price": 4, "status": "ready", "created_at": "2024-05-01T10:00:00Z"}`)

	t.Run("valid", func(t *testing.T) {
		items, err := DecodeItems([]json.RawMessage{good})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 1 || items[0].ItemID != "u1" || !items[0].Price.Equal(dec("4")) {
			t.Errorf("got %+v", items)
		}
	})

	t.Run("nil", func(t *testing.T) {
		items, err := DecodeItems(nil)
		if err != nil || items != nil {
			t.Errorf("got %v, %v; want nil, nil", items, err)
		}
	})

	cases := []struct {
		name  string
		raw   string
		names string
	}{
		{
			"postgres text timestamp",
			`{"item_id": "u7", "name": "Kopi", "price": 4, "status": "pending", "created_at": "2024-05-01 10:00:00+00"}`,
			"item u7",
		},
		{
			"price not a number",
			`{"item_id": "u8", "name": "Kopi", "price": "four", "status": "pending", "created_at": "2024-05-01T10:00:00Z"}`,
			"item u8",
		},
		{
			"unreadable item_id",
			`{"item_id": 42, "name": "Kopi", "price": 4, "status": "pending", "created_at": "yesterday"}`,
			"items[1]",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeItems([]json.RawMessage{good, json.RawMessage(tc.raw)})
			if !errors.Is(err, ErrMalformedItem) {
				t.Fatalf("got %v, want ErrMalformedItem", err)
			}
			if !strings.Contains(err.Error(), tc.names) {
				t.Errorf("error %q does not name %s", err, tc.names)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := unit("ok", "Soup", "pending", "6", 0)

	noID := valid
	noID.ItemID = ""
	noTime := valid
	noTime.ItemID = "no-time"
	noTime.CreatedAt = time.Time{}
	badStatus := valid
	badStatus.ItemID = "bad-status"
	badStatus.Status = "served"
	negPrice := valid
	negPrice.ItemID = "neg-price"
	negPrice.Price = dec("-1")
	negOpt := unit("neg-opt", "Soup", "pending", "6", 0, opt("Size", "Small", "-0.5"))

	cases := []struct {
		name   string
		item   StoredOrderItem
		want   error
		itemID string
	}{
		{"missing item_id", noID, ErrMissingItemID, "items[1]"},
		{"missing created_at", noTime, ErrMissingCreatedAt, "no-time"},
		{"unknown status", badStatus, ErrUnknownStatus, "bad-status"},
		{"negative price", negPrice, ErrNegativePrice, "neg-price"},
		{"negative option price", negOpt, ErrNegativePrice, "neg-opt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate([]StoredOrderItem{valid, tc.item})
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			if !strings.Contains(err.Error(), tc.itemID) {
				t.Errorf("error %q does not name %s", err, tc.itemID)
			}
		})
	}

	if err := Validate([]StoredOrderItem{valid}); err != nil {
		t.Errorf("valid snapshot: %v", err)
	}
}
