package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shopspring/decimal"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// formatMoney renders an amount with two decimals. Amounts are only rounded
// here, never while they are being summed.
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
