package orderview

import (
	"github.com/shopspring/decimal"
	"github.com/tablelink/api/internal/enum"
)

// UnitValue is the unit's base price plus every selected option surcharge.
func UnitValue(item StoredOrderItem) decimal.Decimal {
	v := item.Price
	for _, opt := range item.Options {
		v = v.Add(opt.Price)
	}
	return v
}

// CalculateOrderTotal sums UnitValue over every unit that was not rejected.
// The sum is exact; rounding to the currency unit is left to the caller.
func CalculateOrderTotal(items []StoredOrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Status == enum.ItemStatusRejected {
			continue
		}
		total = total.Add(UnitValue(item))
	}
	return total
}
