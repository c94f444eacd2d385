// Package shipping implements the deterministic shipping-cost derivation (C2,
// spec.md §4.2). It has no failure mode and no external dependencies.
package shipping

import "github.com/merkulovlad/orderflow/internal/model"

// rate is the fixed fraction of totalAmount charged as shipping.
const rate = 0.02

// Cost computes order.totalAmount * 0.02. Invoked by ConsumeEngine after
// sequencing validation and before the ProcessedOrderStore write.
func Cost(order model.Order) float64 {
	return order.TotalAmount * rate
}
