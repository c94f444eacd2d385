package model

// ProcessedOrder is the consumer's (order, shippingCost) projection — composition,
// not inheritance. Order is the exact last accepted Order for that orderId.
type ProcessedOrder struct {
	Order        Order   `json:"order"`
	ShippingCost float64 `json:"shippingCost"`
}

// ProcessedMessageInfo records the highest broker offset processed for an
// orderId, used by IdempotencyIndex to suppress redeliveries (spec.md §4.5).
type ProcessedMessageInfo struct {
	Offset           int64 `json:"offset"`
	ProcessedAtMillis int64 `json:"processedAtMillis"`
}
