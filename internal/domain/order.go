package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
)

// ValidOrderStatus reports whether status is one the admin panel may set.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted:
		return true
	}
	return false
}

// OrderDraft is the submission-ready order built from a cart snapshot.
type OrderDraft struct {
	CustomerName string          `json:"customerName"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Notes        string          `json:"notes,omitempty"`
	Items        []CartLine      `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
}

// NewOrderDraft copies lines and computes the total at call time.
func NewOrderDraft(name, phone, address, notes string, lines []CartLine) OrderDraft {
	items := make([]CartLine, len(lines))
	copy(items, lines)
	return OrderDraft{
		CustomerName: name,
		Phone:        phone,
		Address:      address,
		Notes:        notes,
		Items:        items,
		Total:        CartTotal(items),
		Status:       OrderStatusPending,
	}
}

// OrderRecord is a persisted order with its store-assigned id and timestamp.
type OrderRecord struct {
	ID string `json:"id"`
	OrderDraft
	CreatedAt time.Time `json:"createdAt"`
}
