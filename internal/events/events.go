// Package events publishes storefront domain events to RabbitMQ.
package events

import (
	"time"

	"royalwood-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	OrderPlacedQueue      = "storefront.order.placed"
	EventTypeOrderPlaced  = "OrderPlaced"
	orderPlacedVersion    = 1
	defaultPublishTimeout = 3 * time.Second
)

type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// OrderPlaced is emitted once per successfully recorded order.
type OrderPlaced struct {
	EventType    string          `json:"eventType"`
	EventVersion int             `json:"eventVersion"`
	OrderID      string          `json:"orderId"`
	CustomerName string          `json:"customerName"`
	Phone        string          `json:"phone"`
	Items        []OrderItem     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	PlacedAt     time.Time       `json:"placedAt"`
}

func newOrderPlaced(o domain.OrderRecord) OrderPlaced {
	ev := OrderPlaced{
		EventType:    EventTypeOrderPlaced,
		EventVersion: orderPlacedVersion,
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Items:        make([]OrderItem, 0, len(o.Items)),
		Total:        o.Total,
		Status:       o.Status,
		PlacedAt:     o.CreatedAt.UTC(),
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return ev
}
