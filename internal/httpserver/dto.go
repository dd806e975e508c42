package httpserver

import (
	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/service/cart"
	"royalwood-storefront/internal/service/checkout"
)

type linkResponse struct {
	URL string `json:"url"`
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type submitRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (r submitRequest) form() checkout.Form {
	return checkout.Form{Name: r.Name, Phone: r.Phone, Address: r.Address, Notes: r.Notes}
}

type checkoutResponse struct {
	State        checkout.State      `json:"state"`
	Form         *checkout.Form      `json:"form,omitempty"`
	Confirmation *domain.OrderRecord `json:"confirmation,omitempty"`
	ContactURL   string              `json:"contactUrl,omitempty"`
	Cart         *cart.View          `json:"cart,omitempty"`
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type adminMessage struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
