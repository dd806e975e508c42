package httpserver

import (
	"fmt"
	"net/http"

	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/notify"

	"github.com/gin-gonic/gin"
)

func (h *handlers) getCart(c *gin.Context) {
	h.renderCart(c, http.StatusOK)
}

func (h *handlers) renderCart(c *gin.Context, status int) {
	view, err := currentSession(c).Renderer.Render(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, status, view)
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &domain.ValidationError{Field: "productId", Message: "required", Err: err})
		return
	}
	ctx := c.Request.Context()
	product, err := h.deps.Catalog.Product(ctx, req.ProductID)
	if err != nil {
		fail(c, err)
		return
	}
	if err := currentSession(c).Cart.Add(ctx, product.ID, product.Name, product.Price, product.ImageURL); err != nil {
		fail(c, err)
		return
	}
	notifySession(c, fmt.Sprintf("%s added to cart!", product.Name), notify.SeveritySuccess)
	h.renderCart(c, http.StatusOK)
}

func (h *handlers) setCartQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &domain.ValidationError{Field: "quantity", Message: "required", Err: err})
		return
	}
	if err := currentSession(c).Cart.SetQuantity(c.Request.Context(), c.Param("productId"), *req.Quantity); err != nil {
		fail(c, err)
		return
	}
	h.renderCart(c, http.StatusOK)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	if err := currentSession(c).Cart.Remove(c.Request.Context(), c.Param("productId")); err != nil {
		fail(c, err)
		return
	}
	notifySession(c, "Item removed from cart", notify.SeveritySuccess)
	h.renderCart(c, http.StatusOK)
}
