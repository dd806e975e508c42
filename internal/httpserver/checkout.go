package httpserver

import (
	"net/http"

	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/service/checkout"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *handlers) getCheckout(c *gin.Context) {
	wf := currentSession(c).Checkout
	resp := checkoutResponse{State: wf.State(), Confirmation: wf.Confirmation()}
	if resp.State == checkout.StateCollecting {
		form := wf.Form()
		resp.Form = &form
	}
	respond(c, http.StatusOK, resp)
}

func (h *handlers) beginCheckout(c *gin.Context) {
	h.dispatch(c, checkout.Begin{})
}

func (h *handlers) submitCheckout(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, &domain.ValidationError{Message: "malformed checkout form", Err: err})
		return
	}
	h.dispatch(c, checkout.Submit{Form: req.form()})
}

func (h *handlers) cancelCheckout(c *gin.Context) {
	h.dispatch(c, checkout.Cancel{})
}

func (h *handlers) contactCheckout(c *gin.Context) {
	h.dispatch(c, checkout.Contact{})
}

func (h *handlers) dispatch(c *gin.Context, cmd checkout.Command) {
	sess := currentSession(c)
	res, err := sess.Checkout.Dispatch(c.Request.Context(), cmd)
	if err != nil {
		fail(c, err)
		return
	}
	resp := checkoutResponse{
		State:        res.State,
		Confirmation: res.Confirmation,
		ContactURL:   res.ContactURL,
	}
	if _, ok := cmd.(checkout.Submit); ok {
		view, err := sess.Renderer.Render(c.Request.Context())
		if err != nil {
			h.logger.Warn("checkout: render cart after submit", zap.Error(err))
		} else {
			resp.Cart = &view
		}
	}
	respond(c, http.StatusOK, resp)
}
