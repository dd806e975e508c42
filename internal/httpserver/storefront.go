package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) getBusiness(c *gin.Context) {
	info, err := h.deps.Catalog.Business(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, info)
}

func (h *handlers) listProducts(c *gin.Context) {
	list, err := h.deps.Catalog.Products(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *handlers) listPackages(c *gin.Context) {
	list, err := h.deps.Catalog.Packages(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *handlers) getPackage(c *gin.Context) {
	p, err := h.deps.Catalog.Package(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

func (h *handlers) listServices(c *gin.Context) {
	list, err := h.deps.Catalog.Services(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

func (h *handlers) packageEnquiry(c *gin.Context) {
	link, err := h.deps.Catalog.PackageEnquiry(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, linkResponse{URL: link})
}

func (h *handlers) serviceEnquiry(c *gin.Context) {
	link, err := h.deps.Catalog.ServiceEnquiry(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, linkResponse{URL: link})
}
