package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/service/admin"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	adminCtxKey    = "storefront.admin"
	maxUploadBytes = 10 << 20
)

// adminMiddleware requires a bearer token carrying the admin flag. Any
// failure is a 401 so the client drops its credentials.
func adminMiddleware(tokens AdminVerifier, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
			return
		}
		claims, err := tokens.Verify(strings.TrimSpace(raw))
		if err != nil {
			l.Warn("admin: rejected token", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "Access denied. Admin privileges required."})
			return
		}
		c.Set(adminCtxKey, claims.Subject)
		c.Next()
	}
}

func adminOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, adminMessage{Message: message, Data: data})
}

func adminFail(c *gin.Context, message string, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	payload := errorPayload(err, status)
	body := gin.H{"error": payload.Error, "message": message}
	if payload.Field != "" {
		body["field"] = payload.Field
	}
	c.JSON(status, body)
}

func (h *handlers) dashboard(c *gin.Context) {
	d, err := h.deps.Admin.Dashboard(c.Request.Context())
	if err != nil {
		adminFail(c, "Error loading dashboard", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) adminListProducts(c *gin.Context) {
	list, err := h.deps.Admin.Products(c.Request.Context())
	if err != nil {
		adminFail(c, "Error loading products", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) adminListPackages(c *gin.Context) {
	list, err := h.deps.Admin.Packages(c.Request.Context())
	if err != nil {
		adminFail(c, "Error loading packages", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) adminListServices(c *gin.Context) {
	list, err := h.deps.Admin.Services(c.Request.Context())
	if err != nil {
		adminFail(c, "Error loading services", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) adminCreateProduct(c *gin.Context) {
	var in admin.ProductInput
	img, err := bindAdminForm(c, &in, "image")
	if err != nil {
		adminFail(c, "Error adding product", err)
		return
	}
	p, err := h.deps.Admin.CreateProduct(c.Request.Context(), in, img)
	if err != nil {
		adminFail(c, "Error adding product", err)
		return
	}
	adminOK(c, http.StatusCreated, "Product added successfully!", p)
}

func (h *handlers) adminCreatePackage(c *gin.Context) {
	var in admin.PackageInput
	img, err := bindAdminForm(c, &in, "image")
	if err != nil {
		adminFail(c, "Error adding package", err)
		return
	}
	p, err := h.deps.Admin.CreatePackage(c.Request.Context(), in, img)
	if err != nil {
		adminFail(c, "Error adding package: "+err.Error(), err)
		return
	}
	adminOK(c, http.StatusCreated, "Package added successfully!", p)
}

func (h *handlers) adminCreateService(c *gin.Context) {
	var in admin.ServiceInput
	img, err := bindAdminForm(c, &in, "image")
	if err != nil {
		adminFail(c, "Error adding service", err)
		return
	}
	s, err := h.deps.Admin.CreateService(c.Request.Context(), in, img)
	if err != nil {
		adminFail(c, "Error adding service", err)
		return
	}
	adminOK(c, http.StatusCreated, "Service added successfully!", s)
}

var deletedMessages = map[domain.CatalogKind]string{
	domain.KindProducts: "Product",
	domain.KindPackages: "Package",
	domain.KindServices: "Service",
}

func (h *handlers) adminDelete(c *gin.Context) {
	kind, ok := domain.ParseCatalogKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, errorBody{Error: fmt.Sprintf("unknown collection %q", c.Param("kind"))})
		return
	}
	label := deletedMessages[kind]
	if err := h.deps.Admin.Delete(c.Request.Context(), kind, c.Param("id")); err != nil {
		adminFail(c, "Error deleting "+strings.ToLower(label), err)
		return
	}
	adminOK(c, http.StatusOK, label+" deleted successfully!", nil)
}

func (h *handlers) adminListOrders(c *gin.Context) {
	orders, err := h.deps.Admin.Orders(c.Request.Context())
	if err != nil {
		adminFail(c, "Error loading orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *handlers) adminUpdateOrder(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		adminFail(c, "Error updating order status", &domain.ValidationError{Field: "status", Message: "required", Err: err})
		return
	}
	if err := h.deps.Admin.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		adminFail(c, "Error updating order status", err)
		return
	}
	adminOK(c, http.StatusOK, fmt.Sprintf("Order marked as %s!", req.Status), nil)
}

func (h *handlers) adminGetBusiness(c *gin.Context) {
	info, err := h.deps.Admin.Business(c.Request.Context())
	if err != nil {
		adminFail(c, "Error loading business information", err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *handlers) adminSaveBusiness(c *gin.Context) {
	var in admin.BusinessInput
	logo, err := bindAdminForm(c, &in, "logo")
	if err != nil {
		adminFail(c, "Error updating business information", err)
		return
	}
	info, err := h.deps.Admin.SaveBusiness(c.Request.Context(), in, logo)
	if err != nil {
		adminFail(c, "Error updating business information", err)
		return
	}
	adminOK(c, http.StatusOK, "Business information updated successfully!", info)
}

// bindAdminForm accepts JSON or multipart bodies. For multipart requests the
// optional file field is returned as an upload.
func bindAdminForm(c *gin.Context, dst any, fileField string) (*admin.Image, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(dst); err != nil {
			return nil, &domain.ValidationError{Message: "malformed request body", Err: err}
		}
		return nil, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	if err := c.ShouldBind(dst); err != nil {
		return nil, &domain.ValidationError{Message: "malformed form", Err: err}
	}
	fh, err := c.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.ValidationError{Field: fileField, Message: "unreadable upload", Err: err}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, &domain.ValidationError{Field: fileField, Message: "unreadable upload", Err: err}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &domain.ValidationError{Field: fileField, Message: "unreadable upload", Err: err}
	}
	return &admin.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        bytes.NewReader(data),
	}, nil
}
