package httpserver

import (
	"context"
	"errors"
	"time"

	"royalwood-storefront/internal/auth"
	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/logger"
	"royalwood-storefront/internal/service/admin"
	"royalwood-storefront/internal/service/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionProvider hands out per-visitor sessions.
type SessionProvider interface {
	Issue() string
	Get(id string) (*session.Session, error)
}

// CatalogService is the storefront read side.
type CatalogService interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Packages(ctx context.Context) ([]domain.InteriorPackage, error)
	Package(ctx context.Context, id string) (*domain.InteriorPackage, error)
	Services(ctx context.Context) ([]domain.Service, error)
	PackageEnquiry(ctx context.Context, id string) (string, error)
	ServiceEnquiry(ctx context.Context, id string) (string, error)
	Business(ctx context.Context) (domain.BusinessInfo, error)
}

// AdminService is the back-office surface.
type AdminService interface {
	Dashboard(ctx context.Context) (admin.Dashboard, error)
	Products(ctx context.Context) ([]domain.Product, error)
	Packages(ctx context.Context) ([]domain.InteriorPackage, error)
	Services(ctx context.Context) ([]domain.Service, error)
	CreateProduct(ctx context.Context, in admin.ProductInput, img *admin.Image) (*domain.Product, error)
	CreatePackage(ctx context.Context, in admin.PackageInput, img *admin.Image) (*domain.InteriorPackage, error)
	CreateService(ctx context.Context, in admin.ServiceInput, img *admin.Image) (*domain.Service, error)
	Delete(ctx context.Context, kind domain.CatalogKind, id string) error
	Orders(ctx context.Context) ([]domain.OrderRecord, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	Business(ctx context.Context) (domain.BusinessInfo, error)
	SaveBusiness(ctx context.Context, in admin.BusinessInput, logo *admin.Image) (domain.BusinessInfo, error)
}

// AdminVerifier checks admin bearer tokens.
type AdminVerifier interface {
	Verify(raw string) (*auth.AdminClaims, error)
}

type Deps struct {
	Sessions    SessionProvider
	Catalog     CatalogService
	Admin       AdminService
	AdminTokens AdminVerifier
	ReadyChecks map[string]ReadyCheck
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(l *zap.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Sessions == nil || deps.Catalog == nil {
		return nil, errors.New("httpserver: sessions and catalog are required")
	}
	l = logger.OrNop(l)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(logger.GinMiddleware(l), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.ReadyChecks))

	h := &handlers{deps: deps, logger: l}

	store := router.Group("/", sessionMiddleware(deps.Sessions))
	store.GET("/business", h.getBusiness)
	store.GET("/catalog/products", h.listProducts)
	store.GET("/catalog/packages", h.listPackages)
	store.GET("/catalog/packages/:id", h.getPackage)
	store.GET("/catalog/services", h.listServices)
	store.GET("/catalog/packages/:id/enquiry", h.packageEnquiry)
	store.GET("/catalog/services/:id/enquiry", h.serviceEnquiry)

	store.GET("/cart", h.getCart)
	store.POST("/cart/items", h.addCartItem)
	store.PUT("/cart/items/:productId", h.setCartQuantity)
	store.DELETE("/cart/items/:productId", h.removeCartItem)

	store.GET("/checkout", h.getCheckout)
	store.POST("/checkout/begin", h.beginCheckout)
	store.POST("/checkout/submit", h.submitCheckout)
	store.POST("/checkout/cancel", h.cancelCheckout)
	store.POST("/checkout/contact", h.contactCheckout)

	if deps.Admin != nil && deps.AdminTokens != nil {
		adm := router.Group("/admin", adminMiddleware(deps.AdminTokens, l))
		adm.GET("/dashboard", h.dashboard)
		adm.GET("/products", h.adminListProducts)
		adm.POST("/products", h.adminCreateProduct)
		adm.GET("/packages", h.adminListPackages)
		adm.POST("/packages", h.adminCreatePackage)
		adm.GET("/services", h.adminListServices)
		adm.POST("/services", h.adminCreateService)
		adm.DELETE("/:kind/:id", h.adminDelete)
		adm.GET("/orders", h.adminListOrders)
		adm.PATCH("/orders/:id", h.adminUpdateOrder)
		adm.GET("/business", h.adminGetBusiness)
		adm.PUT("/business", h.adminSaveBusiness)
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", sessionHeader},
		ExposeHeaders:    []string{sessionHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
