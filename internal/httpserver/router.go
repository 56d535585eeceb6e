package httpserver

import (
	"context"
	"log"
	"strings"

	"milstore/internal/domain"
	customersvc "milstore/internal/service/customer"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CartService is the slice of the cart service the handlers consume.
type CartService interface {
	List(ctx context.Context, owner domain.Owner) ([]domain.CartLine, error)
	Add(ctx context.Context, owner domain.Owner, productID int64, variantID *int64, quantity int) (*domain.CartLine, error)
	UpdateQuantity(ctx context.Context, owner domain.Owner, lineID int64, quantity int) (*domain.CartLine, error)
	Remove(ctx context.Context, owner domain.Owner, lineID int64) error
	Clear(ctx context.Context, owner domain.Owner) error
	Summary(ctx context.Context, owner domain.Owner) (domain.CartSummary, error)
	ShippingCost(ctx context.Context, owner domain.Owner) (decimal.Decimal, *domain.ShippingRate, error)
	Merge(ctx context.Context, sessionID string, userID int64) error
}

type CustomerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (string, string, *domain.Customer, error)
	Validate(ctx context.Context, token string) (int64, bool)
}

type SessionService interface {
	Issue(ctx context.Context) (accessToken, refreshToken, sessionID string, err error)
	Validate(ctx context.Context, token string) (string, error)
}

type CatalogRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// Deps carries the collaborators the router needs.
type Deps struct {
	CartSvc     CartService
	CustomerSvc CustomerService
	SessionSvc  SessionService
	Catalog     CatalogRepo
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(corsMiddleware(corsOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/sessions", postSession(deps.SessionSvc, logger))
	router.POST("/auth/signup", postSignup(deps.CustomerSvc, logger))
	router.POST("/auth/login", postLogin(deps.CustomerSvc, deps.CartSvc, logger))

	router.GET("/products", getProducts(deps.Catalog, logger))
	router.GET("/products/:productID", getProduct(deps.Catalog, logger))

	cart := router.Group("/cart", ownerMiddleware(deps.CustomerSvc, deps.SessionSvc))
	{
		cart.GET("", getCart(deps.CartSvc, logger))
		cart.GET("/summary", getCartSummary(deps.CartSvc, logger))
		cart.POST("/lines", postCartLine(deps.CartSvc, logger))
		cart.PATCH("/lines/:lineID", patchCartLine(deps.CartSvc, logger))
		cart.DELETE("/lines/:lineID", deleteCartLine(deps.CartSvc, logger))
		cart.DELETE("", deleteCart(deps.CartSvc, logger))
	}

	return router
}

func corsMiddleware(origins string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Session-Id")
	if origins == "" || origins == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = strings.Split(origins, ",")
	}
	return cors.New(cfg)
}
