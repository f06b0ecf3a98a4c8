package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the services the routes are built on.
type Deps struct {
	AuthSvc    AuthService
	CartSvc    CartService
	CatalogSvc CatalogService
}

// buildRouter wires routes for the cart API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/auth/signup", signupHandler(deps.AuthSvc))
	router.POST("/auth/login", loginHandler(deps.AuthSvc))

	router.GET("/products", productListHandler(deps.CatalogSvc))
	router.GET("/products/:id", productHandler(deps.CatalogSvc))

	authed := router.Group("/", authMiddleware(deps.AuthSvc))
	authed.GET("/users/:userId", userHandler(deps.AuthSvc, deps.CartSvc))

	cart := authed.Group("/cart/:userId", sameUserOnly())
	cart.GET("/count", cartCountHandler(deps.CartSvc))
	cart.POST("/add", cartAddHandler(deps.CartSvc))
	cart.PUT("/update", cartUpdateHandler(deps.CartSvc))
	cart.DELETE("", cartRemoveHandler(deps.CartSvc))
	cart.POST("/merge", cartMergeHandler(deps.CartSvc))

	return router
}
