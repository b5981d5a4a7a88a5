package http

import (
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/http/middleware"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/ws"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Sessions *SessionHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	Console  *ConsoleHandler
	Stream   *ws.OrderStream
}

func NewRouter(h Handlers, authz *middleware.Authz, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/v1/auth/login", h.Sessions.Login)
	r.POST("/v1/auth/register", h.Sessions.Register)

	v1 := r.Group("/v1", authz.Require())
	{
		v1.POST("/auth/logout", h.Sessions.Logout)
		v1.GET("/me", h.Sessions.Me)
		v1.GET("/addresses", h.Sessions.ListAddresses)
		v1.POST("/addresses", h.Sessions.CreateAddress)
		v1.GET("/notifications", h.Sessions.Notifications)

		v1.GET("/restaurants", h.Catalog.ListRestaurants)
		v1.GET("/restaurants/:id", h.Catalog.GetRestaurant)
		v1.GET("/restaurants/:id/reviews", h.Catalog.ListReviews)
		v1.POST("/restaurants/:id/reviews", h.Catalog.CreateReview)

		v1.GET("/cart", h.Cart.View)
		v1.GET("/cart/count", h.Cart.Count)
		v1.POST("/cart/items", h.Cart.AddItem)
		v1.PATCH("/cart/items/:id", h.Cart.SetQuantity)
		v1.DELETE("/cart/items/:id", h.Cart.RemoveLine)
		v1.POST("/cart/promo", h.Cart.ApplyPromo)

		v1.POST("/checkout", h.Checkout.Begin)
		v1.GET("/checkout", h.Checkout.Current)
		v1.DELETE("/checkout", h.Checkout.Abandon)
		v1.POST("/checkout/address", h.Checkout.SelectAddress)
		v1.POST("/checkout/payment-method", h.Checkout.SelectPayment)
		v1.POST("/checkout/back", h.Checkout.Back)
		v1.POST("/checkout/submit", h.Checkout.Submit)
		v1.POST("/checkout/payment/confirm", h.Checkout.ConfirmPayment)
		v1.POST("/checkout/payment/dismiss", h.Checkout.DismissPayment)
		v1.POST("/checkout/retry", h.Checkout.Retry)

		v1.GET("/orders", h.Orders.List)
		v1.GET("/orders/:id", h.Orders.Get)
		v1.GET("/orders/:id/stream", h.Stream.Serve)

		console := v1.Group("/console/restaurants/:id")
		{
			console.GET("/overview", h.Console.Overview)
			console.GET("/orders", h.Console.Orders)
			console.POST("/orders/:orderID/advance", h.Console.AdvanceOrder)
			console.GET("/menu", h.Console.Menu)
			console.POST("/menu", h.Console.AddMenuItem)
			console.GET("/reviews", h.Console.Reviews)
		}
	}

	return r
}
