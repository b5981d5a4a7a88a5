package app

import (
	"context"
	"net/http"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/configs"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/cache"
	gwhttp "github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/http"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/http/middleware"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/upstream"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/ws"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/logging"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/payment"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func (a *App) Run(cfg configs.Config) error {
	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      a.Router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	return srv.ListenAndServe()
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)
	log := logging.New("app")
	log.Info("mealmate-gateway: starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}

	// session-scoped state
	sessionStore := cache.NewRedisSessionStore(rdb, cfg.Session.TTL)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	workflows := cache.NewRedisWorkflowStore(rdb, cfg.Workflow.TTL)
	toasts := cache.NewRedisToastStore(rdb, cfg.Toast.TTL)
	catalogCache := cache.NewRedisCatalogCache(rdb, cfg.Catalog.CacheTTL)

	// use cases over the upstream gateways. The sessions use case and the
	// upstream client reference each other (refresh hook), so the client
	// is built first and the hook attached through the option.
	notify := usecase.NewNotifier(toasts)
	sessions := &usecase.Sessions{}
	client := upstream.New(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, upstream.WithAccessSaver(func(ctx context.Context, sessionID, access string) error {
		return sessions.SaveAccess(ctx, sessionID, access)
	}))
	*sessions = *usecase.NewSessions(client, sessionStore, usecase.SessionConfig{
		Secret:   cfg.Session.Secret,
		Issuer:   cfg.Session.Issuer,
		Audience: cfg.Session.Audience,
		TTL:      cfg.Session.TTL,
	})

	cart := usecase.NewCart(client, sessionStore, notify)
	catalog := usecase.NewCatalog(client, catalogCache, notify)
	checkout := usecase.NewCheckout(client, client, client, client, workflows, idem, notify)
	tracker := usecase.NewTracker(client,
		usecase.WithInterval(cfg.Tracking.Interval),
		usecase.WithMaxBackoff(cfg.Tracking.MaxBackoff))
	console := usecase.NewConsole(client, client, notify)

	razorpay := payment.New(payment.Config{
		CheckoutScriptURL: cfg.Payment.CheckoutScriptURL,
		KeySecret:         cfg.Payment.KeySecret,
	})

	// handlers + router
	authz := middleware.NewAuthz(sessions)
	router := gwhttp.NewRouter(gwhttp.Handlers{
		Sessions: gwhttp.NewSessionHandler(sessions, client, notify),
		Catalog:  gwhttp.NewCatalogHandler(catalog),
		Cart:     gwhttp.NewCartHandler(cart),
		Checkout: gwhttp.NewCheckoutHandler(checkout, razorpay),
		Orders:   gwhttp.NewOrderHandler(client, tracker),
		Console:  gwhttp.NewConsoleHandler(console),
		Stream:   ws.NewOrderStream(tracker, cfg.HTTP.CORSOrigins),
	}, authz, cfg.HTTP.CORSOrigins)

	cleanup := func() {
		_ = rdb.Close()
	}
	return &App{Router: router}, cleanup, nil
}
