// @title                      COD Delivery - Order Service
// @version                    1.0
// @description                Orders and cash-on-delivery collection.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/MikeMC777/cod-delivery/docs"
	"github.com/MikeMC777/cod-delivery/internal/auth"
	"github.com/MikeMC777/cod-delivery/internal/cod"
	"github.com/MikeMC777/cod-delivery/internal/config"
	"github.com/MikeMC777/cod-delivery/internal/db"
	"github.com/MikeMC777/cod-delivery/internal/events"
	"github.com/MikeMC777/cod-delivery/internal/httpx"
	"github.com/MikeMC777/cod-delivery/internal/order"
)

// newRouter wires the routes. Every route requires a token; the casbin
// policy decides which roles reach it.
func newRouter(origins []string, tokens *auth.TokenService, authz *auth.Authorizer, orders orderService, cods codService) *gin.Engine {
	r := httpx.NewEngine(origins)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/", auth.Middleware(tokens), auth.Authorize(authz))
	api.POST("/orders", createOrderHandler(orders))
	api.GET("/orders/my-orders", listMyOrdersHandler(orders))
	api.GET("/orders/:order_id", getOrderHandler(orders))
	api.PATCH("/orders/:order_id/cancel", cancelOrderHandler(orders))
	api.PATCH("/admin/orders/:order_id/status", updateOrderStatusHandler(orders))

	api.GET("/cod/collections", listCollectionsHandler(cods))
	api.POST("/cod/collections/:collection_id/collect", collectHandler(cods))
	api.GET("/cod/my-cod-orders", myCollectionsHandler(cods))
	api.GET("/cod/stats/summary", codSummaryHandler(cods))
	return r
}

func publisher(cfg config.Config) (events.Publisher, func()) {
	if cfg.AMQPURL == "" {
		log.Printf("[events] AMQP_URL not set, events disabled")
		return events.NopPublisher{}, func() {}
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		// orders must keep flowing without the broker
		log.Printf("[events] broker unavailable, events disabled: %v", err)
		return events.NopPublisher{}, func() {}
	}
	return p, func() { _ = p.Close() }
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	docs.SwaggerInfo.Title = "COD Delivery - Order Service"

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.PostgresDSN, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}
	authz, err := auth.NewAuthorizer(auth.DefaultPolicy)
	if err != nil {
		log.Fatalf("authz: %v", err)
	}

	pub, closePub := publisher(cfg)
	defer closePub()

	pricing := order.Pricing{
		DeliveryFee:           cfg.Pricing.DeliveryFee,
		FreeDeliveryThreshold: cfg.Pricing.FreeDeliveryThreshold,
		MaxCODAmount:          cfg.Pricing.MaxCODAmount,
	}
	orders := order.NewService(order.NewPGRepo(pool, cfg.DBQueryTimeout), pricing, pub)
	cods := cod.NewService(cod.NewPGRepo(pool, cfg.DBQueryTimeout), cfg.Pricing.AmountTolerance, pub)

	srv := &http.Server{
		Addr:              cfg.OrderSvcAddr,
		Handler:           newRouter(cfg.CORSOrigins, tokens, authz, orders, cods),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("order-service listening on %s", cfg.OrderSvcAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Printf("order-service stopped")
}
