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

	"github.com/MikeMC777/cod-delivery/internal/auth"
	"github.com/MikeMC777/cod-delivery/internal/config"
	"github.com/MikeMC777/cod-delivery/internal/db"
	"github.com/MikeMC777/cod-delivery/internal/httpx"
	prod "github.com/MikeMC777/cod-delivery/internal/product"
)

// newRouter: browsing is public, stock corrections are admin only.
func newRouter(origins []string, tokens *auth.TokenService, authz *auth.Authorizer, repo prod.Repository) *gin.Engine {
	r := httpx.NewEngine(origins)
	r.GET("/products", listProductsHandler(repo))
	r.GET("/products/:id", getProductHandler(repo))

	admin := r.Group("/admin", auth.Middleware(tokens), auth.Authorize(authz))
	admin.PATCH("/products/:id/stock", adjustStockHandler(repo))
	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

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

	srv := &http.Server{
		Addr:              cfg.ProductSvcAddr,
		Handler:           newRouter(cfg.CORSOrigins, tokens, authz, prod.NewPGRepo(pool)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("product-service listening on %s", cfg.ProductSvcAddr)
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
}
