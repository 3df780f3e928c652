package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/cod-delivery/internal/auth"
	"github.com/MikeMC777/cod-delivery/internal/config"
	"github.com/MikeMC777/cod-delivery/internal/db"
	"github.com/MikeMC777/cod-delivery/internal/httpx"
	"github.com/MikeMC777/cod-delivery/internal/user"
)

const grpcServiceName = "cod.user.v1.UserService"

func newRouter(origins []string, tokens *auth.TokenService, svc userService) *gin.Engine {
	r := httpx.NewEngine(origins)
	r.POST("/auth/login", loginHandler(svc))
	r.POST("/auth/register", registerHandler(svc))
	r.GET("/auth/me", auth.Middleware(tokens), meHandler(svc))
	return r
}

// newGRPCServer exposes the standard health service so orchestrators can
// probe the user service without a token.
func newGRPCServer() (*grpc.Server, *health.Server) {
	s := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus(grpcServiceName, healthpb.HealthCheckResponse_SERVING)
	return s, hs
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
	svc := user.NewService(user.NewPGRepo(pool), tokens)

	l, err := net.Listen("tcp", cfg.UserGRPCAddr)
	if err != nil {
		log.Fatal(err)
	}
	gs, hs := newGRPCServer()
	go func() {
		log.Printf("user-service grpc health on %s", cfg.UserGRPCAddr)
		if err := gs.Serve(l); err != nil {
			log.Printf("grpc: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.UserSvcAddr,
		Handler:           newRouter(cfg.CORSOrigins, tokens, svc),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("user-service listening on %s", cfg.UserSvcAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	hs.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	gs.GracefulStop()
}
