package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketmesh/marketmesh/internal/auth"
	"github.com/marketmesh/marketmesh/internal/clients"
	"github.com/marketmesh/marketmesh/internal/config"
	"github.com/marketmesh/marketmesh/internal/gateway"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
	"github.com/marketmesh/marketmesh/internal/server"
)

func main() {
	cfg := config.Load(4000)
	logger := logging.NewLogger("gateway")

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	catalogClient := clients.NewHTTPCatalogClient(cfg.CatalogService, logger)
	identityClient := clients.NewHTTPIdentityClient(cfg.IdentityService, logger)

	registry := gateway.NewResolverRegistry(logger)
	registry.Register(models.ReferenceKindProduct, gateway.NewProductResolver(catalogClient))
	registry.Register(models.ReferenceKindUser, gateway.NewUserResolver(identityClient))

	gw, err := gateway.New(cfg, issuer, registry, logger)
	if err != nil {
		logger.Fatal("Failed to build gateway", logging.Fields{"error": err.Error()})
	}

	srv := server.New("gateway", cfg.Server, nil)
	gw.Register(srv.Engine())

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", logging.Fields{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
	}
	logger.Info("Server exited", nil)
}
