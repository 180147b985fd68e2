package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketmesh/marketmesh/internal/clients"
	"github.com/marketmesh/marketmesh/internal/config"
	"github.com/marketmesh/marketmesh/internal/events"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/orders"
	"github.com/marketmesh/marketmesh/internal/payments"
	"github.com/marketmesh/marketmesh/internal/server"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load(4003)
	logger := logging.NewLogger("orders-service")

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", logging.Fields{"error": err.Error()})
	}
	defer db.Close()

	repo := orders.NewPostgresOrderRepository(db, logger)

	var cache orders.OrderCache
	if cfg.Features.EnableOrderCaching {
		cache = orders.NewRedisOrderCache(cfg.Redis, logger)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Features.EnableOrderEvents {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	catalogClient := clients.NewHTTPCatalogClient(cfg.CatalogService, logger)
	gateway := payments.NewSimulatedGateway()

	svc := orders.NewService(repo, cache, catalogClient, gateway, publisher, cfg.Features, logger)

	srv := server.New("orders-service", cfg.Server, db)
	orders.NewHandlers(svc).Register(srv.Engine())

	go func() {
		logger.Info("Server starting", logging.Fields{
			"port":                 cfg.Server.Port,
			"enable_order_caching": cfg.Features.EnableOrderCaching,
			"enable_order_events":  cfg.Features.EnableOrderEvents,
		})
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

func initDatabase(cfg *config.Config, logger *logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Database connected", logging.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	})
	return db, nil
}
