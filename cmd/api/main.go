package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"milstore/internal/config"
	"milstore/internal/db"
	"milstore/internal/httpserver"
	cartlinerepo "milstore/internal/repository/cartline"
	catalogrepo "milstore/internal/repository/catalog"
	customerrepo "milstore/internal/repository/customer"
	shippingraterepo "milstore/internal/repository/shippingrate"
	tokenrepo "milstore/internal/repository/token"
	cartsvc "milstore/internal/service/cart"
	customersvc "milstore/internal/service/customer"
	sessionsvc "milstore/internal/service/session"
	shippingsvc "milstore/internal/service/shipping"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	catalogRepo := catalogrepo.NewPostgres(dbpool, logger)
	cartLineRepo := cartlinerepo.NewPostgres(dbpool, logger)
	rateRepo := shippingraterepo.NewPostgres(dbpool, logger)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	shippingResolver := shippingsvc.New(rateRepo, logger)
	cartService := cartsvc.New(cartLineRepo, catalogRepo, shippingResolver, logger)
	customerService := customersvc.New(customerRepo, tokenRepo)
	sessionService := sessionsvc.New()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:     cartService,
		CustomerSvc: customerService,
		SessionSvc:  sessionService,
		Catalog:     catalogRepo,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
