// Package server boots the storefront process: configuration, logging,
// cache and upload drivers, the HTTP route table, and the gRPC health
// endpoint, then runs until interrupted.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allmart/storefront/app/controllers"
	"github.com/allmart/storefront/app/routes"
	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/config"
	"github.com/allmart/storefront/internal/gateway"
	"github.com/allmart/storefront/internal/identity"
	"github.com/allmart/storefront/internal/uploader"
	"github.com/allmart/storefront/pkg/cache"
	"github.com/allmart/storefront/pkg/grpc"
	"github.com/allmart/storefront/pkg/logger"
	"github.com/allmart/storefront/pkg/router"
	"github.com/allmart/storefront/pkg/workerpool"
)

const shutdownGrace = 15 * time.Second

// Run boots everything and blocks until SIGINT/SIGTERM.
func Run() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	mongoSink := logger.Boot()
	if mongoSink != nil {
		defer mongoSink.Close()
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, sessions and caches degrade to memory", "error", err)
	}
	uploader.Connect()

	r, cleanup, err := buildRouter()
	if err != nil {
		return err
	}
	defer cleanup()

	grpcSrv, _, err := grpc.Start(config.GRPCPort())
	if err != nil {
		return fmt.Errorf("start grpc: %w", err)
	}
	defer grpc.Stop(grpcSrv)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Routes builds the route table without serving, for route:list.
func Routes() ([]router.Route, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	uploader.Connect()

	r, cleanup, err := buildRouter()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return r.Routes(), nil
}

// buildRouter wires gateway, identity, services, and controllers into
// the route table. The returned cleanup stops the upload worker pool.
func buildRouter() (*router.Router, func(), error) {
	gw := gateway.New()
	idp := identity.New()

	uploads, err := uploader.Default()
	if err != nil {
		return nil, nil, fmt.Errorf("upload driver: %w", err)
	}

	pool := workerpool.New(4)

	catalog := services.NewCatalogService(gw)
	auth := services.NewAuthService(idp, gw)
	profiles := services.NewProfileService(gw)
	drafts := services.NewDraftService(catalog, catalog, uploads, pool)

	r := router.New()
	err = routes.Register(r, routes.Controllers{
		Auth:       controllers.NewAuthController(auth, uploads),
		Profile:    controllers.NewProfileController(profiles, auth),
		Products:   controllers.NewProductsController(catalog),
		Categories: controllers.NewCategoriesController(catalog),
		Drafts:     controllers.NewDraftController(drafts),
		Shop:       controllers.NewShopController(catalog),
		Uploads:    controllers.NewUploadsController(uploads),
		Dashboard:  controllers.NewDashboardController(),
		Catalog:    catalog,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("register routes: %w", err)
	}

	return r, pool.Shutdown, nil
}
