// Command catalogd serves an in-memory product API for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/devserver"
	"github.com/five82/shelf/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", ":5000", "listen address")
	seed := flag.Bool("seed", false, "start with a few sample products")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logging.New(os.Stderr, *level)
	srv := devserver.New(devserver.WithLogger(logger))
	if *seed {
		srv.Seed(
			catalog.Product{Name: "Notebook", Price: 4.5, Description: "A5 dotted, 120 pages", Category: catalog.CategoryBooks},
			catalog.Product{Name: "USB-C cable", Price: 9.99, Description: "1m braided", Category: catalog.CategoryElectronics},
			catalog.Product{Name: "Coffee beans", Price: 14, Description: "Medium roast, 500g", Category: catalog.CategoryFood},
		)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	srv.RegisterRoutes(router)

	logger.Info(ctx, "catalogd listening", "addr", *addr, "path", catalog.CollectionPath)
	if err := devserver.ListenAndServe(ctx, *addr, router); err != nil {
		fmt.Fprintf(os.Stderr, "catalogd: %v\n", err)
		return 1
	}
	return 0
}
