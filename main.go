package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"multistore/config"
	"multistore/handler"
	"multistore/service"
	"multistore/store"
)

func main() {
	app := &cli.App{
		Name:   "multistore",
		Usage:  "multi-store point-of-sale and inventory backend",
		Action: runServer,
	}
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func runServer(_ *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ledger, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			log.WithError(err).Error("closing ledger store")
		}
	}()
	log.WithField("db_path", cfg.DBPath).Info("ledger store ready")

	sales := service.NewSales(ledger, log, service.SalesConfig{
		AllowBackorder: cfg.AllowBackorder,
		StrictTotals:   cfg.StrictTotals,
	})
	catalog := service.NewCatalog(ledger, log)

	r := mux.NewRouter()
	handler.New(sales, catalog, log).RegisterRoutes(r)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
