package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/config"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/db"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/mail"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/server"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/sheets"
	"github.com/ElvisAhmetovic/compass-order-hub-sub002/internal/storage"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var log *zap.Logger
	if cfg.App.Env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	dbConn, err := db.ConnectAndMigrate(cfg.DB.DSN, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if *migrateOnlyFlag {
		log.Info("migrations completed, exiting")
		return
	}

	var dispatcher mail.Dispatcher
	if cfg.Mail.FunctionURL != "" {
		dispatcher = mail.NewHTTPDispatcher(cfg.Mail.FunctionURL, cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.Timeout)
	}

	sheetsClient, err := sheets.New(cfg.Sheets.ServiceAccountEmail, cfg.Sheets.PrivateKeyPEM, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
	if err != nil {
		log.Fatal("sheets client setup failed", zap.Error(err))
	}
	if !sheetsClient.Enabled() {
		log.Info("spreadsheet sync disabled, no service account configured")
	}

	store, err := storage.New(cfg.Storage.AttachmentDir, dbConn)
	if err != nil {
		log.Fatal("attachment store setup failed", zap.Error(err))
	}

	handler := server.New(server.Deps{
		DB:     dbConn,
		Cfg:    cfg,
		Log:    log,
		Mailer: dispatcher,
		Sheets: sheetsClient,
		Store:  store,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}
