package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	api "github.com/lexprep/lexprep/internal/api/http"
	"github.com/lexprep/lexprep/internal/attempt"
	authmw "github.com/lexprep/lexprep/internal/auth/middleware"
	"github.com/lexprep/lexprep/internal/config"
	"github.com/lexprep/lexprep/internal/db"
	"github.com/lexprep/lexprep/internal/eventlog"
	"github.com/lexprep/lexprep/internal/logging"
	"github.com/lexprep/lexprep/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer dbh.Close()

	if err := db.EnsureUser(context.Background(), dbh,
		uuid.NewString(), cfg.AdminUser, cfg.AdminPassHash, "admin"); err != nil {
		log.Fatal("seed admin failed", zap.Error(err))
	}

	store := attempt.NewSQLStore(dbh)
	events := eventlog.NewRepo(dbh)
	mgr := attempt.NewManager(store, events, log)
	mgr.SetDebounce(cfg.AutosaveDebounce)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatal("blob store", zap.Error(err))
	}

	router := api.NewRouter(api.Deps{
		Store:       store,
		Manager:     mgr,
		Auth:        authmw.NewAuthService(cfg.AuthSecret),
		DB:          dbh,
		Blobs:       bs,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	// Cancel live timers and flush pending autosaves before the DB closes.
	mgr.Shutdown()
}
