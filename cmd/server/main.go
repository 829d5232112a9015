package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agrovista/lactoprofile/internal/analysis"
	"github.com/agrovista/lactoprofile/internal/extraction"
	"github.com/agrovista/lactoprofile/internal/model"
	"github.com/agrovista/lactoprofile/internal/service"
	"github.com/agrovista/lactoprofile/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8111"
	}

	var st store.Store
	if os.Getenv("USE_MEMORY_STORE") == "true" || os.Getenv("ENV") == "local" {
		log.Info("using in-memory store")
		st = store.NewMemoryStore()
	} else {
		dbPath := os.Getenv("LACTO_DB_PATH")
		if dbPath == "" {
			dbPath = "lactoprofile.db"
		}
		sqlStore, err := store.NewSQLiteStore(dbPath)
		if err != nil {
			log.Error("failed to open database", "path", dbPath, "error", err)
			os.Exit(1)
		}
		log.Info("using sqlite store", "path", dbPath)
		st = sqlStore
	}
	defer st.Close()

	extCfg := extraction.DefaultConfig()
	if os.Getenv("LACTO_OCR_ENABLED") == "false" {
		extCfg.OCREnabled = false
	}
	extractor := extraction.NewService(extCfg, log)

	provider := model.NewProvider(model.ProviderConfig{
		Dir:         os.Getenv("LACTO_MODEL_DIR"),
		LibraryPath: os.Getenv("LACTO_ORT_LIB"),
		OutputSize:  len(analysis.FattyAcids),
	}, log)
	defer provider.Close()

	dietService := service.NewDietService(st, extractor, provider, log)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: dietService.Router(),
		// OCR on a long scan can take a while; keep write generous.
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 3 * time.Minute,
	}

	go func() {
		log.Info("starting server", "port", port, "ocr", extCfg.OCREnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
