package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/onbo-ai/onbo/internal/config"
	"github.com/onbo-ai/onbo/internal/store"
	"github.com/onbo-ai/onbo/internal/web"
)

func main() {
	cfg, err := config.LoadWeb()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := store.NewBoltStore(filepath.Join(cfg.DataDir, "onbo.db"))
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer db.Close()

	handler := web.NewHandler(db)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("onbo-web: listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("onbo-web: shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("onbo-web: stopped")
}
