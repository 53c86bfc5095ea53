// teppekgeo — map-based job/CV/listing marketplace backend.
//
// Serves aggregated map markers from four listing collections and keeps
// the imported-jobs collection fresh via a scheduled Adzuna sync.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yukselpamuk83-a11y/teppekgeo/internal/adzuna"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/api"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/bucket"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/config"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/db"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/marker"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/scheduler"
	"github.com/yukselpamuk83-a11y/teppekgeo/internal/store"
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[teppekgeo] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[teppekgeo] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[teppekgeo] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[teppekgeo] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[teppekgeo] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[teppekgeo] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[teppekgeo] Redis connected ✓")

	// ── Core wiring ──────────────────────────────────────────────────────────
	st := store.New(pool)
	jobBucket := bucket.New(st)
	agg := marker.NewAggregator(st, jobBucket)

	// ── Import sync (optional) ───────────────────────────────────────────────
	var (
		syncer *adzuna.SyncService
		sched  *scheduler.Scheduler
	)
	if cfg.SyncEnabled() {
		client, err := adzuna.NewClient(cfg.AdzunaAppID, cfg.AdzunaAppKey)
		if err != nil {
			log.Fatalf("[teppekgeo] Adzuna: %v", err)
		}
		syncer = adzuna.NewSyncService(client, st, jobBucket, rdb)

		sched = scheduler.New(syncer, cfg.SyncIntervalHours)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("[teppekgeo] Scheduler: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Println("[teppekgeo] ADZUNA_APP_ID / ADZUNA_APP_KEY not set — import sync disabled")
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	var handlerSync api.Syncer
	if syncer != nil {
		handlerSync = syncer
	}
	handler := api.NewHandler(agg, jobBucket, handlerSync, st, cfg.CronSecret)
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[teppekgeo] Listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[teppekgeo] HTTP server: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[teppekgeo] Shutting down…")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[teppekgeo] HTTP shutdown: %v", err)
	}

	log.Println("[teppekgeo] Bye")
}
