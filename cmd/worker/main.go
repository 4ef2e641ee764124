package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/medisecure/medisecure-backend/internal/config"
	"github.com/medisecure/medisecure-backend/internal/db"
	"github.com/medisecure/medisecure-backend/internal/notifications"
	"github.com/medisecure/medisecure-backend/internal/observability"
	"github.com/medisecure/medisecure-backend/internal/queue/redisclient"
	"github.com/medisecure/medisecure-backend/internal/queue/worker"
	"github.com/medisecure/medisecure-backend/internal/repo/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()

	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err.Error())
		os.Exit(1)
	}

	defer pool.Close()

	jobsRepo := postgres.NewJobsRepo(pool, nil)
	appointmentsRepo := postgres.NewAppointmentsRepo(pool, nil)
	patientsRepo := postgres.NewPatientsRepo(pool)

	// redis keeps repeated deliveries out even across worker restarts
	var dedup worker.Deduper

	redisClient := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancelPing := config.WithTimeout(2 * time.Second)
	err = redisClient.Ping(pingCtx)
	cancelPing()

	if err != nil {
		log.Warn("redis unavailable, send dedup disabled", "err", err.Error())
	} else {
		dedup = redisClient
		defer redisClient.Close()
	}

	notifier := notifications.NewProtectedNotifier(
		notifications.NewLogNotifier(),
		notifications.ProtectedNotifierConfig{},
	)

	host, _ := os.Hostname()
	workerID := host + "-" + strconv.Itoa(os.Getpid())

	w := worker.New(worker.Config{
		PollInterval:  250 * time.Millisecond,
		WorkerID:      workerID,
		Concurrency:   4,
		ShutdownGrace: 10 * time.Second,
		LockTTL:       60 * time.Second,
	}, jobsRepo, notifier, dedup, observability.NewJobMetrics(), log)

	reminders := worker.NewReminderScheduler(
		appointmentsRepo,
		patientsRepo,
		jobsRepo,
		5*time.Minute,
		24*time.Hour,
		log,
	)

	go reminders.Run(ctx)

	// health endpoint for the orchestrator
	healthSrv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port+1),
		Handler:           w.HealthHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("worker health server failed", "err", err.Error())
		}
	}()

	log.Info("worker started", "worker_id", workerID)

	if err := w.Run(ctx); err != nil {
		log.Error("worker stopped with error", "err", err.Error())
	}

	shutdownCtx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()
	_ = healthSrv.Shutdown(shutdownCtx)

	log.Info("worker shutdown complete")
}
