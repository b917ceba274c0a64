package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"smartdash/internal/app"
	"smartdash/internal/automation"
	"smartdash/internal/config"
	"smartdash/internal/infrastructure/pubsub"
	"smartdash/internal/worker"
)

func main() {
	concurrency := flag.Int("concurrency", 0, "parallel browser sessions (overrides WORKER_CONCURRENCY)")
	perMinute := flag.Int("rate", 0, "max submissions per minute (overrides WORKER_RATE_PER_MIN)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *concurrency > 0 {
		cfg.Worker.Concurrency = *concurrency
	}
	if *perMinute > 0 {
		cfg.Worker.RatePerMin = *perMinute
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stdout, "", log.LstdFlags)
	c, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	processor := worker.NewProcessor(
		c.Candidates,
		c.Applications,
		c.Events,
		automation.NewActor(cfg.Worker.ApplyTimeout, logger),
		pubsub.NewPublisher(c.Redis.Client()),
		logger,
	)

	pool := worker.NewPool(cfg.Worker.Concurrency, cfg.Worker.Concurrency)
	pool.SetRateLimit(cfg.Worker.RatePerMin)

	logger.Printf("[Worker] started concurrency=%d rate=%d/min", cfg.Worker.Concurrency, cfg.Worker.RatePerMin)
	if err := worker.NewConsumer(c.Queue, pool, processor, logger).Run(ctx); err != nil {
		log.Printf("worker stopped: %v", err)
		return
	}
	logger.Printf("[Worker] stopped")
}
