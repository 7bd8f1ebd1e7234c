package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"welth/internal/app"
	"welth/internal/config"
	"welth/internal/database"
	"welth/internal/jobs"
	"welth/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Named("worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	generator, err := app.NewGenerator(ctx, appConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}

	svc := app.NewServices(dbManager.DB(), appConfig, generator, app.NewSender(appConfig))

	dispatcher, err := app.NewDispatcher(appConfig, svc)
	if err != nil {
		return err
	}
	defer dispatcher.Close()

	scheduler, err := jobs.NewScheduler(ctx, app.NewRunner(svc, dispatcher), app.Schedules(appConfig), time.UTC)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheduler.Start()
		log.Infow("scheduler started", "jobs", scheduler.Entries())
		<-gctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		scheduler.Stop(stopCtx)
		log.Info("scheduler stopped")
		return nil
	})

	// With a broker the same process drains the queue the trigger publishes to.
	if consumer, ok := dispatcher.(*jobs.AMQPClient); ok {
		processor := app.NewRecurringProcessor(appConfig, svc)
		g.Go(func() error {
			log.Info("consuming recurring events")
			return consumer.Consume(gctx, processor.Handle)
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("worker stopped")
	return nil
}
