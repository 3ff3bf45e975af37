package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/unclebandit/campaign-access-backend/internal/config"
	"github.com/unclebandit/campaign-access-backend/internal/db"
	"github.com/unclebandit/campaign-access-backend/internal/queue"
	"github.com/unclebandit/campaign-access-backend/internal/repository"
	"github.com/unclebandit/campaign-access-backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("worker", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	envErr := godotenv.Load(*envFile)
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Warn("no env file loaded, relying on process environment", "path", *envFile)
	}
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	q, err := queue.DialAMQP(cfg.AMQPURL, logger)
	if err != nil {
		return err
	}
	defer q.Close()

	if err := consume(q, cfg.Activity.Topic, &repository.ActivityRepository{DB: conn}, logger); err != nil {
		return err
	}
	logger.Info("worker running, waiting for activity events")

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case amqpErr := <-q.NotifyClose():
		if amqpErr == nil {
			return errors.New("broker connection closed")
		}
		return fmt.Errorf("broker connection lost: %w", amqpErr)
	}
}

// consume records every activity event published on topic.
func consume(q queue.Queue, topic string, store service.ActivityStore, logger *slog.Logger) error {
	worker := service.NewActivityWorker(store, logger)
	return queue.StartActivitySubscriber(q, topic, worker.Handle, logger)
}
