package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/unclebandit/campaign-access-backend/internal/auth"
	"github.com/unclebandit/campaign-access-backend/internal/config"
	"github.com/unclebandit/campaign-access-backend/internal/controller"
	"github.com/unclebandit/campaign-access-backend/internal/db"
	"github.com/unclebandit/campaign-access-backend/internal/media"
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
	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	migrate := flags.Bool("migrate", true, "apply the database schema on start-up")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	if *migrate {
		if err := db.Migrate(ctx, conn); err != nil {
			return err
		}
		logger.Info("schema applied")
	}

	campaignRepo := &repository.CampaignRepository{DB: conn}
	userRepo := &repository.UserRepository{DB: conn}
	fieldRepo := &repository.CustomFieldRepository{DB: conn}
	contentRepo := &repository.ContentRepository{DB: conn}
	activityRepo := &repository.ActivityRepository{DB: conn}

	q, closeQueue, err := activityQueue(cfg, activityRepo, logger)
	if err != nil {
		return err
	}
	defer closeQueue()
	events := &queue.ActivityPublisher{Queue: q, Topic: cfg.Activity.Topic, Logger: logger}

	store := blobStore(cfg.Cloud, logger)

	tokens, err := auth.NewTokenIssuer(auth.Config{Secret: []byte(cfg.Auth.Secret), TokenTTL: cfg.Auth.ExpiresIn})
	if err != nil {
		return err
	}
	authService := &auth.Service{Users: userRepo, Tokens: tokens, Events: events, Logger: logger}

	router := controller.NewRouter(controller.Controllers{
		Auth: &controller.AuthController{AuthService: authService, Logger: logger},
		Campaigns: &controller.CampaignController{
			CampaignService: &service.CampaignService{CampaignRepo: campaignRepo, Events: events, Logger: logger},
			Logger:          logger,
		},
		Users: &controller.UserController{
			UserService: &service.UserService{
				UserRepo:     userRepo,
				CampaignRepo: campaignRepo,
				FrontendURL:  cfg.FrontendURL,
				Events:       events,
				Logger:       logger,
			},
			Logger: logger,
		},
		Fields: &controller.CustomFieldController{
			FieldService: &service.CustomFieldService{FieldRepo: fieldRepo, Events: events, Logger: logger},
			Logger:       logger,
		},
		Content: &controller.ContentController{
			ContentService: &service.ContentService{
				ContentRepo:  contentRepo,
				CampaignRepo: campaignRepo,
				Store:        store,
				MaxFileBytes: cfg.Upload.MaxFileBytes,
				MaxFiles:     cfg.Upload.MaxFiles,
				Events:       events,
				Logger:       logger,
			},
			MaxBodyBytes: cfg.Upload.MaxFileBytes*int64(cfg.Upload.MaxFiles) + 1<<20,
			Logger:       logger,
		},
		Activity: &controller.ActivityController{
			ActivityService: &service.ActivityService{ActivityRepo: activityRepo},
			Logger:          logger,
		},
		Identifier: authService,
		CORSOrigin: cfg.CORSOrigin,
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// activityQueue publishes to RabbitMQ when AMQP_URL is set. Otherwise events
// are consumed in-process.
func activityQueue(cfg config.Config, store service.ActivityStore, logger *slog.Logger) (queue.Queue, func(), error) {
	if cfg.AMQPURL != "" {
		q, err := queue.DialAMQP(cfg.AMQPURL, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("publishing activity to broker", "topic", cfg.Activity.Topic)
		return q, func() { q.Close() }, nil
	}

	q := queue.NewInMemoryQueue(logger)
	worker := service.NewActivityWorker(store, logger)
	if err := queue.StartActivitySubscriber(q, cfg.Activity.Topic, worker.Handle, logger); err != nil {
		return nil, nil, err
	}
	return q, q.Drain, nil
}

func blobStore(cfg config.CloudinaryConfig, logger *slog.Logger) media.BlobStore {
	if !cfg.Configured() {
		logger.Warn("cloudinary not configured, uploads disabled")
		return media.Disabled{}
	}
	store, err := media.NewCloudinaryStore(cfg)
	if err != nil {
		logger.Warn("cloudinary unavailable, uploads disabled", "error", err)
		return media.Disabled{}
	}
	return store
}
