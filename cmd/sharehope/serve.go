package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sharehope/internal/db"
	"sharehope/internal/server"
	"sharehope/internal/service"
	"sharehope/internal/storage"
	"sharehope/internal/store"
	"sharehope/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP API",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx.String("env-prefix"))
	if err != nil {
		return err
	}

	if err := validateServeConfig(config); err != nil {
		return err
	}

	logger := newLogger(config)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	go pool.KeepAlive(ctx, time.Duration(config.KeepAliveSec)*time.Second, logger)

	presigner, err := newPresigner(ctx, config, logger)
	if err != nil {
		return err
	}

	srv, err := server.New(config, logger, buildServices(pool, logger, presigner))
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

func buildServices(pool *db.DB, logger logrus.FieldLogger, presigner service.Presigner) server.Services {
	categoryRepo := store.NewCategoryRepository(pool)
	userRepo := store.NewUserRepository(pool)

	return server.Services{
		Categories: service.NewCategoryService(logger, categoryRepo),
		Posts: service.NewPostService(
			logger,
			store.NewPostRepository(pool),
			categoryRepo,
			userRepo,
		),
		Consultations: service.NewConsultationService(
			logger,
			pool,
			store.NewConsultationRepository(pool),
			store.NewConsultationResponseRepository(pool),
			store.NewConsultationFollowupRepository(pool),
			userRepo,
		),
		Donations: service.NewDonationService(
			logger,
			pool,
			store.NewSponsorRepository(pool),
			store.NewDonationRepository(pool),
		),
		Users: service.NewUserService(
			logger,
			pool,
			userRepo,
			store.NewUserProfileRepository(pool),
		),
		Resources: service.NewResourceService(
			logger,
			pool,
			store.NewResourceCategoryRepository(pool),
			store.NewResourceRepository(pool),
			store.NewResourceFileRepository(pool),
			presigner,
		),
		Newsletter: service.NewNewsletterService(logger, store.NewNewsletterRepository(pool)),
		Content: service.NewContentService(
			logger,
			store.NewReportRepository(pool),
			store.NewMenuRepository(pool),
			store.NewBannerRepository(pool),
			store.NewOrganizationRepository(pool),
		),
	}
}

// newPresigner returns nil when no bucket is configured.
func newPresigner(ctx context.Context, config *types.Config, logger logrus.FieldLogger) (service.Presigner, error) {
	if config.StorageBucket == "" {
		logger.Info("STORAGE_BUCKET not set, downloads return stored keys")
		return nil, nil
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsConfig)
	ttl := time.Duration(config.StoragePresignTTLSec) * time.Second

	logger.WithFields(logrus.Fields{
		"bucket": config.StorageBucket,
		"ttl":    ttl.String(),
	}).Info("pre-signed downloads enabled")

	return storage.NewS3Storage(logger, client, config.StorageBucket, ttl), nil
}
