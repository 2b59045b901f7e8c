package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/freshcart/storefront/internal/infrastructure/db/mongo"
	"github.com/freshcart/storefront/internal/pkg/config"
	"github.com/freshcart/storefront/pkg/logger"
)

const serviceName = "storefront"

// environment is what every subcommand needs before doing its own work.
type environment struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *mongo.Client
	db     *mongo.Database
}

func bootstrap(ctx context.Context) (*environment, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Init(logger.Options{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
		Service:     serviceName,
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	return &environment{cfg: cfg, log: log, client: client, db: db}, nil
}

func (e *environment) close(ctx context.Context) {
	if err := e.client.Disconnect(ctx); err != nil {
		e.log.Warn().Err(err).Msg("mongodb disconnect")
	}
}
