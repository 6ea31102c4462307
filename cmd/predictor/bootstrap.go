package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"news-impact-engine/internal/impact"
	"news-impact-engine/internal/impact/impactobs"
	"news-impact-engine/internal/interfaces"
	"news-impact-engine/internal/logger"
	"news-impact-engine/internal/ml"
	"news-impact-engine/internal/news"
	"news-impact-engine/internal/quotes"
	"news-impact-engine/internal/store"
	"news-impact-engine/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeEngine builds the prediction engine, loads the active model
// artifact if one is registered, and wraps the engine with observability.
func initializeEngine(ctx context.Context, cfg *store.Config, st *store.SQLiteStore) (interfaces.Predictor, interfaces.Forecaster, *impact.Engine) {
	eng := impact.NewEngine()

	rec, err := st.ActiveModel(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to query active model", err)
	}
	if rec == nil {
		logger.Warn(ctx, "No trained model registered - running rule-only")
	} else {
		artifact, err := ml.LoadArtifact(rec.Path)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to load model artifact - running rule-only", err,
				"model_id", rec.ID, "path", rec.Path)
		} else {
			eng.SetArtifact(artifact)
			logger.Info(ctx, "Model artifact loaded",
				"model_id", artifact.ID,
				"family", artifact.Family,
				"accuracy", artifact.Metrics.Accuracy,
			)
		}
	}

	// Wrap with observability middleware
	return impactobs.WrapPredictor(eng), impactobs.WrapForecaster(eng), eng
}

// initializeQuotes returns the price source for forecast seeding
func initializeQuotes(ctx context.Context, cfg *store.Config) quotes.Source {
	if cfg.Quotes.Source == "LIVE" {
		logger.Info(ctx, "Using LIVE quotes from Kite Connect")
		return quotes.NewKiteSource(
			os.Getenv("KITE_API_KEY"),
			os.Getenv("KITE_ACCESS_TOKEN"),
			cfg.Quotes.Exchange,
		)
	}

	logger.Info(ctx, "Using STATIC mock quotes")
	return quotes.NewStaticSource(0)
}

// initializeFetcher returns the news fetcher and lexicon scorer used when
// no pre-scored article file is supplied.
func initializeFetcher(cfg *store.Config) (*news.Fetcher, *news.LexiconScorer) {
	timeout := time.Duration(cfg.News.TimeoutSeconds) * time.Second
	return news.NewFetcher(timeout), news.NewLexiconScorer()
}
