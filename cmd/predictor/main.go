package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news-impact-engine/internal/logger"
	"news-impact-engine/internal/store"
	"news-impact-engine/internal/trace"
	"news-impact-engine/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// output is the JSON document printed for one prediction run.
type output struct {
	Outcome  *types.PredictionOutcome `json:"outcome"`
	Forecast []float64                `json:"forecast,omitempty"`
	Price    float64                  `json:"price,omitempty"`
}

func main() {
	articlesPath := flag.String("articles", "", "path to a JSON file of scored articles")
	topic := flag.String("topic", "", "topic to fetch news for when no articles file is given")
	symbol := flag.String("symbol", "", "symbol to seed the forecast price from")
	horizon := flag.Int("horizon", -1, "forecast steps; -1 uses the configured horizon")
	seed := flag.Int64("seed", 0, "simulation seed; 0 derives one from the clock")
	flag.Parse()

	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer trace.Shutdown(ctx)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down...")
		cancel()
	}()

	cfg, err := loadConfig(ctx)
	must(err)

	st, err := store.NewSQLiteStore(cfg.Store.DBPath)
	must(err)
	defer st.Close()

	predictor, forecaster, _ := initializeEngine(ctx, cfg, st)

	articles, err := collectArticles(ctx, cfg, *articlesPath, *topic)
	must(err)

	outcome, err := predictor.Predict(ctx, articles)
	must(err)

	out := output{Outcome: outcome}
	if *symbol != "" {
		src := initializeQuotes(ctx, cfg)
		price, err := src.LastPrice(ctx, *symbol)
		must(err)

		steps := *horizon
		if steps < 0 {
			steps = cfg.Forecast.Horizon
		}
		simSeed := *seed
		if simSeed == 0 {
			simSeed = time.Now().UnixNano()
		}
		path, err := forecaster.Forecast(ctx, outcome.Combined, price, steps, simSeed)
		must(err)
		out.Forecast = path
		out.Price = price
	}

	b, err := json.MarshalIndent(out, "", "  ")
	must(err)
	fmt.Println(string(b))
}

// collectArticles reads pre-scored articles from a file, or fetches and
// lexicon-scores news for the topic.
func collectArticles(ctx context.Context, cfg *store.Config, articlesPath, topic string) ([]types.ArticleSentiment, error) {
	if articlesPath != "" {
		data, err := os.ReadFile(articlesPath)
		if err != nil {
			return nil, fmt.Errorf("reading articles file: %w", err)
		}
		var articles []types.ArticleSentiment
		if err := json.Unmarshal(data, &articles); err != nil {
			return nil, fmt.Errorf("parsing articles file: %w", err)
		}
		for i, a := range articles {
			if !a.Label.Valid() {
				return nil, fmt.Errorf("article %d carries unknown label %q", i, a.Label)
			}
		}
		return articles, nil
	}

	if topic == "" {
		return nil, fmt.Errorf("either -articles or -topic is required")
	}
	if !cfg.News.Enabled {
		return nil, fmt.Errorf("news fetching is disabled in config; supply -articles instead")
	}

	fetcher, scorer := initializeFetcher(cfg)
	fetched, err := fetcher.Fetch(ctx, topic, cfg.News.MaxArticles)
	if err != nil {
		return nil, err
	}
	return scorer.ScoreAll(fetched), nil
}
