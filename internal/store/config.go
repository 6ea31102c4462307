package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Store struct {
		DBPath     string `yaml:"db_path"`
		DatasetDir string `yaml:"dataset_dir"`
	} `yaml:"store"`
	Model struct {
		Dir              string  `yaml:"dir"`
		Family           string  `yaml:"family"`
		MinExamples      int     `yaml:"min_examples"`
		EvalRatio        float64 `yaml:"eval_ratio"`
		Seed             int64   `yaml:"seed"`
		TFIDFMaxFeatures int     `yaml:"tfidf_max_features"`
	} `yaml:"model"`
	Forecast struct {
		Horizon          int     `yaml:"horizon"`
		BaseVolatility   float64 `yaml:"base_volatility"`
		StrongVolatility float64 `yaml:"strong_volatility"`
		MaxMovePct       float64 `yaml:"max_move_pct"`
		PriceFloor       float64 `yaml:"price_floor"`
	} `yaml:"forecast"`
	News struct {
		Enabled        bool `yaml:"enabled"`
		MaxArticles    int  `yaml:"max_articles"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"news"`
	Quotes struct {
		Source   string `yaml:"source"` // STATIC or LIVE
		Exchange string `yaml:"exchange"`
	} `yaml:"quotes"`
}

func (c *Config) Validate() error {
	if c.Model.Family != "random_forest" && c.Model.Family != "gradient_boosting" {
		return fmt.Errorf("invalid model.family '%s': must be 'random_forest' or 'gradient_boosting'", c.Model.Family)
	}
	if c.Model.EvalRatio <= 0 || c.Model.EvalRatio >= 1 {
		return fmt.Errorf("model.eval_ratio must be between 0 and 1 exclusive, got %.2f", c.Model.EvalRatio)
	}
	if c.Model.MinExamples < 2 {
		return errors.New("model.min_examples must be at least 2")
	}
	if c.Forecast.MaxMovePct <= 0 || c.Forecast.MaxMovePct > 0.5 {
		return fmt.Errorf("forecast.max_move_pct must be in (0, 0.5], got %.3f", c.Forecast.MaxMovePct)
	}
	if c.Quotes.Source != "STATIC" && c.Quotes.Source != "LIVE" {
		return fmt.Errorf("invalid quotes.source '%s': must be 'STATIC' or 'LIVE'", c.Quotes.Source)
	}
	return nil
}

// LoadConfig reads the YAML config at path. A missing file is not an error;
// defaults are returned so the binaries stay usable without a config.yaml.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Store.DBPath == "" {
		c.Store.DBPath = "news_analysis.db"
	}
	if c.Store.DatasetDir == "" {
		c.Store.DatasetDir = "datasets"
	}
	if c.Model.Dir == "" {
		c.Model.Dir = "models"
	}
	if c.Model.Family == "" {
		c.Model.Family = "random_forest"
	}
	if c.Model.MinExamples == 0 {
		c.Model.MinExamples = 20
	}
	if c.Model.EvalRatio == 0 {
		c.Model.EvalRatio = 0.2
	}
	if c.Model.Seed == 0 {
		c.Model.Seed = 42
	}
	if c.Model.TFIDFMaxFeatures == 0 {
		c.Model.TFIDFMaxFeatures = 1000
	}
	if c.Forecast.Horizon == 0 {
		c.Forecast.Horizon = 7
	}
	if c.Forecast.BaseVolatility == 0 {
		c.Forecast.BaseVolatility = 0.015
	}
	if c.Forecast.StrongVolatility == 0 {
		c.Forecast.StrongVolatility = 0.025
	}
	if c.Forecast.MaxMovePct == 0 {
		c.Forecast.MaxMovePct = 0.06
	}
	if c.Forecast.PriceFloor == 0 {
		c.Forecast.PriceFloor = 0.01
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 15
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 20
	}
	if c.Quotes.Source == "" {
		c.Quotes.Source = "STATIC"
	}
	if c.Quotes.Exchange == "" {
		c.Quotes.Exchange = "NSE"
	}
}
