package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"news-impact-engine/internal/dataset"
	"news-impact-engine/internal/logger"
	"news-impact-engine/internal/ml"
	"news-impact-engine/internal/store"
	"news-impact-engine/internal/trace"

	"github.com/joho/godotenv"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	datasetName := flag.String("dataset", "", "dataset file to train from (relative to the dataset directory)")
	family := flag.String("family", "", "model family; defaults to the configured one")
	seed := flag.Int64("seed", 0, "training seed; 0 uses the configured seed")
	list := flag.Bool("list", false, "list available dataset files and exit")
	flag.Parse()

	_ = godotenv.Load()
	must(logger.Init())
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	ctx := context.Background()
	defer trace.Shutdown(ctx)

	cfg, err := store.LoadConfig("config.yaml")
	must(err)

	loader := dataset.NewLoader(cfg.Store.DatasetDir)
	if *list {
		names, err := loader.List()
		must(err)
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}
	if *datasetName == "" {
		must(fmt.Errorf("-dataset is required"))
	}

	familyName := *family
	if familyName == "" {
		familyName = cfg.Model.Family
	}
	modelFamily, err := ml.ParseFamily(familyName)
	must(err)

	trainSeed := *seed
	if trainSeed == 0 {
		trainSeed = cfg.Model.Seed
	}

	examples, stats, err := loader.Load(ctx, *datasetName)
	must(err)
	if stats.Rejected > 0 {
		logger.Warn(ctx, "Dataset rows rejected", "file", *datasetName, "rejected", stats.Rejected)
	}

	st, err := store.NewSQLiteStore(cfg.Store.DBPath)
	must(err)
	defer st.Close()

	must(st.SaveExamples(ctx, *datasetName, examples))
	must(st.RegisterDataset(ctx, *datasetName, "file", "", stats.Accepted))

	trainer := ml.NewTrainer()
	trainer.MinExamples = cfg.Model.MinExamples
	trainer.EvalRatio = cfg.Model.EvalRatio
	trainer.MaxFeatures = cfg.Model.TFIDFMaxFeatures

	artifact, err := trainer.Train(ctx, examples, modelFamily, trainSeed)
	must(err)

	artifactPath := filepath.Join(cfg.Model.Dir, fmt.Sprintf("%s.json", artifact.ID))
	must(artifact.Save(artifactPath))

	must(st.RegisterModel(ctx, store.ModelRecord{
		ID:       artifact.ID,
		Name:     fmt.Sprintf("%s-%s", modelFamily, artifact.TrainedAt.Format("20060102-150405")),
		Family:   string(modelFamily),
		Path:     artifactPath,
		Dataset:  *datasetName,
		Accuracy: artifact.Metrics.Accuracy,
		Active:   true,
	}))

	logger.Info(ctx, "Model trained and registered",
		"model_id", artifact.ID,
		"family", modelFamily,
		"path", artifactPath,
	)

	b, err := json.MarshalIndent(artifact.Metrics, "", "  ")
	must(err)
	fmt.Println(string(b))
}
