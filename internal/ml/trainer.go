package ml

import (
	"context"
	"math/rand"
	"sort"

	"news-impact-engine/internal/logger"
	"news-impact-engine/internal/types"
)

const (
	defaultMinExamples = 20
	defaultEvalRatio   = 0.2
	defaultMaxFeatures = 1000
)

// Trainer fits classifier artifacts from labeled examples. The zero value
// is not usable; construct with NewTrainer.
type Trainer struct {
	MinExamples int
	EvalRatio   float64
	MaxFeatures int
}

func NewTrainer() *Trainer {
	return &Trainer{
		MinExamples: defaultMinExamples,
		EvalRatio:   defaultEvalRatio,
		MaxFeatures: defaultMaxFeatures,
	}
}

// Train validates the dataset, performs a stratified train/eval split, fits
// the feature extractor on the training rows only, trains the requested
// family, and evaluates on the held-out rows. The same seed always produces
// the same artifact contents (modulo ID and timestamps).
func (t *Trainer) Train(ctx context.Context, examples []types.TrainingExample, family ModelFamily, seed int64) (*Artifact, error) {
	timer := logger.StartOperation(ctx, "model_training", "family", string(family))
	artifact, err := t.train(timer.GetContext(), examples, family, seed)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}
	timer.End(
		"train_size", artifact.Metrics.TrainSize,
		"eval_size", artifact.Metrics.EvalSize,
		"accuracy", artifact.Metrics.Accuracy,
	)
	return artifact, nil
}

func (t *Trainer) train(ctx context.Context, examples []types.TrainingExample, family ModelFamily, seed int64) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(examples) < t.MinExamples {
		return nil, dataErrorf("need at least %d labeled examples, got %d", t.MinExamples, len(examples))
	}
	for i, ex := range examples {
		if !ex.Label.Valid() {
			return nil, dataErrorf("example %d carries unknown label %q", i, ex.Label)
		}
	}

	labels := presentLabels(examples)
	if len(labels) < 2 {
		return nil, dataErrorf("training requires at least 2 distinct labels, got %d", len(labels))
	}

	train, eval := stratifiedSplit(examples, t.EvalRatio, seed)
	if err := requireAllLabels(train, labels); err != nil {
		return nil, err
	}

	extractor := fitExtractor(train, t.MaxFeatures)

	classIndex := make(map[types.IntensityLabel]int, len(labels))
	for i, l := range labels {
		classIndex[l] = i
	}
	X := make([][]float64, len(train))
	y := make([]int, len(train))
	for i, ex := range train {
		X[i] = extractor.ExampleVector(ex)
		y[i] = classIndex[ex.Label]
	}

	artifact := newArtifact(family, labels, extractor)
	switch family {
	case FamilyRandomForest:
		artifact.Forest = trainForest(X, y, len(labels), seed)
	case FamilyGradientBoosting:
		artifact.Boosted = trainBoosted(X, y, len(labels), seed)
	default:
		return nil, dataErrorf("unknown model family %q", family)
	}

	artifact.Metrics = evaluate(artifact, eval, classIndex)
	artifact.Metrics.TrainSize = len(train)
	artifact.Metrics.EvalSize = len(eval)
	artifact.Metrics.TrainedAt = artifact.TrainedAt

	return artifact, nil
}

// presentLabels returns the distinct labels in canonical taxonomy order.
func presentLabels(examples []types.TrainingExample) []types.IntensityLabel {
	seen := make(map[types.IntensityLabel]bool)
	for _, ex := range examples {
		seen[ex.Label] = true
	}
	var labels []types.IntensityLabel
	for _, l := range types.AllLabels {
		if seen[l] {
			labels = append(labels, l)
		}
	}
	return labels
}

// stratifiedSplit shuffles each class independently with the seeded rng and
// holds out evalRatio of it, so every class keeps its share in both halves.
// Each class keeps at least one training row whenever it has any.
func stratifiedSplit(examples []types.TrainingExample, evalRatio float64, seed int64) (train, eval []types.TrainingExample) {
	byLabel := make(map[types.IntensityLabel][]int)
	for i, ex := range examples {
		byLabel[ex.Label] = append(byLabel[ex.Label], i)
	}
	labels := make([]types.IntensityLabel, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(a, b int) bool { return labels[a] < labels[b] })

	rng := rand.New(rand.NewSource(seed))
	for _, l := range labels {
		idx := byLabel[l]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		holdout := int(float64(len(idx)) * evalRatio)
		if holdout >= len(idx) {
			holdout = len(idx) - 1
		}
		for k, i := range idx {
			if k < holdout {
				eval = append(eval, examples[i])
			} else {
				train = append(train, examples[i])
			}
		}
	}
	return train, eval
}

func requireAllLabels(train []types.TrainingExample, labels []types.IntensityLabel) error {
	seen := make(map[types.IntensityLabel]bool)
	for _, ex := range train {
		seen[ex.Label] = true
	}
	for _, l := range labels {
		if !seen[l] {
			return dataErrorf("label %q has no examples left in the training split", l)
		}
	}
	return nil
}

func evaluate(artifact *Artifact, eval []types.TrainingExample, classIndex map[types.IntensityLabel]int) types.TrainingReport {
	report := types.TrainingReport{
		PerClass: make(map[types.IntensityLabel]types.ClassMetrics, len(artifact.Labels)),
	}
	if len(eval) == 0 {
		return report
	}

	numClasses := len(artifact.Labels)
	truePos := make([]int, numClasses)
	predicted := make([]int, numClasses)
	support := make([]int, numClasses)
	correct := 0

	for _, ex := range eval {
		want := classIndex[ex.Label]
		got := argmax(artifact.probabilities(artifact.Extractor.ExampleVector(ex)))
		support[want]++
		predicted[got]++
		if got == want {
			truePos[want]++
			correct++
		}
	}

	report.Accuracy = float64(correct) / float64(len(eval))
	for i, label := range artifact.Labels {
		m := types.ClassMetrics{Support: support[i]}
		if predicted[i] > 0 {
			m.Precision = float64(truePos[i]) / float64(predicted[i])
		}
		if support[i] > 0 {
			m.Recall = float64(truePos[i]) / float64(support[i])
		}
		report.PerClass[label] = m
	}
	return report
}
