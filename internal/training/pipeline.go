// Package training orchestrates the offline model refresh: corpus loading,
// normalization, vectorizer fitting, stratified splitting, classifier
// training, evaluation and artifact persistence.
package training

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"resume-copilot/internal/artifact"
	"resume-copilot/internal/classify"
	"resume-copilot/internal/corpus"
	"resume-copilot/internal/textnorm"
	"resume-copilot/internal/vectorize"
)

const (
	defaultTestFraction = 0.2
	defaultSeed         = 42
)

// Pipeline runs the training stages in a fixed order, terminal on the first
// failure. A previously persisted artifact pair is only replaced after every
// stage has succeeded.
type Pipeline struct {
	CorpusPath   string
	ModelDir     string
	TestFraction float64
	Seed         int64
	Classifier   classify.Options
	Logger       *zap.Logger
}

// ClassMetrics holds the held-out evaluation numbers for one category.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarizes a completed training run.
type Report struct {
	Examples   int
	Dropped    int
	Categories []string
	Features   int
	TrainSize  int
	TestSize   int
	Accuracy   float64
	PerClass   map[string]ClassMetrics
	PairID     string
}

// Run executes the pipeline: LoadCorpus -> Validate -> Normalize ->
// FitVectorizer -> Split -> FitClassifier -> Evaluate -> Persist. Evaluation
// is observational and never blocks persistence.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	testFraction := p.TestFraction
	if testFraction <= 0 {
		testFraction = defaultTestFraction
	}
	seed := p.Seed
	if seed == 0 {
		seed = defaultSeed
	}

	logger.Info("loading corpus", zap.String("path", p.CorpusPath))
	examples, dropped, err := corpus.Load(p.CorpusPath)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		logger.Warn("dropped rows with missing resume or category", zap.Int("count", dropped))
	}

	categories := corpus.Categories(examples)
	logger.Info("corpus loaded",
		zap.Int("examples", len(examples)),
		zap.Int("categories", len(categories)),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("normalizing resume text")
	normalized := make([]string, len(examples))
	for i, ex := range examples {
		normalized[i] = textnorm.Normalize(ex.Resume)
	}

	logger.Info("fitting vectorizer")
	vectorizer, err := vectorize.Fit(normalized)
	if err != nil {
		return nil, fmt.Errorf("fitting vectorizer: %w", err)
	}
	logger.Info("vectorizer fitted", zap.Int("features", vectorizer.Size()))

	// The vocabulary is learned from the full corpus; the split below only
	// governs which examples the classifier sees.
	logger.Info("splitting corpus",
		zap.Float64("test_fraction", testFraction),
		zap.Int64("seed", seed),
	)
	train, test, err := corpus.Split(examples, testFraction, seed)
	if err != nil {
		return nil, err
	}
	logger.Info("corpus split", zap.Int("train", len(train)), zap.Int("test", len(test)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("training classifier")
	trainVectors := make([][]float64, len(train))
	trainLabels := make([]string, len(train))
	for i, ex := range train {
		trainVectors[i] = vectorizer.Transform(textnorm.Normalize(ex.Resume))
		trainLabels[i] = ex.Category
	}
	model, err := classify.Train(trainVectors, trainLabels, p.Classifier)
	if err != nil {
		return nil, fmt.Errorf("training classifier: %w", err)
	}
	logger.Info("classifier trained", zap.Int("iterations", model.Iterations))

	logger.Info("evaluating on held-out examples")
	accuracy, perClass := evaluate(model, vectorizer, test)
	logger.Info("evaluation complete", zap.Float64("accuracy", accuracy))
	for _, category := range categories {
		m := perClass[category]
		logger.Info("category metrics",
			zap.String("category", category),
			zap.Float64("precision", m.Precision),
			zap.Float64("recall", m.Recall),
			zap.Float64("f1", m.F1),
			zap.Int("support", m.Support),
		)
	}

	logger.Info("persisting model artifacts", zap.String("dir", p.ModelDir))
	pairID, err := artifact.WritePair(p.ModelDir, vectorizer, model)
	if err != nil {
		return nil, fmt.Errorf("persisting artifacts: %w", err)
	}
	logger.Info("artifacts persisted", zap.String("pair_id", pairID))

	return &Report{
		Examples:   len(examples),
		Dropped:    dropped,
		Categories: categories,
		Features:   vectorizer.Size(),
		TrainSize:  len(train),
		TestSize:   len(test),
		Accuracy:   accuracy,
		PerClass:   perClass,
		PairID:     pairID,
	}, nil
}

func evaluate(model *classify.Model, vectorizer *vectorize.Vectorizer, test []corpus.Example) (float64, map[string]ClassMetrics) {
	truePos := make(map[string]int)
	falsePos := make(map[string]int)
	falseNeg := make(map[string]int)
	support := make(map[string]int)

	correct := 0
	for _, ex := range test {
		predicted := model.Predict(vectorizer.Transform(textnorm.Normalize(ex.Resume)))
		support[ex.Category]++
		if predicted == ex.Category {
			correct++
			truePos[predicted]++
		} else {
			falsePos[predicted]++
			falseNeg[ex.Category]++
		}
	}

	perClass := make(map[string]ClassMetrics, len(model.Classes))
	for _, category := range model.Classes {
		tp := float64(truePos[category])
		precision := 0.0
		if tp+float64(falsePos[category]) > 0 {
			precision = tp / (tp + float64(falsePos[category]))
		}
		recall := 0.0
		if tp+float64(falseNeg[category]) > 0 {
			recall = tp / (tp + float64(falseNeg[category]))
		}
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		perClass[category] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   support[category],
		}
	}

	accuracy := 0.0
	if len(test) > 0 {
		accuracy = float64(correct) / float64(len(test))
	}
	return accuracy, perClass
}
