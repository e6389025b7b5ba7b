// Package copilot runs the per-request analysis: normalization,
// vectorization, category prediction and similarity scoring.
package copilot

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"resume-copilot/internal/artifact"
	"resume-copilot/internal/classify"
	"resume-copilot/internal/textnorm"
	"resume-copilot/internal/vectorize"
)

var (
	// ErrModelsUnavailable means the trained artifact pair is missing or
	// unreadable; the operator has to run training before retrying.
	ErrModelsUnavailable = errors.New("model artifacts unavailable")
	// ErrMissingInput means the resume or the job description is absent.
	// Raised before any model work is attempted.
	ErrMissingInput = errors.New("resume text and job description are required")
)

// Engine wraps the trained artifact pair. It is constructed once, holds the
// models as immutable read-only state, and is safe to share across
// concurrently handled sessions: there is no writer after load.
type Engine struct {
	vectorizer *vectorize.Vectorizer
	classifier *classify.Model
	logger     *zap.Logger
}

// NewEngine loads the artifact pair from modelDir and fails fast when the
// artifacts are missing or incompatible.
func NewEngine(modelDir string, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	vectorizer, classifier, err := artifact.LoadPair(modelDir)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrModelsUnavailable, err)
		}
		return nil, err
	}

	logger.Debug("model artifacts loaded",
		zap.Int("features", vectorizer.Size()),
		zap.Int("categories", len(classifier.Classes)),
	)

	return &Engine{
		vectorizer: vectorizer,
		classifier: classifier,
		logger:     logger,
	}, nil
}

// Categories returns the closed set of job categories the classifier can
// predict.
func (e *Engine) Categories() []string {
	return e.classifier.Classes
}

// Analyze validates the inputs, computes the similarity score and the
// predicted category, and returns a fresh session. Texts sharing no
// vocabulary terms score 0 and still complete normally.
func (e *Engine) Analyze(resumeText string, posting JobPosting) (*Session, error) {
	jobDescription := posting.Assemble()
	if strings.TrimSpace(resumeText) == "" || jobDescription == "" {
		return nil, ErrMissingInput
	}

	resumeVector := e.vectorizer.Transform(textnorm.Normalize(resumeText))
	jobVector := e.vectorizer.Transform(textnorm.Normalize(jobDescription))

	session := &Session{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		Company:        posting.Company,
		Position:       posting.Position,
		Similarity:     vectorize.Cosine(resumeVector, jobVector),
		Category:       e.classifier.Predict(resumeVector),
	}

	e.logger.Debug("analysis complete",
		zap.Float64("similarity", session.Similarity),
		zap.String("category", session.Category),
	)

	return session, nil
}
