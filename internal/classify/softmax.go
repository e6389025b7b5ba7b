// Package classify implements a multinomial (softmax) logistic regression
// over TF-IDF feature vectors.
package classify

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoTrainingData is returned when Train receives an empty training set.
var ErrNoTrainingData = errors.New("no training examples")

const (
	defaultLearningRate = 0.5
	defaultL2           = 1e-4
	defaultMaxIter      = 1000
	defaultTolerance    = 1e-6
)

// Options tunes the optimizer. Zero values fall back to defaults.
type Options struct {
	LearningRate float64
	L2           float64
	MaxIter      int
	Tolerance    float64
}

func (o Options) withDefaults() Options {
	if o.LearningRate <= 0 {
		o.LearningRate = defaultLearningRate
	}
	if o.L2 <= 0 {
		o.L2 = defaultL2
	}
	if o.MaxIter <= 0 {
		o.MaxIter = defaultMaxIter
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	return o
}

// Model holds the fitted classifier parameters. Immutable after training and
// safe for concurrent use.
type Model struct {
	// Classes is the closed label set discovered from the training data,
	// sorted lexicographically. No label outside it can be predicted.
	Classes []string
	// Weights holds one row per class; each row has Dim feature weights
	// followed by a bias term.
	Weights [][]float64
	// Dim is the feature vector length the model was trained against.
	Dim int
	// Iterations actually run by the optimizer.
	Iterations int
}

// Train fits the classifier with full-batch gradient descent on the softmax
// cross-entropy loss with L2 regularization, until the weight updates fall
// below the tolerance or the iteration cap is hit.
func Train(vectors [][]float64, labels []string, opts Options) (*Model, error) {
	if len(vectors) == 0 || len(labels) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("got %d vectors but %d labels", len(vectors), len(labels))
	}
	opts = opts.withDefaults()

	dim := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("vector %d has length %d, want %d", i, len(vec), dim)
		}
	}

	classes := classSet(labels)
	classIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}
	target := make([]int, len(labels))
	for i, label := range labels {
		target[i] = classIndex[label]
	}

	k := len(classes)
	weights := make([][]float64, k)
	for c := range weights {
		weights[c] = make([]float64, dim+1)
	}

	n := float64(len(vectors))
	grad := make([][]float64, k)
	for c := range grad {
		grad[c] = make([]float64, dim+1)
	}
	probs := make([]float64, k)

	iterations := 0
	for iter := 0; iter < opts.MaxIter; iter++ {
		iterations = iter + 1
		for c := range grad {
			for j := range grad[c] {
				grad[c][j] = 0
			}
		}

		for i, vec := range vectors {
			scores(weights, vec, probs)
			softmax(probs)
			for c := 0; c < k; c++ {
				delta := probs[c]
				if c == target[i] {
					delta -= 1
				}
				row := grad[c]
				for j, x := range vec {
					row[j] += delta * x
				}
				row[dim] += delta
			}
		}

		maxStep := 0.0
		for c := 0; c < k; c++ {
			row := weights[c]
			gradRow := grad[c]
			for j := 0; j <= dim; j++ {
				g := gradRow[j] / n
				if j < dim {
					g += opts.L2 * row[j]
				}
				step := opts.LearningRate * g
				row[j] -= step
				if abs := math.Abs(step); abs > maxStep {
					maxStep = abs
				}
			}
		}

		if maxStep < opts.Tolerance {
			break
		}
	}

	return &Model{
		Classes:    classes,
		Weights:    weights,
		Dim:        dim,
		Iterations: iterations,
	}, nil
}

// Predict returns the highest-probability class for the vector. Hard argmax;
// there is no out-of-set or unknown outcome.
func (m *Model) Predict(vector []float64) string {
	best := 0
	bestScore := math.Inf(-1)
	for c, row := range m.Weights {
		score := row[m.Dim]
		for j := 0; j < m.Dim && j < len(vector); j++ {
			score += row[j] * vector[j]
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return m.Classes[best]
}

func scores(weights [][]float64, vec []float64, out []float64) {
	for c, row := range weights {
		s := row[len(row)-1]
		for j, x := range vec {
			s += row[j] * x
		}
		out[c] = s
	}
}

func softmax(scores []float64) {
	max := math.Inf(-1)
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	var sum float64
	for i, s := range scores {
		e := math.Exp(s - max)
		scores[i] = e
		sum += e
	}
	for i := range scores {
		scores[i] /= sum
	}
}

func classSet(labels []string) []string {
	seen := make(map[string]struct{})
	classes := make([]string, 0)
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		classes = append(classes, label)
	}
	sort.Strings(classes)
	return classes
}
