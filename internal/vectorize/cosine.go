package vectorize

import "math"

// Cosine returns the cosine similarity between two feature vectors produced
// by the same fitted vectorizer. An all-zero vector (text sharing no
// vocabulary terms) yields 0 rather than NaN. The result is clamped to [0,1]
// to absorb floating point drift.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case sim < 0:
		return 0
	case sim > 1:
		return 1
	default:
		return sim
	}
}
