// Package vectorize learns a TF-IDF vocabulary from a training corpus and
// maps normalized text onto fixed-length feature vectors.
package vectorize

import (
	"errors"
	"math"
	"sort"

	"resume-copilot/internal/textnorm"
)

const (
	// Vocabulary is capped to the most frequent terms to bound memory and
	// avoid overfitting to rare terms.
	maxFeatures = 5000
	// Terms seen in fewer documents than this are treated as noise.
	minDocCount = 2
	// Terms seen in a larger share of documents than this carry no signal.
	maxDocShare = 0.8
)

// ErrEmptyCorpus is returned when Fit is called without any documents.
var ErrEmptyCorpus = errors.New("vectorizer corpus is empty")

// Vectorizer holds the vocabulary and inverse-document-frequency weights
// learned by Fit. It is immutable after fitting and safe for concurrent use.
type Vectorizer struct {
	// Terms is the vocabulary in vector index order.
	Terms []string
	// Index maps a term to its position in Terms.
	Index map[string]int
	// IDF holds the learned weight for each term, aligned with Terms.
	IDF []float64
}

// Fit learns a vocabulary of unigrams and bigrams from the normalized corpus.
// Stop words are excluded, terms outside the document-frequency bounds are
// dropped, and the vocabulary is capped at the most frequent terms with
// lexicographic tie-break so that fitting the same corpus twice yields the
// same vocabulary.
func Fit(corpus []string) (*Vectorizer, error) {
	return fit(corpus, maxFeatures)
}

func fit(corpus []string, limit int) (*Vectorizer, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)

	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, term := range terms(doc) {
			corpusFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	docs := float64(len(corpus))
	maxDocCount := maxDocShare * docs

	candidates := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df < minDocCount || float64(df) > maxDocCount {
			continue
		}
		candidates = append(candidates, term)
	}

	sort.Slice(candidates, func(i, j int) bool {
		fi, fj := corpusFreq[candidates[i]], corpusFreq[candidates[j]]
		if fi != fj {
			return fi > fj
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	sort.Strings(candidates)

	v := &Vectorizer{
		Terms: candidates,
		Index: make(map[string]int, len(candidates)),
		IDF:   make([]float64, len(candidates)),
	}
	for i, term := range candidates {
		v.Index[term] = i
		// Smoothed IDF so no term ever gets a zero weight.
		v.IDF[i] = math.Log((1+docs)/(1+float64(docFreq[term]))) + 1
	}

	return v, nil
}

// Transform maps normalized text onto a feature vector over the learned
// vocabulary. Terms outside the vocabulary are ignored. The result is
// term-frequency times IDF, L2-normalized, and deterministic for a given
// fitted vectorizer.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.Terms))
	for _, term := range terms(text) {
		if i, ok := v.Index[term]; ok {
			// Adding the IDF once per occurrence accumulates tf*idf.
			vec[i] += v.IDF[i]
		}
	}
	normalizeL2(vec)
	return vec
}

// Size returns the vocabulary size, which is also the feature vector length.
func (v *Vectorizer) Size() int {
	return len(v.Terms)
}

// terms expands normalized text into unigrams and bigrams with stop words
// removed before n-gram construction.
func terms(text string) []string {
	tokens := textnorm.Tokens(text)
	kept := tokens[:0]
	for _, token := range tokens {
		if isStopWord(token) {
			continue
		}
		kept = append(kept, token)
	}

	result := make([]string, 0, 2*len(kept))
	for i, token := range kept {
		result = append(result, token)
		if i+1 < len(kept) {
			result = append(result, token+" "+kept[i+1])
		}
	}
	return result
}

func normalizeL2(vec []float64) {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
