package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"resume-copilot/internal/classify"
	"resume-copilot/internal/vectorize"
)

func fittedPair(t *testing.T) (*vectorize.Vectorizer, *classify.Model) {
	t.Helper()

	corpus := []string{
		"python sql analytics",
		"python sql pipelines",
		"cad welding assembly",
		"cad welding tooling",
	}
	v, err := vectorize.Fit(corpus)
	if err != nil {
		t.Fatalf("fitting vectorizer: %v", err)
	}

	vectors := make([][]float64, len(corpus))
	for i, doc := range corpus {
		vectors[i] = v.Transform(doc)
	}
	labels := []string{"Data", "Data", "Mechanical", "Mechanical"}

	m, err := classify.Train(vectors, labels, classify.Options{MaxIter: 200})
	if err != nil {
		t.Fatalf("training classifier: %v", err)
	}
	return v, m
}

func TestWriteAndLoadPair(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	v, m := fittedPair(t)

	pairID, err := WritePair(dir, v, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pairID == "" {
		t.Fatal("expected a non-empty pair ID")
	}

	loadedV, loadedM, err := LoadPair(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(loadedV.Terms, v.Terms) {
		t.Fatalf("vocabulary not preserved: %v != %v", loadedV.Terms, v.Terms)
	}
	if !reflect.DeepEqual(loadedV.IDF, v.IDF) {
		t.Fatal("idf weights not preserved")
	}
	if !reflect.DeepEqual(loadedM.Classes, m.Classes) {
		t.Fatalf("classes not preserved: %v != %v", loadedM.Classes, m.Classes)
	}
	if !reflect.DeepEqual(loadedM.Weights, m.Weights) {
		t.Fatal("weights not preserved")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected exactly 2 files, got %d", len(entries))
	}
}

func TestLoadPairMissing(t *testing.T) {
	t.Parallel()

	_, _, err := LoadPair(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadPairBadMagic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	v, m := fittedPair(t)
	if _, err := WritePair(dir, v, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, VectorizerFile), []byte("PKL\x00garbage"), 0o644); err != nil {
		t.Fatalf("corrupting artifact: %v", err)
	}

	_, _, err := LoadPair(dir)
	if !errors.Is(err, ErrIncompatibleArtifact) {
		t.Fatalf("expected ErrIncompatibleArtifact, got %v", err)
	}
}

func TestLoadPairUnknownVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	v, m := fittedPair(t)
	if _, err := WritePair(dir, v, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(dir, ClassifierFile)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	// Bump the version bytes just past the magic marker.
	data[4], data[5] = 0xFF, 0xFF
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing artifact: %v", err)
	}

	_, _, err = LoadPair(dir)
	if !errors.Is(err, ErrIncompatibleArtifact) {
		t.Fatalf("expected ErrIncompatibleArtifact, got %v", err)
	}
}

func TestLoadPairMismatchedTrainingRuns(t *testing.T) {
	t.Parallel()

	dirA := t.TempDir()
	dirB := t.TempDir()
	v, m := fittedPair(t)

	if _, err := WritePair(dirA, v, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := WritePair(dirB, v, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Swap one artifact between runs: same shapes, different pair IDs.
	data, err := os.ReadFile(filepath.Join(dirB, ClassifierFile))
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dirA, ClassifierFile), data, 0o644); err != nil {
		t.Fatalf("writing artifact: %v", err)
	}

	_, _, err = LoadPair(dirA)
	if !errors.Is(err, ErrIncompatibleArtifact) {
		t.Fatalf("expected ErrIncompatibleArtifact, got %v", err)
	}
}
