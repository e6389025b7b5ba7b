// Package artifact persists the fitted vectorizer and classifier as a
// matched, versioned pair of files.
//
// Each blob starts with a magic marker and a format version so that loading
// an artifact written by a different build fails fast instead of
// deserializing into garbage. Both blobs carry the same pair ID stamped at
// training time; a classifier must only ever see feature vectors produced by
// the vocabulary it was trained against, and the pair ID is the only way to
// catch a mix-up after the fact.
package artifact

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"resume-copilot/internal/classify"
	"resume-copilot/internal/vectorize"
)

const (
	magic         = "RCML"
	formatVersion = uint16(1)

	// VectorizerFile is the vectorizer artifact file name inside the model dir.
	VectorizerFile = "vectorizer.model"
	// ClassifierFile is the classifier artifact file name inside the model dir.
	ClassifierFile = "classifier.model"
)

var (
	// ErrNotFound marks a missing artifact file.
	ErrNotFound = errors.New("model artifact not found")
	// ErrIncompatibleArtifact marks an artifact this build cannot load: wrong
	// magic, unknown format version, or a vectorizer/classifier pair that was
	// not trained together.
	ErrIncompatibleArtifact = errors.New("incompatible model artifact")
)

type vectorizerPayload struct {
	PairID     string
	Vectorizer *vectorize.Vectorizer
}

type classifierPayload struct {
	PairID string
	Model  *classify.Model
}

// WritePair persists both artifacts into dir, stamped with a fresh shared
// pair ID. Blobs are written to temporary files first and renamed into place
// only after both writes succeed, so a reader never observes one artifact
// updated without the other and a failed run never clobbers a good pair.
func WritePair(dir string, v *vectorize.Vectorizer, m *classify.Model) (string, error) {
	if v == nil || m == nil {
		return "", errors.New("both vectorizer and classifier are required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating model dir: %w", err)
	}

	pairID := uuid.NewString()

	vecBlob, err := encode(vectorizerPayload{PairID: pairID, Vectorizer: v})
	if err != nil {
		return "", fmt.Errorf("encoding vectorizer: %w", err)
	}
	clfBlob, err := encode(classifierPayload{PairID: pairID, Model: m})
	if err != nil {
		return "", fmt.Errorf("encoding classifier: %w", err)
	}

	vecTmp, err := writeTemp(dir, vecBlob)
	if err != nil {
		return "", fmt.Errorf("writing vectorizer: %w", err)
	}
	clfTmp, err := writeTemp(dir, clfBlob)
	if err != nil {
		os.Remove(vecTmp)
		return "", fmt.Errorf("writing classifier: %w", err)
	}

	if err := os.Rename(vecTmp, filepath.Join(dir, VectorizerFile)); err != nil {
		os.Remove(vecTmp)
		os.Remove(clfTmp)
		return "", fmt.Errorf("installing vectorizer: %w", err)
	}
	if err := os.Rename(clfTmp, filepath.Join(dir, ClassifierFile)); err != nil {
		os.Remove(clfTmp)
		return "", fmt.Errorf("installing classifier: %w", err)
	}

	return pairID, nil
}

// LoadPair reads both artifacts from dir and verifies they were trained
// together: matching pair IDs and a classifier dimensionality equal to the
// vocabulary size.
func LoadPair(dir string) (*vectorize.Vectorizer, *classify.Model, error) {
	var vec vectorizerPayload
	if err := load(filepath.Join(dir, VectorizerFile), &vec); err != nil {
		return nil, nil, err
	}
	var clf classifierPayload
	if err := load(filepath.Join(dir, ClassifierFile), &clf); err != nil {
		return nil, nil, err
	}

	if vec.Vectorizer == nil || clf.Model == nil {
		return nil, nil, fmt.Errorf("%w: empty payload", ErrIncompatibleArtifact)
	}
	if vec.PairID == "" || vec.PairID != clf.PairID {
		return nil, nil, fmt.Errorf("%w: vectorizer pair %q does not match classifier pair %q",
			ErrIncompatibleArtifact, vec.PairID, clf.PairID)
	}
	if clf.Model.Dim != vec.Vectorizer.Size() {
		return nil, nil, fmt.Errorf("%w: classifier expects %d features, vocabulary has %d",
			ErrIncompatibleArtifact, clf.Model.Dim, vec.Vectorizer.Size())
	}

	return vec.Vectorizer, clf.Model, nil
}

func encode(payload any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	if err := binary.Write(&buf, binary.BigEndian, formatVersion); err != nil {
		return nil, err
	}
	if err := gob.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func load(path string, payload any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("reading artifact: %w", err)
	}

	if len(data) < len(magic)+2 || string(data[:len(magic)]) != magic {
		return fmt.Errorf("%w: %s is not a model artifact", ErrIncompatibleArtifact, path)
	}
	version := binary.BigEndian.Uint16(data[len(magic) : len(magic)+2])
	if version != formatVersion {
		return fmt.Errorf("%w: %s has format version %d, this build reads %d",
			ErrIncompatibleArtifact, path, version, formatVersion)
	}

	rest := bytes.NewReader(data[len(magic)+2:])
	if err := gob.NewDecoder(rest).Decode(payload); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrIncompatibleArtifact, path, err)
	}
	return nil
}

func writeTemp(dir string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
