// Package corpus loads and partitions the labeled resume corpus used for
// training.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
)

var (
	// ErrSourceNotFound marks an unreachable corpus location.
	ErrSourceNotFound = errors.New("corpus source not found")
	// ErrSchema marks a corpus missing a required column.
	ErrSchema = errors.New("corpus schema invalid")
	// ErrInsufficientData marks a corpus that cannot support training.
	ErrInsufficientData = errors.New("insufficient training data")
)

const (
	resumeColumn   = "resume"
	categoryColumn = "category"
)

// Example pairs a raw resume text with its ground-truth category.
type Example struct {
	Resume   string
	Category string
}

// Load reads a CSV corpus with Resume and Category columns (matched
// case-insensitively, extra columns ignored). Rows missing either field are
// dropped, not imputed; the dropped count is returned alongside the surviving
// examples.
func Load(path string) ([]Example, int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, 0, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a CSV corpus from the reader. See Load for semantics.
func Read(r io.Reader) ([]Example, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, fmt.Errorf("%w: corpus is empty", ErrInsufficientData)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading corpus header: %w", err)
	}

	resumeIdx, categoryIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case resumeColumn:
			resumeIdx = i
		case categoryColumn:
			categoryIdx = i
		}
	}
	if resumeIdx < 0 || categoryIdx < 0 {
		missing := make([]string, 0, 2)
		if resumeIdx < 0 {
			missing = append(missing, resumeColumn)
		}
		if categoryIdx < 0 {
			missing = append(missing, categoryColumn)
		}
		return nil, 0, fmt.Errorf("%w: missing columns %s", ErrSchema, strings.Join(missing, ", "))
	}

	var examples []Example
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading corpus row: %w", err)
		}
		if resumeIdx >= len(record) || categoryIdx >= len(record) {
			dropped++
			continue
		}
		resume := strings.TrimSpace(record[resumeIdx])
		category := strings.TrimSpace(record[categoryIdx])
		if resume == "" || category == "" {
			dropped++
			continue
		}
		examples = append(examples, Example{Resume: resume, Category: category})
	}

	if len(examples) == 0 {
		return nil, dropped, fmt.Errorf("%w: no usable rows in corpus", ErrInsufficientData)
	}

	return examples, dropped, nil
}

// Categories returns the distinct category labels in sorted order.
func Categories(examples []Example) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, ex := range examples {
		if _, ok := seen[ex.Category]; ok {
			continue
		}
		seen[ex.Category] = struct{}{}
		categories = append(categories, ex.Category)
	}
	sort.Strings(categories)
	return categories
}

// Split partitions the examples into stratified train and test sets: every
// category keeps roughly the same share in both. The seed makes the partition
// reproducible. Any category with fewer than 2 examples cannot be stratified
// and aborts the split.
func Split(examples []Example, testFraction float64, seed int64) (train, test []Example, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %f outside (0,1)", testFraction)
	}

	byCategory := make(map[string][]int)
	for i, ex := range examples {
		byCategory[ex.Category] = append(byCategory[ex.Category], i)
	}

	categories := Categories(examples)
	for _, category := range categories {
		if len(byCategory[category]) < 2 {
			return nil, nil, fmt.Errorf("%w: category %q has fewer than 2 examples", ErrInsufficientData, category)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	for _, category := range categories {
		indices := byCategory[category]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		testCount := int(testFraction*float64(len(indices)) + 0.5)
		if testCount < 1 {
			testCount = 1
		}
		if testCount >= len(indices) {
			testCount = len(indices) - 1
		}

		for i, idx := range indices {
			if i < testCount {
				test = append(test, examples[idx])
			} else {
				train = append(train, examples[idx])
			}
		}
	}

	return train, test, nil
}
