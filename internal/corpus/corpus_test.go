package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing corpus: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeCorpus(t, strings.Join([]string{
		"ID,Resume,Category",
		`1,"Go developer, 5 years",Backend`,
		`2,"Data analyst with SQL",Data`,
		`3,"",Data`,
		`4,"Frontend engineer",`,
	}, "\n"))

	examples, dropped, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != 2 {
		t.Fatalf("expected 2 dropped rows, got %d", dropped)
	}

	want := []Example{
		{Resume: "Go developer, 5 years", Category: "Backend"},
		{Resume: "Data analyst with SQL", Category: "Data"},
	}
	if !reflect.DeepEqual(examples, want) {
		t.Fatalf("expected %v, got %v", want, examples)
	}
}

func TestLoadMultilineResume(t *testing.T) {
	t.Parallel()

	path := writeCorpus(t, "Resume,Category\n\"line one\nline two\",Backend\n\"other resume\",Backend\n")

	examples, _, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(examples))
	}
	if !strings.Contains(examples[0].Resume, "line two") {
		t.Fatalf("quoted multiline resume not preserved: %q", examples[0].Resume)
	}
}

func TestLoadSourceNotFound(t *testing.T) {
	t.Parallel()

	_, _, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestLoadSchemaError(t *testing.T) {
	t.Parallel()

	path := writeCorpus(t, "Resume,Label\nfoo,bar\n")
	_, _, err := Load(path)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
	if !strings.Contains(err.Error(), "category") {
		t.Fatalf("expected the missing column name in %q", err)
	}
}

func TestLoadAllRowsDropped(t *testing.T) {
	t.Parallel()

	path := writeCorpus(t, "Resume,Category\n,\n,\n")
	_, dropped, err := Load(path)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if dropped != 2 {
		t.Fatalf("expected 2 dropped rows, got %d", dropped)
	}
}

func TestSplitStratified(t *testing.T) {
	t.Parallel()

	var examples []Example
	for i := 0; i < 20; i++ {
		examples = append(examples, Example{Resume: fmt.Sprintf("backend %d", i), Category: "Backend"})
	}
	for i := 0; i < 10; i++ {
		examples = append(examples, Example{Resume: fmt.Sprintf("data %d", i), Category: "Data"})
	}

	train, test, err := Split(examples, 0.2, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(train)+len(test) != len(examples) {
		t.Fatalf("split lost examples: %d + %d != %d", len(train), len(test), len(examples))
	}

	count := func(set []Example, category string) int {
		n := 0
		for _, ex := range set {
			if ex.Category == category {
				n++
			}
		}
		return n
	}

	if got := count(test, "Backend"); got != 4 {
		t.Fatalf("expected 4 Backend test examples, got %d", got)
	}
	if got := count(test, "Data"); got != 2 {
		t.Fatalf("expected 2 Data test examples, got %d", got)
	}
}

func TestSplitReproducible(t *testing.T) {
	t.Parallel()

	var examples []Example
	for i := 0; i < 10; i++ {
		examples = append(examples, Example{Resume: fmt.Sprintf("r%d", i), Category: "A"})
		examples = append(examples, Example{Resume: fmt.Sprintf("s%d", i), Category: "B"})
	}

	train1, test1, err := Split(examples, 0.2, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	train2, test2, err := Split(examples, 0.2, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(train1, train2) || !reflect.DeepEqual(test1, test2) {
		t.Fatal("same seed must produce the same split")
	}
}

func TestSplitSingletonCategory(t *testing.T) {
	t.Parallel()

	examples := []Example{
		{Resume: "a", Category: "A"},
		{Resume: "b", Category: "A"},
		{Resume: "only one", Category: "B"},
	}

	_, _, err := Split(examples, 0.2, 42)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if !strings.Contains(err.Error(), `"B"`) {
		t.Fatalf("expected offending category in %q", err)
	}
}

func TestCategories(t *testing.T) {
	t.Parallel()

	examples := []Example{
		{Resume: "a", Category: "Zeta"},
		{Resume: "b", Category: "Alpha"},
		{Resume: "c", Category: "Zeta"},
	}

	if got, want := Categories(examples), []string{"Alpha", "Zeta"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
