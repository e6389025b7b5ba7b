package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"resume-copilot/internal/copilot"
)

type stubGenerator struct {
	response string
	err      error

	prompts   []string
	maxTokens []int
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string, maxOutputTokens int) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.maxTokens = append(s.maxTokens, maxOutputTokens)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string { return "stub-model" }

func testSession() *copilot.Session {
	return &copilot.Session{
		ResumeText:     "Senior data engineer with Python and SQL experience.",
		JobDescription: "We are hiring a data engineer to build pipelines.",
		Company:        "Acme",
		Position:       "Data Engineer",
		Similarity:     0.75,
	}
}

func TestATSAnalysisPrompt(t *testing.T) {
	gen := &stubGenerator{response: "ats report"}
	assistant := NewAssistant(gen, zap.NewNop(), 200)

	out, err := assistant.ATSAnalysis(context.Background(), testSession())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ats report" {
		t.Fatalf("unexpected output: %q", out)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("expected 1 call, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	for _, want := range []string{
		"Senior data engineer with Python and SQL experience.",
		"We are hiring a data engineer to build pipelines.",
		"75.00%",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "{{") {
		t.Errorf("prompt still contains a placeholder:\n%s", prompt)
	}
	if gen.maxTokens[0] != atsMaxTokens {
		t.Errorf("expected max tokens %d, got %d", atsMaxTokens, gen.maxTokens[0])
	}
}

func TestOptimizeResumeIncludesATSReport(t *testing.T) {
	gen := &stubGenerator{response: "guide"}
	assistant := NewAssistant(gen, zap.NewNop(), 200)

	session := testSession()
	session.ATSReport = "Overall ATS Score: 82"

	if _, err := assistant.OptimizeResume(context.Background(), session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gen.prompts[0], "Overall ATS Score: 82") {
		t.Error("prompt missing the ats report")
	}
	if gen.maxTokens[0] != optimizeMaxTokens {
		t.Errorf("expected max tokens %d, got %d", optimizeMaxTokens, gen.maxTokens[0])
	}
}

func TestOptimizeResumeWithoutATSReport(t *testing.T) {
	gen := &stubGenerator{response: "guide"}
	assistant := NewAssistant(gen, zap.NewNop(), 200)

	if _, err := assistant.OptimizeResume(context.Background(), testSession()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gen.prompts[0], "(not available)") {
		t.Error("prompt missing the fallback marker for an absent ats report")
	}
}

func TestCoverLetterPrompt(t *testing.T) {
	gen := &stubGenerator{response: "letter"}
	assistant := NewAssistant(gen, zap.NewNop(), 200)

	if _, err := assistant.CoverLetter(context.Background(), testSession()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "for Acme as Data Engineer.") {
		t.Errorf("prompt missing company and position:\n%s", prompt)
	}
	if gen.maxTokens[0] != coverLetterMaxTokens {
		t.Errorf("expected max tokens %d, got %d", coverLetterMaxTokens, gen.maxTokens[0])
	}
}

func TestCoverLetterWithoutCompany(t *testing.T) {
	gen := &stubGenerator{response: "letter"}
	assistant := NewAssistant(gen, zap.NewNop(), 200)

	session := testSession()
	session.Company = ""
	session.Position = ""

	if _, err := assistant.CoverLetter(context.Background(), session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gen.prompts[0], "cover letter for a position.") {
		t.Error("prompt missing the generic position phrasing")
	}
}

func TestFeaturesFailIndependently(t *testing.T) {
	failing := &stubGenerator{err: errors.New("quota exceeded")}
	assistant := NewAssistant(failing, zap.NewNop(), 200)

	session := testSession()
	if _, err := assistant.ATSAnalysis(context.Background(), session); err == nil {
		t.Fatal("expected ats analysis to fail")
	}

	working := &stubGenerator{response: "letter"}
	assistant = NewAssistant(working, zap.NewNop(), 200)

	out, err := assistant.CoverLetter(context.Background(), session)
	if err != nil {
		t.Fatalf("cover letter failed after unrelated ats error: %v", err)
	}
	if out != "letter" {
		t.Fatalf("unexpected output: %q", out)
	}
}
