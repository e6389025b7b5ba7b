package gemini

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"resume-copilot/internal/copilot"
	"resume-copilot/internal/util"
)

//go:embed prompts/ats_analysis.md
var atsAnalysisPrompt string

//go:embed prompts/optimize_resume.md
var optimizeResumePrompt string

//go:embed prompts/cover_letter.md
var coverLetterPrompt string

// Output token caps per feature. The cover letter is the shortest document,
// the optimization guide the longest.
const (
	atsMaxTokens         = 2500
	optimizeMaxTokens    = 3500
	coverLetterMaxTokens = 2000
)

// contentGenerator is the slice of Generator the assistant needs. Tests
// substitute a stub.
type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
	Model() string
}

// Assistant renders the feature prompts and delegates generation to Gemini.
type Assistant struct {
	generator    contentGenerator
	logger       *zap.Logger
	maxLogLength int
}

func NewAssistant(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Assistant {
	return &Assistant{
		generator:    generator,
		logger:       logger,
		maxLogLength: maxLogLength,
	}
}

// ATSAnalysis scores the resume against the job description.
func (a *Assistant) ATSAnalysis(ctx context.Context, session *copilot.Session) (string, error) {
	prompt := render(atsAnalysisPrompt, map[string]string{
		"JOB_DESCRIPTION":  session.JobDescription,
		"RESUME":           session.ResumeText,
		"SIMILARITY_SCORE": fmt.Sprintf("%.2f", session.Similarity*100),
	})

	return a.generate(ctx, "ats analysis", prompt, atsMaxTokens)
}

// OptimizeResume suggests concrete resume improvements. When the session
// already carries an ATS report it is fed into the prompt as context.
func (a *Assistant) OptimizeResume(ctx context.Context, session *copilot.Session) (string, error) {
	atsReport := strings.TrimSpace(session.ATSReport)
	if atsReport == "" {
		atsReport = "(not available)"
	}

	prompt := render(optimizeResumePrompt, map[string]string{
		"JOB_DESCRIPTION": session.JobDescription,
		"RESUME":          session.ResumeText,
		"ATS_ANALYSIS":    atsReport,
	})

	return a.generate(ctx, "resume optimization", prompt, optimizeMaxTokens)
}

// CoverLetter writes a cover letter tailored to the session's job posting.
func (a *Assistant) CoverLetter(ctx context.Context, session *copilot.Session) (string, error) {
	companyInfo := "for a position"
	if company := strings.TrimSpace(session.Company); company != "" {
		companyInfo = fmt.Sprintf("for %s", company)
	}

	positionInfo := ""
	if position := strings.TrimSpace(session.Position); position != "" {
		positionInfo = fmt.Sprintf(" as %s", position)
	}

	prompt := render(coverLetterPrompt, map[string]string{
		"COMPANY_INFO":    companyInfo,
		"POSITION_INFO":   positionInfo,
		"JOB_DESCRIPTION": session.JobDescription,
		"RESUME":          session.ResumeText,
	})

	return a.generate(ctx, "cover letter", prompt, coverLetterMaxTokens)
}

func (a *Assistant) generate(ctx context.Context, feature, prompt string, maxTokens int) (string, error) {
	a.logger.Debug("sending prompt to gemini",
		zap.String("feature", feature),
		zap.String("model", a.generator.Model()),
		zap.Int("max_output_tokens", maxTokens),
		zap.String("prompt", util.TruncateForLog(prompt, a.maxLogLength)),
	)

	output, err := a.generator.GenerateContent(ctx, prompt, maxTokens)
	if err != nil {
		return "", fmt.Errorf("%s: %w", feature, err)
	}

	a.logger.Debug("received gemini response",
		zap.String("feature", feature),
		zap.String("response", util.TruncateForLog(output, a.maxLogLength)),
	)

	return output, nil
}

// render substitutes {{KEY}} placeholders in the template and trims trailing
// whitespace left behind by empty placeholders.
func render(template string, values map[string]string) string {
	out := template
	for key, value := range values {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if trimmed := strings.TrimRight(line, " \t"); trimmed != line {
			lines[i] = trimmed
		}
	}

	return strings.Join(lines, "\n")
}
