package ai

import (
	"context"

	"resume-copilot/internal/copilot"
)

// Assistant produces the generative documents for an analysis session. Each
// method is an independent call: a failure in one feature never invalidates
// the session or the other features.
type Assistant interface {
	// ATSAnalysis returns a detailed ATS compatibility report for the
	// session's resume and job description.
	ATSAnalysis(ctx context.Context, session *copilot.Session) (string, error)
	// OptimizeResume returns actionable resume improvement suggestions,
	// using the session's ATS report as additional context when present.
	OptimizeResume(ctx context.Context, session *copilot.Session) (string, error)
	// CoverLetter returns a tailored cover letter for the session.
	CoverLetter(ctx context.Context, session *copilot.Session) (string, error)
}
