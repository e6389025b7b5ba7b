package copilot

// Session holds the state of one analysis interaction: the input documents,
// the computed match metrics and the generative outputs accumulated so far.
// A session is created fresh by Engine.Analyze and owned by a single caller;
// it is never shared between interactions.
type Session struct {
	ResumeText     string
	JobDescription string
	Company        string
	Position       string

	// Similarity is the cosine match score between resume and job
	// description, in [0,1].
	Similarity float64
	// Category is the predicted job category for the resume.
	Category string

	// Generative outputs. Each holds either the generated text or, after a
	// failed call, a descriptive error message shown in its place.
	ATSReport    string
	Optimization string
	CoverLetter  string
}

// Match status thresholds, expressed over the similarity score.
const (
	strongMatchThreshold = 0.6
	fairMatchThreshold   = 0.4
)

// MatchStatus buckets the similarity score into a human-readable verdict.
func (s *Session) MatchStatus() string {
	switch {
	case s.Similarity > strongMatchThreshold:
		return "strong match"
	case s.Similarity > fairMatchThreshold:
		return "fair match"
	default:
		return "weak match"
	}
}
