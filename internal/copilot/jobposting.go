package copilot

import (
	"fmt"
	"strings"
)

// JobPosting carries the job description input: either one free-text block or
// four labeled sections. Responsibilities and requirements are the primary
// matching signal; overview and preferred qualifications are optional
// context.
type JobPosting struct {
	Company  string
	Position string

	// Description is the full free-text job description. When set it wins
	// over the structured sections.
	Description string

	Overview         string
	Responsibilities string
	Requirements     string
	Preferred        string
}

// Assemble returns the job description document: the free-text block when
// provided, otherwise the non-empty sections concatenated under labeled
// headings. Returns an empty string when nothing was provided.
func (p JobPosting) Assemble() string {
	if desc := strings.TrimSpace(p.Description); desc != "" {
		return desc
	}

	var parts []string
	appendSection := func(heading, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		parts = append(parts, fmt.Sprintf("**%s:**\n%s", heading, body))
	}

	appendSection("Job Overview", p.Overview)
	appendSection("Key Responsibilities", p.Responsibilities)
	appendSection("Requirements", p.Requirements)
	appendSection("Preferred Qualifications", p.Preferred)

	return strings.Join(parts, "\n\n")
}
