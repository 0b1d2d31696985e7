package candidate

import (
	"strings"
)

// Recommendation is the hiring verdict produced by the resume analysis.
type Recommendation string

const (
	StrongHire        Recommendation = "Strong Hire"
	PotentialHire     Recommendation = "Potential Hire"
	ConsiderOtherRole Recommendation = "Consider for Different Role"
	Reject            Recommendation = "Reject"
)

// EmailNotFound is the sentinel used when no email address could be
// extracted from the analysis or the resume text.
const EmailNotFound = "Not found"

// UnknownName is the placeholder used when neither the analysis nor the
// resume text yields a candidate name.
const UnknownName = "Unknown Candidate"

// Assessment is the normalized scoring output for one candidate against one
// job requisition. It is immutable after creation except for the best-effort
// email backfill.
type Assessment struct {
	ID              string
	Name            string
	Email           string
	SkillsMatch     int
	ExperienceMatch int
	OverallScore    int
	KeySkills       []string
	Strengths       []string
	Weaknesses      []string
	Recommendation  Recommendation
}

// HasValidEmail reports whether the assessment carries a syntactically usable
// email address.
func (a *Assessment) HasValidEmail() bool {
	email := strings.TrimSpace(a.Email)
	if email == "" || email == EmailNotFound {
		return false
	}
	return strings.Contains(email, "@")
}

// BackfillEmail fills in the email address from the resume text when the
// analysis omitted it. Falls back to the EmailNotFound sentinel.
func (a *Assessment) BackfillEmail(resumeText string) {
	if strings.TrimSpace(a.Email) != "" && a.Email != EmailNotFound {
		return
	}
	if email := ExtractEmail(resumeText); email != "" {
		a.Email = email
		return
	}
	a.Email = EmailNotFound
}

// Approvable reports whether the recommendation allows automatic approval.
func (r Recommendation) Approvable() bool {
	return r == StrongHire || r == PotentialHire
}

func normalizeRecommendation(raw string) Recommendation {
	known := []Recommendation{StrongHire, PotentialHire, ConsiderOtherRole, Reject}

	trimmed := strings.TrimSpace(raw)
	for _, rec := range known {
		if strings.EqualFold(trimmed, string(rec)) {
			return rec
		}
	}

	// A few variations observed in model output.
	switch strings.ToLower(trimmed) {
	case "strong-hire", "stronghire":
		return StrongHire
	case "potential-hire", "potentialhire", "hire":
		return PotentialHire
	case "consider other role", "consider for other role", "different role":
		return ConsiderOtherRole
	case "rejected", "no hire", "no-hire":
		return Reject
	}

	return Recommendation(trimmed)
}
