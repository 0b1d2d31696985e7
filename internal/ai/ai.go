// Package ai defines the contracts of the model-backed collaborators used by
// the funnel: resume analysis, slot recommendation and email drafting.
package ai

import (
	"context"

	"github.com/ybekenov/hire-funnel/internal/candidate"
	"github.com/ybekenov/hire-funnel/internal/scheduling"
)

// Analyzer scores a resume against a job description and returns a
// normalized assessment.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (*candidate.Assessment, error)
}

// SlotRecommendation is the scorer's pick among the available slots. The
// slot id is untrusted and validated by the allocator.
type SlotRecommendation struct {
	SlotID    int
	Reasoning string
}

// SlotRecommender picks the most suitable interview slot for a candidate.
type SlotRecommender interface {
	Recommend(ctx context.Context, a *candidate.Assessment, available []scheduling.Slot) (*SlotRecommendation, error)
}

// Email is a drafted message ready for delivery.
type Email struct {
	Subject string
	Body    string
}

// InterviewDetails describes the logistics included in an invitation.
type InterviewDetails struct {
	Date        string
	Format      string
	Location    string
	Interviewer string
	Extra       string
}

// MailWriter drafts candidate-facing emails.
type MailWriter interface {
	InterviewInvitation(ctx context.Context, a *candidate.Assessment, jobDescription string, details InterviewDetails) (*Email, error)
	Rejection(ctx context.Context, a *candidate.Assessment, jobDescription, reason string) (*Email, error)
}
