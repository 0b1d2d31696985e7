package gemini

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ybekenov/hire-funnel/internal/ai"
	"github.com/ybekenov/hire-funnel/internal/candidate"
)

//go:embed invitation_prompt.md
var invitationPromptTemplate string

//go:embed rejection_prompt.md
var rejectionPromptTemplate string

// jobDescriptionLimit bounds the prompt size; the model only needs the top
// of the job description to set the tone.
const jobDescriptionLimit = 500

// MailWriter drafts interview invitations and rejection emails using Gemini.
type MailWriter struct {
	generator contentGenerator
	logger    *zap.Logger
}

// NewMailWriter creates a Gemini-backed mail writer.
func NewMailWriter(generator contentGenerator, log *zap.Logger) *MailWriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &MailWriter{generator: generator, logger: log}
}

// InterviewInvitation drafts a personalized invitation for the candidate.
func (w *MailWriter) InterviewInvitation(ctx context.Context, a *candidate.Assessment, jobDescription string, details ai.InterviewDetails) (*ai.Email, error) {
	if a == nil {
		return nil, fmt.Errorf("assessment is required")
	}

	replacements := map[string]string{
		"{{NAME}}":            a.Name,
		"{{KEY_SKILLS}}":      strings.Join(a.KeySkills, ", "),
		"{{STRENGTHS}}":       strings.Join(a.Strengths, ", "),
		"{{JOB_DESCRIPTION}}": truncate(jobDescription, jobDescriptionLimit),
		"{{DATE}}":            details.Date,
		"{{FORMAT}}":          details.Format,
		"{{LOCATION}}":        details.Location,
		"{{INTERVIEWER}}":     details.Interviewer,
		"{{EXTRA}}":           details.Extra,
	}

	return w.draft(ctx, a, invitationPromptTemplate, replacements)
}

// Rejection drafts a respectful rejection email, optionally citing a reason.
func (w *MailWriter) Rejection(ctx context.Context, a *candidate.Assessment, jobDescription, reason string) (*ai.Email, error) {
	if a == nil {
		return nil, fmt.Errorf("assessment is required")
	}

	reasonBlock := ""
	if strings.TrimSpace(reason) != "" {
		reasonBlock = "REJECTION REASON: " + reason
	}

	replacements := map[string]string{
		"{{NAME}}":            a.Name,
		"{{JOB_DESCRIPTION}}": truncate(jobDescription, 300),
		"{{REASON}}":          reasonBlock,
	}

	return w.draft(ctx, a, rejectionPromptTemplate, replacements)
}

func (w *MailWriter) draft(ctx context.Context, a *candidate.Assessment, template string, replacements map[string]string) (*ai.Email, error) {
	prompt := template
	for placeholder, value := range replacements {
		prompt = strings.ReplaceAll(prompt, placeholder, value)
	}

	raw, err := w.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("draft email: %w", err)
	}

	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	email := &ai.Email{
		Subject: coerceString(data["subject"]),
		Body:    coerceString(data["body"]),
	}
	if email.Subject == "" || email.Body == "" {
		return nil, fmt.Errorf("drafted email is missing subject or body")
	}

	w.logger.Debug("email drafted",
		zap.String("candidate_id", a.ID),
		zap.String("subject", email.Subject),
	)

	return email, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
