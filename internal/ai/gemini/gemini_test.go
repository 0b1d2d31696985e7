package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ybekenov/hire-funnel/internal/ai"
	"github.com/ybekenov/hire-funnel/internal/candidate"
	"github.com/ybekenov/hire-funnel/internal/scheduling"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestAnalyzerAnalyze(t *testing.T) {
	stub := &stubGenerator{response: `{
		"name": "Jane Doe",
		"email": "jane@example.com",
		"skills_match_percentage": 85,
		"experience_match_percentage": 70,
		"overall_score": 78,
		"key_skills": ["Go"],
		"strengths": ["Design"],
		"weaknesses": ["Frontend"],
		"recommendation": "Strong Hire"
	}`}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	a, err := analyzer.Analyze(context.Background(), "resume text", "job description")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", a.Name)
	assert.Equal(t, candidate.StrongHire, a.Recommendation)
	assert.Contains(t, stub.lastPrompt, "job description")
	assert.Contains(t, stub.lastPrompt, "resume text")
}

func TestAnalyzerRequiresInputs(t *testing.T) {
	analyzer := NewAnalyzer(&stubGenerator{}, zap.NewNop(), 0)

	_, err := analyzer.Analyze(context.Background(), "", "jd")
	assert.Error(t, err)

	_, err = analyzer.Analyze(context.Background(), "resume", " ")
	assert.Error(t, err)
}

func TestAnalyzerPropagatesGenerationError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	_, err := analyzer.Analyze(context.Background(), "resume", "jd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRecommenderRecommend(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{"slot_id": 3, "reasoning": "Morning slot suits senior candidates"}` + "\n```"}
	rec := NewRecommender(stub, zap.NewNop())

	a := &candidate.Assessment{ID: "c1", Name: "Jane", OverallScore: 80, KeySkills: []string{"Go"}}
	slots := []scheduling.Slot{
		{ID: 1, Date: "2025-04-20", Time: "10:00 AM", Available: true},
		{ID: 3, Date: "2025-04-21", Time: "9:00 AM", Available: true},
	}

	out, err := rec.Recommend(context.Background(), a, slots)
	require.NoError(t, err)
	assert.Equal(t, 3, out.SlotID)
	assert.NotEmpty(t, out.Reasoning)
	assert.Contains(t, stub.lastPrompt, "2025-04-21")
}

func TestRecommenderCoercesStringSlotID(t *testing.T) {
	stub := &stubGenerator{response: `{"slot_id": "2", "reasoning": "ok"}`}
	rec := NewRecommender(stub, zap.NewNop())

	a := &candidate.Assessment{ID: "c1", Name: "Jane"}
	slots := []scheduling.Slot{{ID: 2, Available: true}}

	out, err := rec.Recommend(context.Background(), a, slots)
	require.NoError(t, err)
	assert.Equal(t, 2, out.SlotID)
}

func TestMailWriterInvitation(t *testing.T) {
	stub := &stubGenerator{response: `{"subject": "Interview Invitation", "body": "Dear Jane,\nWe would like to invite you..."}`}
	writer := NewMailWriter(stub, zap.NewNop())

	a := &candidate.Assessment{ID: "c1", Name: "Jane", KeySkills: []string{"Go"}, Strengths: []string{"Design"}}
	details := ai.InterviewDetails{
		Date:        "2025-04-20 at 10:00 AM",
		Format:      "Video Call",
		Location:    "Zoom",
		Interviewer: "HR Manager, Acme",
	}

	email, err := writer.InterviewInvitation(context.Background(), a, "Senior Go Developer role", details)
	require.NoError(t, err)
	assert.Equal(t, "Interview Invitation", email.Subject)
	assert.Contains(t, email.Body, "Dear Jane")
	assert.Contains(t, stub.lastPrompt, "2025-04-20 at 10:00 AM")
}

func TestMailWriterTruncatesLongJobDescription(t *testing.T) {
	stub := &stubGenerator{response: `{"subject": "s", "body": "b"}`}
	writer := NewMailWriter(stub, zap.NewNop())

	a := &candidate.Assessment{Name: "Jane"}
	long := strings.Repeat("x", 1000)
	_, err := writer.InterviewInvitation(context.Background(), a, long, ai.InterviewDetails{})
	require.NoError(t, err)

	assert.Contains(t, stub.lastPrompt, strings.Repeat("x", jobDescriptionLimit)+"...")
	assert.NotContains(t, stub.lastPrompt, strings.Repeat("x", jobDescriptionLimit+1))
}

func TestMailWriterRejectsIncompleteDraft(t *testing.T) {
	stub := &stubGenerator{response: `{"subject": "", "body": "text"}`}
	writer := NewMailWriter(stub, zap.NewNop())

	_, err := writer.Rejection(context.Background(), &candidate.Assessment{Name: "Jane"}, "jd", "low score")
	require.Error(t, err)
}
