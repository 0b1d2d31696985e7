package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ybekenov/hire-funnel/internal/ai"
	"github.com/ybekenov/hire-funnel/internal/candidate"
	"github.com/ybekenov/hire-funnel/internal/scheduling"
)

//go:embed slot_prompt.md
var slotPromptTemplate string

// Recommender picks interview slots for candidates using Gemini. Its output
// is untrusted; the slot allocator validates the returned id.
type Recommender struct {
	generator contentGenerator
	logger    *zap.Logger
}

// NewRecommender creates a Gemini-backed slot recommender.
func NewRecommender(generator contentGenerator, log *zap.Logger) *Recommender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recommender{generator: generator, logger: log}
}

// Recommend asks the model for the most suitable slot among the available
// ones.
func (r *Recommender) Recommend(ctx context.Context, a *candidate.Assessment, available []scheduling.Slot) (*ai.SlotRecommendation, error) {
	if a == nil {
		return nil, fmt.Errorf("assessment is required")
	}
	if len(available) == 0 {
		return nil, fmt.Errorf("no slots to recommend from")
	}

	profile := map[string]any{
		"name":          a.Name,
		"overall_score": a.OverallScore,
		"key_skills":    strings.Join(a.KeySkills, ", "),
		"experience":    a.ExperienceMatch,
	}
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate profile: %w", err)
	}

	slotsJSON, err := json.MarshalIndent(available, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal slots: %w", err)
	}

	prompt := strings.ReplaceAll(slotPromptTemplate, "{{CANDIDATE_JSON}}", string(profileJSON))
	prompt = strings.ReplaceAll(prompt, "{{SLOTS_JSON}}", string(slotsJSON))

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("recommend slot: %w", err)
	}

	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	rec := &ai.SlotRecommendation{
		SlotID:    coerceInt(data["slot_id"]),
		Reasoning: coerceString(data["reasoning"]),
	}

	r.logger.Debug("slot recommendation",
		zap.String("candidate_id", a.ID),
		zap.Int("slot_id", rec.SlotID),
		zap.String("reasoning", rec.Reasoning),
	)

	return rec, nil
}
