package candidate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// analysisPayload mirrors the JSON contract of the resume analysis prompt.
// The model output is untrusted: fields may be missing, renamed between runs,
// or carry the wrong type, so decoding is weakly typed and every field has a
// fallback.
type analysisPayload struct {
	Name            string   `mapstructure:"name"`
	Email           string   `mapstructure:"email"`
	SkillsMatch     float64  `mapstructure:"skills_match_percentage"`
	ExperienceMatch float64  `mapstructure:"experience_match_percentage"`
	OverallScore    float64  `mapstructure:"overall_score"`
	KeySkills       []string `mapstructure:"key_skills"`
	Strengths       []string `mapstructure:"strengths"`
	Weaknesses      []string `mapstructure:"weaknesses"`
	Recommendation  string   `mapstructure:"recommendation"`
}

// ParseAnalysis turns a raw resume-analysis response into a normalized
// Assessment. Markdown fences are stripped, scores are clamped to [0,100] and
// the recommendation label is normalized. A fresh candidate id is assigned.
func ParseAnalysis(raw string) (*Assessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}

	var payload analysisPayload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &payload,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build analysis decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode analysis fields: %w", err)
	}

	assessment := &Assessment{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(payload.Name),
		Email:           strings.TrimSpace(payload.Email),
		SkillsMatch:     clampScore(payload.SkillsMatch),
		ExperienceMatch: clampScore(payload.ExperienceMatch),
		OverallScore:    clampScore(payload.OverallScore),
		KeySkills:       trimAll(payload.KeySkills),
		Strengths:       trimAll(payload.Strengths),
		Weaknesses:      trimAll(payload.Weaknesses),
		Recommendation:  normalizeRecommendation(payload.Recommendation),
	}

	if assessment.Name == "" {
		assessment.Name = UnknownName
	}

	return assessment, nil
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
