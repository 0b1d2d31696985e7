package gemini

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ybekenov/hire-funnel/internal/candidate"
	"github.com/ybekenov/hire-funnel/internal/logger"
)

//go:embed analyze_prompt.md
var analyzePromptTemplate string

const defaultMaxLogLength = 200

// Analyzer scores resumes against a job description using Gemini.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewAnalyzer creates a Gemini-backed resume analyzer.
func NewAnalyzer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Analyze sends the resume and job description to the model and returns the
// normalized assessment. The model's email field may still be empty; callers
// run the regex backfill afterwards.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (*candidate.Assessment, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("resume text is required")
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("job description is required")
	}

	prompt := strings.ReplaceAll(analyzePromptTemplate, "{{JOB_DESCRIPTION}}", jobDescription)
	prompt = strings.ReplaceAll(prompt, "{{RESUME}}", resumeText)

	a.logger.Debug("gemini analyze request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("analyze resume: %w", err)
	}

	a.logger.Debug("gemini analyze response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	assessment, err := candidate.ParseAnalysis(raw)
	if err != nil {
		return nil, err
	}

	return assessment, nil
}
