package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ybekenov/hire-funnel/internal/ai"
	"github.com/ybekenov/hire-funnel/internal/ai/gemini"
	"github.com/ybekenov/hire-funnel/internal/candidate"
	"github.com/ybekenov/hire-funnel/internal/decision"
	"github.com/ybekenov/hire-funnel/internal/document"
	"github.com/ybekenov/hire-funnel/internal/logger"
	"github.com/ybekenov/hire-funnel/internal/notify"
	"github.com/ybekenov/hire-funnel/internal/pipeline"
	"github.com/ybekenov/hire-funnel/internal/ranking"
	"github.com/ybekenov/hire-funnel/internal/scheduling"
	"github.com/ybekenov/hire-funnel/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var prompt = promptui.Select{
	Label: "Proceed with the batch?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the hire-funnel main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before decisions, scheduling and emails")
	runCmd.Flags().StringP("resumes-dir", "r", "", "directory with candidate resumes. Overrides the config value.")

	viper.BindPFlag("resumes.dir", runCmd.Flags().Lookup("resumes-dir"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hire-funnel", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	jobDescription, err := resolveJobDescription(config)
	if err != nil {
		logger.Fatal("loading the job description",
			zap.Error(err),
			zap.String("hint", "set job.description or job.description-file in the configuration file"),
		)
	}

	resumesDir := ""
	if config.Resumes != nil {
		resumesDir = strings.TrimSpace(config.Resumes.Dir)
	}
	if resumesDir == "" {
		logger.Fatal("resumes directory is required under resumes.dir")
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the gemini generator", zap.Error(err))
	}

	maxLogLength := 0
	if config.AI != nil && config.AI.Gemini != nil {
		maxLogLength = config.AI.Gemini.MaxLogLength
	}

	analyzer := gemini.NewAnalyzer(generator, logger, maxLogLength)
	recommender := gemini.NewRecommender(generator, logger)
	mailWriter := gemini.NewMailWriter(generator, logger)

	notifier, err := newNotifier(config.Email, logger)
	if err != nil {
		logger.Fatal("building the email notifier", zap.Error(err))
	}

	engine, err := newEngine(config.Decision)
	if err != nil {
		logger.Fatal("building the decision engine", zap.Error(err))
	}

	pool, err := seedPool(config.Slots)
	if err != nil {
		logger.Fatal("seeding interview slots", zap.Error(err))
	}

	logger.Info("interview slots ready", zap.Int("available", len(pool.Available())))

	assessments := analyzeResumes(ctx, resumesDir, document.NewPDFExtractor(logger), analyzer, jobDescription, logger)
	if len(assessments) == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes could be analyzed"))
		return
	}

	ranked, err := ranking.Rank(assessments, rankingWeights(config.Ranking))
	if err != nil {
		logger.Fatal("ranking candidates", zap.Error(err))
	}

	printRanked(ranked)

	if cmd.Flag("auto-approve").Value.String() == "false" {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	orch, err := pipeline.New(engine, pool, recommender, mailWriter, notifier, logger, pipeline.Config{
		JobDescription:  jobDescription,
		Interview:       interviewDetails(config.Interview),
		FromName:        fromName(config.Email),
		RejectionEmails: config.Decision != nil && config.Decision.RejectionEmails,
	})
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	outcomes := orch.ProcessBatch(ctx, assessments)
	report(logger, orch, outcomes, pool)
}

func resolveJobDescription(config *Config) (string, error) {
	if config == nil || config.Job == nil {
		return "", errors.New("job configuration is required")
	}

	if file := strings.TrimSpace(config.Job.DescriptionFile); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading job description from file %q: %w", file, err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("job description file %q is empty", file)
		}
		return text, nil
	}

	text := strings.TrimSpace(config.Job.Description)
	if text == "" {
		return "", errors.New("job description is not configured")
	}
	return text, nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Generator, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required under ai.gemini")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
}

func newNotifier(cfg *EmailConfig, logger *zap.Logger) (notify.Notifier, error) {
	if cfg == nil || !cfg.Enabled {
		return notify.NewDryRun(logger), nil
	}

	if cfg.SMTP == nil {
		return nil, errors.New("smtp configuration is required under email.smtp when email is enabled")
	}

	password, err := secrets.Load(secrets.Source{
		Name: "smtp password",
		File: cfg.SMTP.PasswordFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set email.smtp.password-file or SMTP_PASSWORD_FILE)", err)
	}

	return notify.NewSMTP(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: password,
		From:     cfg.SMTP.From,
	}, logger)
}

func newEngine(cfg *DecisionConfig) (*decision.Engine, error) {
	thresholds := decision.DefaultThresholds
	policy := decision.Policy("")

	if cfg != nil {
		if cfg.ApproveThreshold != 0 {
			thresholds.Approve = cfg.ApproveThreshold
		}
		if cfg.ConsiderThreshold != 0 {
			thresholds.Consider = cfg.ConsiderThreshold
		}
		policy = decision.Policy(cfg.Policy)
	}

	return decision.NewEngine(thresholds, policy)
}

func seedPool(cfg *SlotsConfig) (*scheduling.Pool, error) {
	pool := scheduling.NewPool()
	if cfg == nil {
		return pool, nil
	}

	for _, entry := range cfg.Seed {
		if strings.TrimSpace(entry.Date) == "" || strings.TrimSpace(entry.Time) == "" {
			return nil, fmt.Errorf("slot entries require both date and time, got %+v", entry)
		}
		pool.Add(entry.Date, entry.Time)
	}

	if cfg.Bulk != nil {
		start, err := time.Parse("2006-01-02", cfg.Bulk.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing slots.bulk.start-date: %w", err)
		}
		pool.BulkAdd(start, cfg.Bulk.Days, cfg.Bulk.Times)
	}

	return pool, nil
}

func rankingWeights(cfg *RankingConfig) ranking.Weights {
	if cfg == nil {
		return ranking.DefaultWeights
	}

	weights := ranking.Weights{
		Skills:     cfg.Skills,
		Experience: cfg.Experience,
		Overall:    cfg.Overall,
	}
	if weights == (ranking.Weights{}) {
		return ranking.DefaultWeights
	}
	return weights
}

func interviewDetails(cfg *InterviewConfig) ai.InterviewDetails {
	details := ai.InterviewDetails{
		Format:      "Video call",
		Interviewer: "Hiring Team",
	}
	if cfg == nil {
		return details
	}

	if cfg.Format != "" {
		details.Format = cfg.Format
	}
	if cfg.Interviewer != "" {
		details.Interviewer = cfg.Interviewer
	}
	details.Location = cfg.Location
	details.Extra = cfg.Extra

	return details
}

func fromName(cfg *EmailConfig) string {
	if cfg == nil || cfg.FromName == "" {
		return "Recruitment Team"
	}
	return cfg.FromName
}

// analyzeResumes reads every file in the directory, extracts its text and
// scores it against the job description. A file that fails to parse or to
// analyze is logged and skipped; the rest of the batch proceeds.
func analyzeResumes(ctx context.Context, dir string, extractor document.Extractor, analyzer ai.Analyzer, jobDescription string, logger *zap.Logger) []*candidate.Assessment {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Fatal("reading resumes directory", zap.String("dir", dir), zap.Error(err))
	}

	assessments := make([]*candidate.Assessment, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping resume", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		text, err := extractor.Extract(data, entry.Name())
		if err != nil {
			logger.Warn("skipping resume", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		assessment, err := analyzer.Analyze(ctx, text, jobDescription)
		if err != nil {
			logger.Warn("skipping resume", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		assessment.BackfillEmail(text)
		if assessment.Name == "" || assessment.Name == candidate.UnknownName {
			assessment.Name = candidate.GuessName(text, entry.Name())
		}

		logger.Info("resume analyzed",
			zap.String("file", entry.Name()),
			zap.String("candidate", assessment.Name),
			zap.Int("overall_score", assessment.OverallScore),
			zap.String("recommendation", string(assessment.Recommendation)),
		)

		assessments = append(assessments, assessment)
	}

	return assessments
}

func printRanked(ranked []ranking.Ranked) {
	fmt.Printf("\nCandidates by weighted score:\n")
	for i, r := range ranked {
		a := r.Assessment
		fmt.Printf("  %2d. %-30s %6.1f  (skills %d%%, experience %d%%, overall %d%%) %s\n",
			i+1, a.Name, r.WeightedScore,
			a.SkillsMatch, a.ExperienceMatch, a.OverallScore,
			a.Recommendation,
		)
	}
	fmt.Println()
}

func report(logger *zap.Logger, orch *pipeline.Orchestrator, outcomes []pipeline.Outcome, pool *scheduling.Pool) {
	summary := orch.Summarize()
	logger.Info("batch complete",
		zap.Int("approved", summary.Approved),
		zap.Int("pending", summary.Pending),
		zap.Int("rejected", summary.Rejected),
	)

	for _, out := range outcomes {
		fields := []zap.Field{
			zap.String("candidate_id", out.CandidateID),
			zap.String("status", string(out.Decision.Status)),
			zap.String("reason", out.Decision.Reason),
		}
		if out.Reservation != nil {
			fields = append(fields, zap.Int("slot_id", out.Reservation.SlotID))
		}
		if out.Notification != nil {
			fields = append(fields, zap.Bool("email_sent", out.Notification.Success))
		}
		if out.Note != "" {
			fields = append(fields, zap.String("note", out.Note))
		}
		logger.Info("candidate outcome", fields...)
	}

	for _, record := range orch.EmailRecords() {
		if record.Sent {
			continue
		}
		logger.Warn("email was not delivered",
			zap.String("candidate_id", record.CandidateID),
			zap.String("email", record.Email),
		)
	}

	logger.Info("schedule state",
		zap.Int("reserved", len(pool.Reservations())),
		zap.Int("still_available", len(pool.Available())),
	)
}
