package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hire-funnel"
)

type Config struct {
	Job       *JobConfig       `mapstructure:"job"`
	Resumes   *ResumesConfig   `mapstructure:"resumes"`
	Decision  *DecisionConfig  `mapstructure:"decision"`
	Ranking   *RankingConfig   `mapstructure:"ranking"`
	Slots     *SlotsConfig     `mapstructure:"slots"`
	AI        *AIConfig        `mapstructure:"ai"`
	Email     *EmailConfig     `mapstructure:"email"`
	Interview *InterviewConfig `mapstructure:"interview"`
}

type JobConfig struct {
	Description     string `mapstructure:"description"`
	DescriptionFile string `mapstructure:"description-file"`
}

type ResumesConfig struct {
	Dir string `mapstructure:"dir"`
}

type DecisionConfig struct {
	ApproveThreshold  int    `mapstructure:"approve-threshold"`
	ConsiderThreshold int    `mapstructure:"consider-threshold"`
	Policy            string `mapstructure:"policy"`
	RejectionEmails   bool   `mapstructure:"rejection-emails"`
}

type RankingConfig struct {
	Skills     float64 `mapstructure:"skills"`
	Experience float64 `mapstructure:"experience"`
	Overall    float64 `mapstructure:"overall"`
}

type SlotsConfig struct {
	Seed []SlotEntry     `mapstructure:"seed"`
	Bulk *BulkSlotConfig `mapstructure:"bulk"`
}

type SlotEntry struct {
	Date string `mapstructure:"date"`
	Time string `mapstructure:"time"`
}

type BulkSlotConfig struct {
	StartDate string   `mapstructure:"start-date"`
	Days      int      `mapstructure:"days"`
	Times     []string `mapstructure:"times"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type EmailConfig struct {
	Enabled  bool        `mapstructure:"enabled"`
	FromName string      `mapstructure:"from-name"`
	SMTP     *SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	From         string `mapstructure:"from"`
	PasswordFile string `mapstructure:"password-file"`
}

type InterviewConfig struct {
	Format      string `mapstructure:"format"`
	Location    string `mapstructure:"location"`
	Interviewer string `mapstructure:"interviewer"`
	Extra       string `mapstructure:"extra"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hire-funnel screens resumes against a job description, schedules interviews and emails candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("email.smtp.password-file", "SMTP_PASSWORD_FILE"); err != nil {
		log.Fatalf("binding SMTP_PASSWORD_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hire-funnel.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the run and slots commands. If there is no
	// config, we can skip initialization.
	if runCmd.CalledAs() == "" && slotsCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
