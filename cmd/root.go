package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/ssemenov/jobscout/internal/brightdata"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobscout"
)

type Config struct {
	Search    *brightdata.SearchParams `mapstructure:"search"`
	Profile   *ProfileConfig           `mapstructure:"profile"`
	TokenFile string                   `mapstructure:"token-file"`
	UserAgent string                   `mapstructure:"user-agent"`
	AI        *AIConfig                `mapstructure:"ai"`
	Poll      *PollConfig              `mapstructure:"poll"`
	Scoring   *ScoringConfig           `mapstructure:"scoring"`
	Output    *OutputConfig            `mapstructure:"output"`
}

// ProfileConfig holds the two free-text inputs the scorer matches listings against.
type ProfileConfig struct {
	Summary    string `mapstructure:"summary"`
	DesiredJob string `mapstructure:"desired-job"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	OpenAI   *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OpenAIConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ScoringConfig struct {
	BatchSize int           `mapstructure:"batch-size"`
	Pause     time.Duration `mapstructure:"pause"`
}

type OutputConfig struct {
	CSV    string `mapstructure:"csv"`
	Format string `mapstructure:"format"`
	Top    int    `mapstructure:"top"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobscout is a simple cli for scraping linkedin job listings and ranking them against your profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "BRIGHTDATA_TOKEN_FILE"); err != nil {
		log.Fatalf("binding BRIGHTDATA_TOKEN_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("ai.openai.api-key-file", "OPENAI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding OPENAI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
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

// Validate checks the fields required before any network call is made.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is required")
	}

	if c.Search == nil || strings.TrimSpace(c.Search.Location) == "" {
		return errors.New("search.location is required to trigger a job search")
	}

	if c.Profile == nil || strings.TrimSpace(c.Profile.Summary) == "" {
		return errors.New("profile.summary is required to score listings")
	}

	if strings.TrimSpace(c.Profile.DesiredJob) == "" {
		return errors.New("profile.desired-job is required to score listings")
	}

	return nil
}
