package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ssemenov/jobscout/internal/ai"
	"github.com/ssemenov/jobscout/internal/ai/gemini"
	"github.com/ssemenov/jobscout/internal/ai/openai"
	"github.com/ssemenov/jobscout/internal/brightdata"
	"github.com/ssemenov/jobscout/internal/export"
	"github.com/ssemenov/jobscout/internal/logger"
	"github.com/ssemenov/jobscout/internal/ranking"
	"github.com/ssemenov/jobscout/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes            = "Yes"
	PromptNo             = "No"
	PromptListingsToFile = "Dump listings to file"

	defaultPollInterval = 10 * time.Second
	defaultBatchSize    = 5
	defaultBatchPause   = time.Second
	defaultOutputCSV    = "jobs_scored.csv"
	defaultTop          = 3
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Score these listings?",
	Items: []string{PromptYes, PromptNo, PromptListingsToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the jobscout main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("jobs-number", "n", 20, "limit the number of jobs returned by the scraper")
	runCmd.Flags().Int("batch-size", 0, "number of jobs to score in each batch")
	runCmd.Flags().StringP("output", "o", "", "output csv filename")
	runCmd.Flags().Int("top", 0, "number of top matches to print after export")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before scoring found listings")

	viper.BindPFlag("jobs-number", runCmd.Flags().Lookup("jobs-number"))
	viper.BindPFlag("scoring.batch-size", runCmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("output.csv", runCmd.Flags().Lookup("output"))
	viper.BindPFlag("output.top", runCmd.Flags().Lookup("top"))
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

	logger.Info("starting the jobscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if err := config.Validate(); err != nil {
		logger.Fatal("validating config", zap.Error(err))
	}

	applyDefaults(config)

	format, err := export.ParseFormat(config.Output.Format)
	if err != nil {
		logger.Fatal("validating config", zap.Error(err))
	}

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal(
			"loading bright data token",
			zap.Error(err),
			zap.String("hint", "set BRIGHTDATA_TOKEN_FILE environment variable or the 'token-file' key in the configuration file"),
		)
	}

	bd := brightdata.New(ctx, logger, token)

	if config.UserAgent != "" {
		bd.UserAgent = config.UserAgent
	}
	if config.Poll.Interval > 0 {
		bd.PollInterval = config.Poll.Interval
	}

	logger.Info("starting the search",
		zap.String("location", config.Search.Location),
		zap.String("keyword", config.Search.Keyword),
	)

	snapshotID, err := bd.Trigger(config.Search, viper.GetInt("jobs-number"))
	if err != nil {
		logger.Fatal("triggering job search", zap.Error(err))
	}

	logger.Info("job search triggered", zap.String("snapshot_id", snapshotID))

	pollCtx := ctx
	if config.Poll.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, config.Poll.Timeout)
		defer cancel()
	}

	listings, err := bd.WaitForSnapshot(pollCtx, snapshotID)
	if err != nil {
		logger.Fatal("waiting for snapshot", zap.Error(err))
	}

	if listings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no listings found"))
		return
	}

	logger.Info("listings found", zap.Int("count", listings.Len()))
	logger.Debug("found listing ids", zap.Strings("ids", listings.IDs()))

	summaries, err := listings.Summaries()
	if err != nil {
		logger.Warn("decoding listing summaries", zap.Error(err))
	} else if err := export.PrintFound(os.Stdout, summaries); err != nil {
		logger.Warn("printing found listings", zap.Error(err))
	}

	if cmd.Flag("auto-approve").Value.String() == "false" {
		if err := confirmScoring(listings, logger); err != nil {
			if errors.Is(err, errExit) {
				logger.Info("exiting", zap.String("reason", "got no from prompt"))
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	scorer, err := newScorer(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai scorer", zap.Error(err))
	}

	profile := ai.Profile{
		Summary:    config.Profile.Summary,
		DesiredJob: config.Profile.DesiredJob,
	}

	ranker := ranking.New(scorer, config.Scoring.BatchSize, config.Scoring.Pause, logger)

	scores, err := ranker.Score(ctx, profile, listings)
	if err != nil {
		logger.Fatal("scoring listings", zap.Error(err))
	}

	ranked := ranking.Merge(listings, scores)
	if len(ranked) == 0 {
		logger.Info("exiting", zap.String("reason", "no listings left after merging scores"))
		return
	}

	if err := exportRanked(ranked, config.Output.CSV, format); err != nil {
		logger.Fatal("exporting results", zap.Error(err))
	}

	logger.Info("exported scored listings",
		zap.Int("count", len(ranked)),
		zap.String("filename", config.Output.CSV),
	)

	opts := export.ReportOptions{ColorEnabled: !viper.GetBool("json")}
	if err := export.PrintTop(os.Stdout, ranked, config.Output.Top, opts); err != nil {
		logger.Fatal("printing top matches", zap.Error(err))
	}
}

// confirmScoring asks before spending model tokens on the found listings.
func confirmScoring(listings *brightdata.Listings, logger *zap.Logger) error {
	for {
		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptYes:
			return nil
		case PromptNo:
			return errExit
		case PromptListingsToFile:
			filename, err := listings.DumpToTmpFile()
			if err != nil {
				return fmt.Errorf("dump listings to file: %w", err)
			}
			logger.Info("dumping listings to file", zap.String("filename", filename))
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func applyDefaults(config *Config) {
	if config.Poll == nil {
		config.Poll = &PollConfig{}
	}
	if config.Poll.Interval <= 0 {
		config.Poll.Interval = defaultPollInterval
	}

	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{}
	}
	if config.Scoring.BatchSize <= 0 {
		config.Scoring.BatchSize = defaultBatchSize
	}
	if config.Scoring.Pause <= 0 {
		config.Scoring.Pause = defaultBatchPause
	}

	if config.Output == nil {
		config.Output = &OutputConfig{}
	}
	if config.Output.CSV == "" {
		config.Output.CSV = defaultOutputCSV
	}
	if config.Output.Top <= 0 {
		config.Output.Top = defaultTop
	}
}

func resolveToken(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	tokenFile := strings.TrimSpace(config.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	if tokenFile == "" {
		return "", errors.New("bright data token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "bright data token",
		File: tokenFile,
	})
}

func newScorer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Scorer, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = "gemini"
	}

	switch provider {
	case "gemini":
		gcfg := cfg.Gemini
		if gcfg == nil {
			gcfg = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: gcfg.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		genLogger := logger.WithFields(log, logger.CommonFields(provider, gcfg.Model)...)

		generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, genLogger)
		if err != nil {
			return nil, err
		}

		scorerLogger := logger.WithFields(log, logger.CommonFields(provider, generator.Model())...)

		return gemini.NewScorer(generator, gcfg.MaxLogLength, scorerLogger), nil
	case "openai":
		ocfg := cfg.OpenAI
		if ocfg == nil {
			ocfg = &OpenAIConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: ocfg.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY_FILE)", err)
		}

		scorerLogger := logger.WithFields(log, logger.CommonFields(provider, ocfg.Model)...)

		return openai.NewScorer(ocfg.BaseURL, apiKey, ocfg.Model, scorerLogger)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func exportRanked(jobs []ranking.RankedJob, path string, format export.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := export.WriteRanked(file, jobs, format); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
