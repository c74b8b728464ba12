package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-hunter/internal/filtering"
	"github.com/spigell/job-hunter/internal/jobs"
	"github.com/spigell/job-hunter/internal/ledger"
	"github.com/spigell/job-hunter/internal/logger"
	"github.com/spigell/job-hunter/internal/pipeline"
	"github.com/spigell/job-hunter/internal/scoring"
	"github.com/spigell/job-hunter/internal/secrets"
)

const (
	PromptYes            = "Yes"
	PromptNo             = "No"
	PromptReportBySource = "Report by source"
	PromptJobsToFile     = "Dump jobs to file"

	stdoutOutput  = "-"
	redisDeadline = 5 * time.Second
	redisURLEnv   = "JOB_HUNTER_REDIS_URL"

	scoringDisabledMsg = "scoring is disabled"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo, PromptReportBySource, PromptJobsToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Normalize, deduplicate, filter and rank the configured batches",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("include-seen", "s", false, "do not exclude jobs already recorded in the ledger")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before writing the results")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), logsToStderr())
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-hunter", zap.String("version", resolvedVersion()))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if len(config.Inputs) == 0 {
		logger.Fatal("at least one batch is required under inputs")
	}

	if logsToStderr() {
		prompt.Stdout = os.Stderr
	}

	seen, mirror, closeMirror := loadLedger(ctx, config, logger)
	defer closeMirror()

	scorer := prepareScorer(config, logger)
	p := pipeline.New(logger, pipeline.Options{
		Filters:  config.filterConfig(),
		Deps:     filtering.Deps{Seen: seen},
		Steps:    filtering.Default(cmd),
		Scorer:   scorer,
		PostRank: postRankSteps(scorer),
	})

	for _, status := range p.Describe() {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	batches := p.Load(config.Inputs)
	if len(batches) == 0 {
		logger.Info("exiting", zap.String("reason", "no readable batches"))
		return
	}

	result, err := p.Run(ctx, batches)
	if err != nil {
		logger.Fatal("processing batches failed", zap.Error(err))
	}

	if result.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs left after filters"))
		return
	}

	for {
		action := PromptYes
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of jobs", zap.Int("count", result.Len()))

		if err := handleAction(ctx, action, logger, config, result, mirror); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, logger *zap.Logger, config *Config, result *jobs.Jobs, mirror *ledger.RedisSource) error {
	switch action {
	case PromptYes:
		if err := writeOutput(result, config.Output, logger); err != nil {
			return err
		}
		remember(ctx, config, mirror, result, logger)
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportBySource:
		pretty, _ := json.MarshalIndent(result.ReportBySource(), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", result.Len()))
		return nil
	case PromptJobsToFile:
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// writeOutput writes the jobs to path, to stdout for "-", or to a temp file
// when no path is configured.
func writeOutput(result *jobs.Jobs, path string, logger *zap.Logger) error {
	switch path {
	case "":
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("no output configured, results written to temp file", zap.String("filename", filename))
	case stdoutOutput:
		if err := result.Encode(os.Stdout); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	default:
		if err := result.ToFile(path); err != nil {
			return fmt.Errorf("write results to %s: %w", path, err)
		}
		logger.Info("results written", zap.String("output", path), zap.Int("count", result.Len()))
	}
	return nil
}

// loadLedger builds the seen set from the tracker directory and, when
// configured, the Redis mirror. Ledger problems never stop a run.
func loadLedger(ctx context.Context, config *Config, logger *zap.Logger) (ledger.Seen, *ledger.RedisSource, func()) {
	noop := func() {}
	if config.Ledger == nil {
		logger.Info("ledger is not configured, every job is treated as new")
		return ledger.NewSeen(), nil, noop
	}

	seen, err := ledger.LoadDir(config.Ledger.Dir, config.Ledger.Pattern)
	if err != nil {
		logger.Warn("reading ledger", zap.Error(err))
	}
	logger.Info("ledger loaded", zap.String("dir", config.Ledger.Dir), zap.Int("seen", seen.Len()))

	redisCfg := config.Ledger.Redis
	if redisCfg == nil {
		return seen, nil, noop
	}

	src := secrets.Source{
		Name: "redis url",
		Env:  redisURLEnv,
		File: redisCfg.URLFile,
	}
	if !src.Configured() {
		return seen, nil, noop
	}

	url, err := secrets.Load(src)
	if err != nil {
		logger.Warn("skipping redis ledger",
			zap.Error(err),
			zap.String("hint", "set JOB_HUNTER_REDIS_URL_FILE or JOB_HUNTER_REDIS_URL environment variable, or the 'ledger.redis.url-file' key in the configuration file"),
		)
		return seen, nil, noop
	}

	connectCtx, cancel := context.WithTimeout(ctx, redisDeadline)
	defer cancel()

	client, err := ledger.Connect(connectCtx, url)
	if err != nil {
		logger.Warn("skipping redis ledger", zap.Error(err))
		return seen, nil, noop
	}

	mirror := ledger.NewRedisSource(client, redisCfg.Key)
	mirrored, err := mirror.Load(connectCtx)
	if err != nil {
		logger.Warn("reading redis ledger", zap.Error(err))
	}
	seen.Merge(mirrored)
	logger.Info("redis ledger loaded", zap.String("key", mirror.Key()), zap.Int("seen", seen.Len()))

	return seen, mirror, func() {
		if err := client.Close(); err != nil {
			logger.Debug("closing redis client", zap.Error(err))
		}
	}
}

func remember(ctx context.Context, config *Config, mirror *ledger.RedisSource, result *jobs.Jobs, logger *zap.Logger) {
	if mirror == nil || config.Ledger == nil || config.Ledger.Redis == nil || !config.Ledger.Redis.Remember {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, redisDeadline)
	defer cancel()

	added, err := mirror.Remember(ctx, result.IDs())
	if err != nil {
		logger.Warn("remembering surfaced jobs", zap.Error(err))
		return
	}
	logger.Info("surfaced jobs remembered", zap.String("key", mirror.Key()), zap.Int64("added", added))
}

// postRankSteps returns the steps run on the ranked batch. They stay listed
// but disabled when there is no scorer.
func postRankSteps(scorer *scoring.Scorer) []filtering.Filter {
	steps := []filtering.Filter{filtering.NewMinScore()}
	if scorer == nil {
		filtering.DisableByName(steps, "min_score", scoringDisabledMsg)
	}
	return steps
}

// prepareScorer returns nil when scoring is disabled.
func prepareScorer(config *Config, logger *zap.Logger) *scoring.Scorer {
	if config.Scoring == nil || !config.Scoring.Enabled {
		logger.Info("scoring is disabled, jobs stay sorted by recency")
		return nil
	}

	profile := pipeline.LoadProfile(logger, config.Scoring.Skills, config.Scoring.Resume)
	return scoring.New(profile, nil)
}
