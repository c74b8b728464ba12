package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-hunter/internal/filtering"
	"github.com/spigell/job-hunter/internal/jobs"
	"github.com/spigell/job-hunter/internal/logger"
	"github.com/spigell/job-hunter/internal/pipeline"
	"github.com/spigell/job-hunter/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score and rank an existing jobs file against the skill profile",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("input", "i", "", "jobs JSON file to score (required)")
	scoreCmd.Flags().StringP("resume", "r", "", "resume file (.docx, .pdf or text) to derive the skill profile from")
	scoreCmd.Flags().StringSlice("skills", nil, "explicit skill profile, overrides the resume")
	scoreCmd.Flags().Int("min-score", 0, "drop jobs scoring below this value")

	viper.BindPFlag("scoring.resume", scoreCmd.Flags().Lookup("resume"))
	viper.BindPFlag("scoring.skills", scoreCmd.Flags().Lookup("skills"))
	viper.BindPFlag("scoring.min-score", scoreCmd.Flags().Lookup("min-score"))
}

func score(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), logsToStderr())
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	input := expandHome(cmd.Flag("input").Value.String())
	if input == "" {
		logger.Fatal("jobs input is required", zap.String("hint", "pass the jobs file with --input"))
	}

	batch, err := jobs.FromFile(input)
	if err != nil {
		logger.Fatal("reading jobs", zap.String("input", input), zap.Error(err))
	}
	logger.Info("jobs loaded", zap.String("input", input), zap.Int("count", batch.Len()))

	scoringCfg := config.Scoring
	if scoringCfg == nil {
		scoringCfg = &ScoringConfig{}
	}

	profile := pipeline.LoadProfile(logger, scoringCfg.Skills, scoringCfg.Resume)
	ranked, err := scoring.New(profile, nil).Rank(batch)
	if err != nil {
		logger.Fatal("ranking jobs", zap.Error(err))
	}

	ranked, err = filtering.Run(ctx,
		&filtering.Config{MinScore: scoringCfg.MinScore},
		filtering.Deps{Logger: logger},
		[]filtering.Filter{filtering.NewMinScore()},
		ranked,
	)
	if err != nil {
		logger.Fatal("filtering ranked jobs", zap.Error(err))
	}

	if err := writeOutput(ranked, config.Output, logger); err != nil {
		logger.Fatal("writing results", zap.Error(err))
	}
}
