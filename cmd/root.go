package cmd

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/job-hunter/internal/filtering"
	"github.com/spigell/job-hunter/internal/pipeline"
)

const (
	app = "job-hunter"
)

type Config struct {
	Inputs  []pipeline.Input `mapstructure:"inputs"`
	Search  *SearchConfig    `mapstructure:"search"`
	Dedup   *DedupConfig     `mapstructure:"dedup"`
	Exclude *ExcludeConfig   `mapstructure:"exclude"`
	Ledger  *LedgerConfig    `mapstructure:"ledger"`
	Scoring *ScoringConfig   `mapstructure:"scoring"`
	Output  string           `mapstructure:"output"`
}

type SearchConfig struct {
	Remote bool          `mapstructure:"remote"`
	MaxAge time.Duration `mapstructure:"max-age"`
}

type DedupConfig struct {
	KeepUntitled bool `mapstructure:"keep-untitled"`
}

type ExcludeConfig struct {
	Companies []string `mapstructure:"companies"`
}

type LedgerConfig struct {
	Dir     string       `mapstructure:"dir"`
	Pattern string       `mapstructure:"pattern"`
	Redis   *RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	URLFile  string `mapstructure:"url-file"`
	Key      string `mapstructure:"key"`
	Remember bool   `mapstructure:"remember"`
}

type ScoringConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Resume   string   `mapstructure:"resume"`
	Skills   []string `mapstructure:"skills"`
	MinScore int      `mapstructure:"min-score"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-hunter turns raw job-board search results into a deduplicated, ranked list of new postings",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ledger.redis.url-file", "JOB_HUNTER_REDIS_URL_FILE"); err != nil {
		log.Fatalf("binding JOB_HUNTER_REDIS_URL_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-hunter.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("output", "o", "", "write the resulting jobs to this file")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

func initConfig() {
	// version does not need a config at all
	if runCmd.CalledAs() == "" && scoreCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	// score works from flags alone; run needs the inputs list
	if errors.As(err, &notFound) && scoreCmd.CalledAs() != "" {
		return
	}

	// We can't proceed if the config file parsed with error.
	if err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}
	if config == nil {
		config = &Config{}
	}

	config.Output = expandHome(config.Output)
	for i := range config.Inputs {
		config.Inputs[i].File = expandHome(config.Inputs[i].File)
	}
	if config.Ledger != nil {
		config.Ledger.Dir = expandHome(config.Ledger.Dir)
		if config.Ledger.Redis != nil {
			config.Ledger.Redis.URLFile = expandHome(config.Ledger.Redis.URLFile)
		}
	}
	if config.Scoring != nil {
		config.Scoring.Resume = expandHome(config.Scoring.Resume)
	}

	return config, nil
}

// filterConfig maps the file config onto the filter settings.
func (c *Config) filterConfig() *filtering.Config {
	cfg := &filtering.Config{}
	if c.Search != nil {
		cfg.RemoteOnly = c.Search.Remote
		cfg.MaxAge = c.Search.MaxAge
	}
	if c.Dedup != nil {
		cfg.KeepUntitled = c.Dedup.KeepUntitled
	}
	if c.Exclude != nil {
		cfg.Companies = c.Exclude.Companies
	}
	if c.Scoring != nil {
		cfg.MinScore = c.Scoring.MinScore
	}
	return cfg
}

// logsToStderr keeps stdout clean when the results themselves go there.
func logsToStderr() bool {
	return viper.GetString("output") == stdoutOutput
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
