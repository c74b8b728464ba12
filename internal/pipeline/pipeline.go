// Package pipeline composes the stages of a run: raw batches are normalized,
// deduplicated, filtered against the ledger, sorted by recency and finally
// scored against the skill profile.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/job-hunter/internal/batch"
	"github.com/spigell/job-hunter/internal/extract"
	"github.com/spigell/job-hunter/internal/filtering"
	"github.com/spigell/job-hunter/internal/jobs"
	"github.com/spigell/job-hunter/internal/logger"
	"github.com/spigell/job-hunter/internal/scoring"
	"github.com/spigell/job-hunter/internal/utils"
)

const maxLoggedTitle = 80

// Input names one raw batch file and where it came from.
type Input struct {
	Provider string `mapstructure:"provider"`
	Query    string `mapstructure:"query"`
	File     string `mapstructure:"file"`
}

type Options struct {
	Filters *filtering.Config
	Deps    filtering.Deps
	// Steps run before sorting. Nil means filtering.Default(nil).
	Steps []filtering.Filter
	// Scorer ranks the sorted batch. Nil skips scoring and the post-rank steps.
	Scorer *scoring.Scorer
	// PostRank steps run on the ranked batch.
	PostRank []filtering.Filter
}

type Pipeline struct {
	logger *zap.Logger
	opts   Options
}

func New(log *zap.Logger, opts Options) *Pipeline {
	log = logger.WithFields(log)
	if opts.Filters == nil {
		opts.Filters = &filtering.Config{}
	}
	if opts.Steps == nil {
		opts.Steps = filtering.Default(nil)
	}
	if opts.Deps.Logger == nil {
		opts.Deps.Logger = log
	}
	if opts.Deps.Now == nil {
		opts.Deps.Now = time.Now
	}
	return &Pipeline{logger: log, opts: opts}
}

// Load reads every input. Inputs that cannot be read are logged and skipped.
func (p *Pipeline) Load(inputs []Input) []*batch.Batch {
	batches := make([]*batch.Batch, 0, len(inputs))
	for _, in := range inputs {
		log := logger.WithBatchFields(p.logger, in.Provider, in.Query, in.File)

		b, err := batch.Load(in.Provider, in.Query, in.File)
		if err != nil {
			log.Warn("skipping unreadable batch", zap.Error(err))
			continue
		}

		log.Debug("batch loaded", zap.Int("records", b.Len()))
		batches = append(batches, b)
	}
	return batches
}

// Extract normalizes all batches into one job list in batch order. Batches of
// unknown providers are logged and skipped.
func (p *Pipeline) Extract(batches []*batch.Batch) *jobs.Jobs {
	all := jobs.New()
	for _, b := range batches {
		log := logger.WithBatchFields(p.logger, b.Provider, b.Query, b.Path)

		ex, err := extract.For(b.Provider, extract.WithClock(p.opts.Deps.Now))
		if err != nil {
			log.Warn("skipping batch", zap.Error(err))
			continue
		}

		res := extract.NormalizeAll(ex, b.Records)
		if len(res.Rejected) > 0 {
			log.Info("dropping search result pages", zap.Int("rejected", len(res.Rejected)))
			log.Debug("rejected result pages", zap.Strings("titles", utils.TruncateAll(res.Rejected, maxLoggedTitle)))
		}
		log.Info("batch normalized", zap.Int("records", b.Len()), zap.Int("jobs", len(res.Jobs)))

		all.Items = append(all.Items, res.Jobs...)
	}
	return all
}

// Process filters, sorts and optionally ranks an extracted job list.
func (p *Pipeline) Process(ctx context.Context, all *jobs.Jobs) (*jobs.Jobs, error) {
	filtered, err := filtering.Run(ctx, p.opts.Filters, p.opts.Deps, p.opts.Steps, all)
	if err != nil {
		return nil, fmt.Errorf("filtering jobs: %w", err)
	}

	filtered.SortByPostedDate()

	if p.opts.Scorer == nil {
		return filtered, nil
	}

	ranked, err := p.opts.Scorer.Rank(filtered)
	if err != nil {
		return nil, fmt.Errorf("ranking jobs: %w", err)
	}
	p.logger.Info("jobs ranked", zap.Int("jobs", ranked.Len()), zap.Strings("profile", p.opts.Scorer.Profile()))

	if len(p.opts.PostRank) == 0 {
		return ranked, nil
	}

	kept, err := filtering.Run(ctx, p.opts.Filters, p.opts.Deps, p.opts.PostRank, ranked)
	if err != nil {
		return nil, fmt.Errorf("filtering ranked jobs: %w", err)
	}
	return kept, nil
}

// Run executes the whole chain over already loaded batches.
func (p *Pipeline) Run(ctx context.Context, batches []*batch.Batch) (*jobs.Jobs, error) {
	return p.Process(ctx, p.Extract(batches))
}

// Describe reports the status of every configured filter step, post-rank
// steps included.
func (p *Pipeline) Describe() []filtering.Status {
	steps := append([]filtering.Filter{}, p.opts.Steps...)
	steps = append(steps, p.opts.PostRank...)
	return filtering.Describe(steps)
}
