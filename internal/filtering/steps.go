package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-hunter/internal/dedup"
	"github.com/spigell/job-hunter/internal/jobs"
	"github.com/spigell/job-hunter/internal/ledger"
	"github.com/spigell/job-hunter/internal/scoring"
)

const includeSeenFlagMsg = "include-seen flag is set"

// Default returns the steps applied between extraction and sorting.
func Default(cmd *cobra.Command) []Filter {
	return []Filter{
		NewDedup(),
		NewSeenLedger(cmd),
		NewRecency(),
		NewRemoteOnly(),
		NewExcludedCompanies(),
	}
}

type dedupFilter struct {
	opts dedup.Options
}

// NewDedup creates a filter that collapses duplicate postings.
func NewDedup() Filter {
	return &dedupFilter{}
}

func (f *dedupFilter) Name() string { return "dedup" }

func (f *dedupFilter) Disable(string) {}

func (f *dedupFilter) IsEnabled() bool { return true }

func (f *dedupFilter) Validate(cfg *Config) error {
	f.opts = dedup.Options{KeepUntitled: cfg.KeepUntitled}
	return nil
}

func (f *dedupFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := v.Len()
	res := dedup.Deduplicate(v.Items, f.opts)

	if res.Untitled > 0 {
		deps.Logger.Warn("dropping jobs without a usable title", zap.Int("untitled", res.Untitled))
	}
	deps.Logger.Debug("deduplication passes",
		zap.Int("exact_dropped", res.ExactDropped),
		zap.Int("fuzzy_dropped", res.FuzzyDropped),
	)

	next := jobs.New(res.Jobs...)
	return next, Step{Initial: initial, Dropped: initial - next.Len(), Left: next.Len()}, nil
}

func (f *dedupFilter) Status() Status {
	details := map[string]string{
		"keep_untitled": strconv.FormatBool(f.opts.KeepUntitled),
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type seenLedgerFilter struct {
	ignore bool
}

// NewSeenLedger creates a filter that removes jobs already recorded in the ledger.
func NewSeenLedger(cmd *cobra.Command) Filter {
	ignore := false
	if cmd != nil {
		flag := cmd.Flag("include-seen")
		if flag != nil && strings.EqualFold(flag.Value.String(), "true") {
			ignore = true
		}
	}
	return &seenLedgerFilter{ignore: ignore}
}

func (f *seenLedgerFilter) Name() string { return "seen_ledger" }

func (f *seenLedgerFilter) Disable(string) {}

func (f *seenLedgerFilter) IsEnabled() bool { return true }

func (f *seenLedgerFilter) Validate(*Config) error { return nil }

func (f *seenLedgerFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	if f.ignore {
		deps.Logger.Info("keeping already seen jobs", zap.String("reason", includeSeenFlagMsg))
		return v, unchanged(v), nil
	}

	initial := v.Len()
	next := jobs.New(ledger.Filter(v.Items, deps.Seen)...)
	dropped := initial - next.Len()
	if dropped > 0 {
		deps.Logger.Info("excluding previously seen jobs",
			zap.Int("seen_ids", deps.Seen.Len()),
			zap.Int("jobs_left", next.Len()),
		)
	}

	return next, Step{Initial: initial, Dropped: dropped, Left: next.Len()}, nil
}

func (f *seenLedgerFilter) Status() Status {
	details := map[string]string{
		"exclude_seen": strconv.FormatBool(!f.ignore),
	}
	reason := ""
	if f.ignore {
		reason = "skip requested via flag"
	}
	return Status{Name: f.Name(), Enabled: true, Reason: reason, Details: details}
}

type recencyFilter struct {
	cfg *Config
}

// NewRecency creates a filter that removes jobs posted before the configured max age.
// Jobs whose posting date cannot be parsed are kept.
func NewRecency() Filter {
	return &recencyFilter{}
}

func (f *recencyFilter) Name() string { return "recency" }

func (f *recencyFilter) Disable(string) {}

func (f *recencyFilter) IsEnabled() bool { return true }

func (f *recencyFilter) Validate(cfg *Config) error {
	if cfg.MaxAge < 0 {
		return fmt.Errorf("max age must not be negative, got %s", cfg.MaxAge)
	}
	f.cfg = cfg
	return nil
}

func (f *recencyFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	if f.cfg == nil || f.cfg.MaxAge == 0 {
		return v, unchanged(v), nil
	}

	initial := v.Len()
	now := deps.Now()
	next, excluded := v.Without(func(job *jobs.Job) bool {
		return !jobs.WithinWindow(job.PostedDate, f.cfg.MaxAge, now)
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding stale jobs",
			zap.Duration("max_age", f.cfg.MaxAge),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", next.Len()),
		)
	}

	return next, Step{Initial: initial, Dropped: len(excluded), Left: next.Len()}, nil
}

func (f *recencyFilter) Status() Status {
	details := map[string]string{}
	if f.cfg != nil && f.cfg.MaxAge > 0 {
		details["max_age"] = f.cfg.MaxAge.String()
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type remoteOnlyFilter struct {
	active bool
}

// NewRemoteOnly creates a filter that keeps remote jobs only when remote search is configured.
func NewRemoteOnly() Filter {
	return &remoteOnlyFilter{}
}

func (f *remoteOnlyFilter) Name() string { return "remote_only" }

func (f *remoteOnlyFilter) Disable(string) {}

func (f *remoteOnlyFilter) IsEnabled() bool { return true }

func (f *remoteOnlyFilter) Validate(cfg *Config) error {
	f.active = cfg.RemoteOnly
	return nil
}

func (f *remoteOnlyFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	if !f.active {
		return v, unchanged(v), nil
	}

	initial := v.Len()
	next, excluded := v.Without(func(job *jobs.Job) bool {
		return !job.Remote && !strings.Contains(strings.ToLower(job.Location), "remote")
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding on-site jobs",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", next.Len()),
		)
	}

	return next, Step{Initial: initial, Dropped: len(excluded), Left: next.Len()}, nil
}

func (f *remoteOnlyFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"remote_only": strconv.FormatBool(f.active),
	}}
}

type excludedCompaniesFilter struct {
	companies []string
}

// NewExcludedCompanies creates a filter that removes jobs by companies configured in the config.
func NewExcludedCompanies() Filter {
	return &excludedCompaniesFilter{}
}

func (f *excludedCompaniesFilter) Name() string { return "exclude_companies" }

func (f *excludedCompaniesFilter) Disable(string) {}

func (f *excludedCompaniesFilter) IsEnabled() bool { return true }

func (f *excludedCompaniesFilter) Validate(cfg *Config) error {
	f.companies = nil
	for _, company := range cfg.Companies {
		if company = strings.TrimSpace(company); company != "" {
			f.companies = append(f.companies, company)
		}
	}
	return nil
}

func (f *excludedCompaniesFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	if len(f.companies) == 0 {
		return v, unchanged(v), nil
	}

	initial := v.Len()
	next, excluded := v.Without(func(job *jobs.Job) bool {
		company := strings.TrimSpace(job.Company)
		for _, c := range f.companies {
			if strings.EqualFold(company, c) {
				return true
			}
		}
		return false
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding jobs by companies",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", next.Len()),
		)
	}

	return next, Step{Initial: initial, Dropped: len(excluded), Left: next.Len()}, nil
}

func (f *excludedCompaniesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type minScoreFilter struct {
	disabled bool
	reason   string
	minimum  int
}

// NewMinScore creates a filter that removes scored jobs below the configured minimum.
// It runs after ranking; unscored jobs pass through.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minScoreFilter) Validate(cfg *Config) error {
	if cfg.MinScore < 0 || cfg.MinScore > scoring.MaxScore {
		return fmt.Errorf("minimum score must be within 0..%d, got %d", scoring.MaxScore, cfg.MinScore)
	}
	f.minimum = cfg.MinScore
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	if f.minimum == 0 {
		return v, unchanged(v), nil
	}

	initial := v.Len()
	next, excluded := v.Without(func(job *jobs.Job) bool {
		return job.Scored() && *job.MatchScore < f.minimum
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding jobs below minimum score",
			zap.Int("min_score", f.minimum),
			zap.Int("excluded", len(excluded)),
			zap.Int("jobs_left", next.Len()),
		)
	}

	return next, Step{Initial: initial, Dropped: len(excluded), Left: next.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	details := map[string]string{
		"min_score": strconv.Itoa(f.minimum),
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
