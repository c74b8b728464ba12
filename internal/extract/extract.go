// Package extract turns raw provider records into canonical job records.
//
// Each provider ships its own payload shape, so every provider gets its own
// Extractor. Extraction is best-effort: a field that cannot be recovered is
// left empty and the record is still produced.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spigell/job-hunter/internal/jobs"
)

const (
	ProviderJobSpy  = "jobspy"
	ProviderJSearch = "jsearch"
	ProviderTavily  = "tavily"
)

var ErrUnknownProvider = errors.New("unknown provider")

// Record is one raw provider record as decoded from JSON.
type Record = map[string]any

// Extractor maps raw records of a single provider to canonical jobs.
type Extractor interface {
	Provider() string
	// Accept reports whether the record is an individual posting.
	// Rejected records never reach Normalize.
	Accept(raw Record) bool
	Normalize(raw Record) *jobs.Job
}

type Option func(*clock)

// WithClock overrides the time source used for scraped_at.
func WithClock(now func() time.Time) Option {
	return func(c *clock) {
		c.now = now
	}
}

type clock struct {
	now func() time.Time
}

func newClock(opts []Option) clock {
	c := clock{now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// finish stamps the capture time and identity once all fields are set.
func (c clock) finish(job *jobs.Job) *jobs.Job {
	job.ScrapedAt = c.now().UTC().Format(time.RFC3339)
	job.ID = jobs.GenerateID(job)
	return job
}

// Providers lists the provider tags For understands.
func Providers() []string {
	return []string{ProviderJobSpy, ProviderJSearch, ProviderTavily}
}

// For returns the extractor registered for a provider tag.
func For(provider string, opts ...Option) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderJobSpy:
		return NewJobSpy(opts...), nil
	case ProviderJSearch:
		return NewJSearch(opts...), nil
	case ProviderTavily:
		return NewTavily(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

// Result is the outcome of normalizing one batch.
type Result struct {
	Jobs     []*jobs.Job
	Rejected []string
}

// NormalizeAll runs the result-page filter and normalization over a batch.
// Rejected holds the raw titles of records that were not individual postings.
func NormalizeAll(ex Extractor, records []Record) Result {
	res := Result{Jobs: make([]*jobs.Job, 0, len(records))}
	for _, raw := range records {
		if raw == nil {
			continue
		}
		if !ex.Accept(raw) {
			title, _ := raw["title"].(string)
			res.Rejected = append(res.Rejected, title)
			continue
		}
		res.Jobs = append(res.Jobs, ex.Normalize(raw))
	}
	return res
}
