package jobs

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Job is the canonical job record every provider is normalized into.
type Job struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	URL             string `json:"url"`
	PostedDate      string `json:"posted_date"`
	Salary          string `json:"salary"`
	EmploymentType  string `json:"employment_type"`
	ExperienceLevel string `json:"experience_level"`
	Remote          bool   `json:"remote"`
	Source          string `json:"source"`
	ScrapedAt       string `json:"scraped_at"`
	MatchScore      *int   `json:"match_score,omitempty"`
	MatchReason     string `json:"match_reason,omitempty"`
}

type Jobs struct {
	Items []*Job
}

// New wraps items into a batch.
func New(items ...*Job) *Jobs {
	return &Jobs{Items: items}
}

// Scored reports whether the scorer has already run on the job.
func (j *Job) Scored() bool {
	return j.MatchScore != nil
}

// Copy returns a shallow copy of the job with its own score pointer.
func (j *Job) Copy() *Job {
	c := *j
	if j.MatchScore != nil {
		score := *j.MatchScore
		c.MatchScore = &score
	}
	return &c
}

func (v *Jobs) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Items)
}

func (v *Jobs) IDs() []string {
	ids := make([]string, 0, v.Len())
	for _, job := range v.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

// Without returns a new batch without the jobs matching drop, plus the IDs
// of the dropped jobs in batch order.
func (v *Jobs) Without(drop func(*Job) bool) (*Jobs, []string) {
	kept := make([]*Job, 0, v.Len())
	var dropped []string
	for _, job := range v.Items {
		if drop(job) {
			dropped = append(dropped, job.ID)
			continue
		}
		kept = append(kept, job)
	}
	return &Jobs{Items: kept}, dropped
}

// SortByPostedDate orders the batch newest first. Dates are compared as strings,
// which is chronological for ISO-8601 values; empty dates go last.
func (v *Jobs) SortByPostedDate() {
	slices.SortStableFunc(v.Items, func(a, b *Job) int {
		return strings.Compare(b.PostedDate, a.PostedDate)
	})
}

// ReportBySource groups short job summaries by their source tag.
func (v *Jobs) ReportBySource() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range v.Items {
		key := job.Source
		if key == "" {
			key = "unknown"
		}

		entry := map[string]string{
			"title":    job.Title,
			"company":  job.Company,
			"location": job.Location,
			"url":      job.URL,
		}
		if job.Salary != "" {
			entry["salary"] = job.Salary
		}
		if job.Scored() {
			entry["match_score"] = fmt.Sprintf("%d", *job.MatchScore)
			entry["match_reason"] = job.MatchReason
		}

		report[key] = append(report[key], entry)
	}
	return report
}

func (v *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := v.Encode(file); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (v *Jobs) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	return v.Encode(file)
}

// Encode writes the batch as an indented JSON array.
func (v *Jobs) Encode(w io.Writer) error {
	items := v.Items
	if items == nil {
		items = []*Job{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(items)
}

// FromFile reads a JSON array of canonical jobs. Files ending in .gz are decompressed.
func FromFile(path string) (*Jobs, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var body io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var items []*Job
	if err := json.NewDecoder(body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding jobs from %s: %w", path, err)
	}

	items = slices.DeleteFunc(items, func(j *Job) bool { return j == nil })
	return &Jobs{Items: items}, nil
}
