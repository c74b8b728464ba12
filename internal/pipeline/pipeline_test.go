package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/job-hunter/internal/batch"
	"github.com/spigell/job-hunter/internal/filtering"
	"github.com/spigell/job-hunter/internal/jobs"
	"github.com/spigell/job-hunter/internal/ledger"
	"github.com/spigell/job-hunter/internal/scoring"
	"github.com/spigell/job-hunter/internal/skills"
)

var testNow = time.Date(2025, 1, 28, 12, 0, 0, 0, time.UTC)

const tavilyBatch = `{"query": "data analyst boston", "results": [
  {"title": "Data Analyst - Acme Health | LinkedIn",
   "url": "https://www.linkedin.com/jobs/view/data-analyst-at-acme-health-111",
   "content": "Location: Boston, MA. Python and SQL for clinical dashboards.",
   "published_date": "2025-01-26"},
  {"title": "34 Data Science jobs in Boston, MA",
   "url": "https://www.indeed.com/viewjob?jk=list"},
  {"title": "Research Analyst - Mass General - Indeed",
   "url": "https://www.indeed.com/viewjob?jk=222",
   "content": "Location: Boston, MA. Outcomes research with EHR data.",
   "published_date": "2025-01-27"}
]}`

const jsearchBatch = `{"status": "OK", "data": [
  {"job_title": "Data Analyst",
   "employer_name": "Acme Health",
   "job_apply_link": "https://www.indeed.com/viewjob?jk=333",
   "job_publisher": "Indeed",
   "job_posted_at_datetime_utc": "2025-01-27T10:00:00.000Z",
   "job_description": "SQL"},
  {"job_title": "Office Manager",
   "employer_name": "Plain Corp",
   "job_apply_link": "https://careers.plain.example/9",
   "job_publisher": "Plain Careers",
   "job_posted_at_datetime_utc": "2025-01-28T08:00:00.000Z",
   "job_description": "Scheduling"}
]}`

func writeBatch(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	return path
}

func newTestPipeline(log *zap.Logger, opts Options) *Pipeline {
	opts.Deps.Now = func() time.Time { return testNow }
	return New(log, opts)
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputs := []Input{
		{Provider: "tavily", Query: "data analyst boston", File: writeBatch(t, dir, "tavily.json", tavilyBatch)},
		{Provider: "jsearch", Query: "data analyst", File: writeBatch(t, dir, "jsearch.json", jsearchBatch)},
		{Provider: "monster", Query: "analyst", File: writeBatch(t, dir, "monster.json", `[{"title": "x"}]`)},
		{Provider: "jobspy", File: filepath.Join(dir, "missing.json")},
	}

	core, observed := observer.New(zapcore.DebugLevel)
	seen := ledger.NewSeen(jobs.URLIdentity("https://www.indeed.com/viewjob?jk=222"))

	p := newTestPipeline(zap.New(core), Options{
		Deps:     filtering.Deps{Seen: seen},
		Scorer:   scoring.New([]string{"python", "sql"}, nil),
		PostRank: []filtering.Filter{filtering.NewMinScore()},
		Filters:  &filtering.Config{MinScore: 1},
	})

	batches := p.Load(inputs)
	if len(batches) != 3 {
		t.Fatalf("expected 3 readable batches, got %d", len(batches))
	}
	if observed.FilterMessage("skipping unreadable batch").Len() != 1 {
		t.Fatalf("expected missing batch to be logged")
	}

	got, err := p.Run(context.Background(), batches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if observed.FilterMessage("skipping batch").Len() != 1 {
		t.Fatalf("expected unknown provider to be logged")
	}
	if observed.FilterMessage("dropping search result pages").Len() != 1 {
		t.Fatalf("expected result page rejection to be logged")
	}

	// the two data analyst postings collapse into the linkedin one, the
	// research analyst is already in the ledger and the office manager
	// scores zero
	if got.Len() != 1 {
		t.Fatalf("expected 1 job, got %d: %v", got.Len(), got.IDs())
	}
	job := got.Items[0]
	if job.Source != "linkedin" || job.Company != "Acme Health" {
		t.Fatalf("unexpected survivor %+v", job)
	}
	if !job.Scored() || job.MatchReason != "Matches: python, sql" {
		t.Fatalf("expected scored job, got %+v", job)
	}
	if job.ScrapedAt != "2025-01-28T12:00:00Z" {
		t.Fatalf("expected injected clock to stamp scraped_at, got %q", job.ScrapedAt)
	}
}

func TestProcessWithoutScorerSortsNewestFirst(t *testing.T) {
	t.Parallel()

	all := jobs.New(
		&jobs.Job{ID: "old", Title: "Old", URL: "https://x.example/1", PostedDate: "2025-01-20"},
		&jobs.Job{ID: "new", Title: "New", URL: "https://x.example/2", PostedDate: "2025-01-27"},
	)

	p := newTestPipeline(nil, Options{})
	got, err := p.Process(context.Background(), all)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := got.IDs()
	if len(ids) != 2 || ids[0] != "new" || ids[1] != "old" {
		t.Fatalf("unexpected order %v", ids)
	}
	if got.Items[0].Scored() {
		t.Fatalf("expected no scores without a scorer")
	}
}

func TestExtractKeepsBatchOrder(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(nil, Options{})
	all := p.Extract([]*batch.Batch{
		{Provider: "jobspy", Records: []map[string]any{{"title": "First", "job_url": "https://x.example/1"}}},
		{Provider: "jsearch", Records: []map[string]any{{"job_title": "Second", "job_apply_link": "https://x.example/2"}}},
	})

	if all.Len() != 2 || all.Items[0].Title != "First" || all.Items[1].Title != "Second" {
		t.Fatalf("unexpected extraction %v", all.IDs())
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(nil, Options{
		Scorer:   scoring.New(nil, nil),
		PostRank: []filtering.Filter{filtering.NewMinScore()},
	})

	statuses := p.Describe()
	if len(statuses) != 6 {
		t.Fatalf("expected 6 statuses, got %d", len(statuses))
	}
	if statuses[0].Name != "dedup" || statuses[5].Name != "min_score" {
		t.Fatalf("unexpected order %+v", statuses)
	}
}

func TestDescribeWithoutScorer(t *testing.T) {
	t.Parallel()

	postRank := []filtering.Filter{filtering.NewMinScore()}
	filtering.DisableByName(postRank, "min_score", "scoring is disabled")

	p := newTestPipeline(nil, Options{PostRank: postRank})

	statuses := p.Describe()
	if len(statuses) != 6 {
		t.Fatalf("expected 6 statuses, got %d", len(statuses))
	}
	last := statuses[5]
	if last.Name != "min_score" || last.Enabled || last.Reason != "scoring is disabled" {
		t.Fatalf("expected disabled min_score status, got %+v", last)
	}
}

func TestResolveProfile(t *testing.T) {
	t.Parallel()

	if got, src := ResolveProfile([]string{"go"}, "python resume"); src != ProfileExplicit || got[0] != "go" {
		t.Fatalf("expected explicit profile, got %v from %s", got, src)
	}

	got, src := ResolveProfile(nil, "Python and SQL")
	if src != ProfileResume || len(got) != 2 || got[0] != "python" || got[1] != "sql" {
		t.Fatalf("expected resume profile, got %v from %s", got, src)
	}

	got, src = ResolveProfile(nil, "   ")
	if src != ProfileFallback || len(got) != len(skills.Fallback) {
		t.Fatalf("expected fallback profile, got %v from %s", got, src)
	}
}

func TestLoadProfile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("Tableau and pandas"), 0o600); err != nil {
		t.Fatalf("write resume: %v", err)
	}

	got := LoadProfile(nil, nil, path)
	if len(got) != 2 || got[0] != "pandas" || got[1] != "tableau" {
		t.Fatalf("unexpected profile %v", got)
	}

	core, observed := observer.New(zapcore.InfoLevel)
	missing := LoadProfile(zap.New(core), nil, filepath.Join(dir, "absent.docx"))
	if len(missing) != len(skills.Fallback) {
		t.Fatalf("expected fallback profile for missing resume")
	}
	if observed.FilterMessage("could not read resume, using fallback skills").Len() != 1 {
		t.Fatalf("expected resume warning")
	}
}
