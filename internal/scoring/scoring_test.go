package scoring

import (
	"errors"
	"testing"

	"github.com/spigell/job-hunter/internal/jobs"
)

func TestScoreExample(t *testing.T) {
	t.Parallel()

	s := New([]string{"python", "sql"}, nil)
	score, reason := s.Score(&jobs.Job{
		Title:       "Remote Engineer",
		Description: "Python and SQL",
	})

	if score != 15 {
		t.Fatalf("expected 15, got %d", score)
	}
	if reason != "Matches: python, sql" {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestScoreGeneralFit(t *testing.T) {
	t.Parallel()

	score, reason := New([]string{"kotlin"}, nil).Score(&jobs.Job{Title: "Office Manager"})
	if score != 0 || reason != GeneralFit {
		t.Fatalf("expected 0 and general fit, got %d %q", score, reason)
	}
}

func TestScoreCountsTermsOnce(t *testing.T) {
	t.Parallel()

	s := New([]string{"Python", " python ", "", "sql"}, []Rule{})
	score, reason := s.Score(&jobs.Job{Description: "python python sql"})
	if score != 10 {
		t.Fatalf("expected each term counted once, got %d", score)
	}
	if reason != "Matches: python, sql" {
		t.Fatalf("unexpected reason %q", reason)
	}
	if len(s.Profile()) != 2 {
		t.Fatalf("expected normalized profile, got %v", s.Profile())
	}
}

func TestScoreClampedAndReasonTruncated(t *testing.T) {
	t.Parallel()

	profile := []string{"python", "sql", "pandas", "tableau", "aws", "statistics", "pytorch", "ehr"}
	job := &jobs.Job{
		Title:       "Clinical Data Analyst, Research Data Scientist",
		Description: "python sql pandas tableau aws statistics pytorch ehr healthcare epic phd wearable remote health informatics",
		Company:     "Academic Medical Center",
	}

	score, reason := New(profile, nil).Score(job)
	if score != MaxScore {
		t.Fatalf("expected clamp to %d, got %d", MaxScore, score)
	}
	if reason != "Matches: python, sql, pandas, tableau, aws, statistics" {
		t.Fatalf("expected first six matches, got %q", reason)
	}

	negative, _ := New(nil, []Rule{{Keywords: []string{"unpaid"}, Points: -40}}).Score(&jobs.Job{Title: "Unpaid intern"})
	if negative != 0 {
		t.Fatalf("expected clamp to 0, got %d", negative)
	}
}

func TestScoreMonotonic(t *testing.T) {
	t.Parallel()

	s := New([]string{"python", "sql", "tableau"}, nil)
	base := &jobs.Job{Title: "Analyst", Description: "python"}
	richer := &jobs.Job{Title: "Analyst", Description: "python sql tableau"}

	a, _ := s.Score(base)
	b, _ := s.Score(richer)
	if b < a {
		t.Fatalf("expected more matched terms never to lower the score: %d < %d", b, a)
	}
}

func TestRank(t *testing.T) {
	t.Parallel()

	low := &jobs.Job{ID: "low", Title: "Office Manager"}
	tieA := &jobs.Job{ID: "tie-a", Title: "Python developer"}
	high := &jobs.Job{ID: "high", Title: "Data Analyst", Description: "python sql"}
	tieB := &jobs.Job{ID: "tie-b", Title: "SQL developer"}

	batch := jobs.New(low, tieA, high, tieB)
	ranked, err := New([]string{"python", "sql"}, nil).Rank(batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := ranked.IDs()
	expect := []string{"high", "tie-a", "tie-b", "low"}
	for i := range expect {
		if ids[i] != expect[i] {
			t.Fatalf("expected order %v, got %v", expect, ids)
		}
	}

	if low.Scored() || high.Scored() {
		t.Fatalf("expected input records to stay unscored")
	}
	if got := ranked.Items[0]; got == high || *got.MatchScore != 25 {
		t.Fatalf("expected scored copy with 25 points, got %+v", got)
	}
}

func TestRankNil(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, nil).Rank(nil); !errors.Is(err, ErrNoJobs) {
		t.Fatalf("expected ErrNoJobs, got %v", err)
	}

	empty, err := New(nil, nil).Rank(jobs.New())
	if err != nil || empty.Len() != 0 {
		t.Fatalf("expected empty ranking, got %d, %v", empty.Len(), err)
	}
}
