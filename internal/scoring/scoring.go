// Package scoring rates postings against a skill profile.
package scoring

import (
	"errors"
	"slices"
	"strings"

	"github.com/spigell/job-hunter/internal/jobs"
)

const (
	PointsPerTerm = 5
	MaxScore      = 100
	maxReasonTerm = 6
)

// GeneralFit is the reason recorded when no profile term matched.
const GeneralFit = "General fit"

var ErrNoJobs = errors.New("no jobs to score")

// Rule awards Points once when any of its keywords appears in a posting.
type Rule struct {
	Keywords []string
	Points   int
}

var DefaultRules = []Rule{
	// role alignment
	{Keywords: []string{"data analyst", "data analysis"}, Points: 15},
	{Keywords: []string{"research analyst", "research data analyst"}, Points: 15},
	{Keywords: []string{"informatics analyst", "health informatics"}, Points: 15},
	{Keywords: []string{"clinical data analyst", "clinical analyst"}, Points: 15},
	{Keywords: []string{"data scientist", "data science"}, Points: 15},
	{Keywords: []string{"machine learning engineer", "ml engineer"}, Points: 10},
	// domain
	{Keywords: []string{"healthcare", "clinical", "medical", "health system"}, Points: 10},
	{Keywords: []string{"ehr", "electronic health record", "epic", "cerner", "omop", "i2b2", "fhir"}, Points: 10},
	{Keywords: []string{"research", "scientist"}, Points: 10},
	{Keywords: []string{"phd", "doctoral", "graduate"}, Points: 8},
	{Keywords: []string{"wearable", "sensor", "iot", "fitbit"}, Points: 8},
	// work arrangement
	{Keywords: []string{"remote", "hybrid"}, Points: 5},
}

type Scorer struct {
	profile []string
	rules   []Rule
}

// New builds a scorer. Profile terms are matched lowercase and counted once
// each. A nil rules slice means DefaultRules.
func New(profile []string, rules []Rule) *Scorer {
	if rules == nil {
		rules = DefaultRules
	}

	terms := make([]string, 0, len(profile))
	for _, term := range profile {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || slices.Contains(terms, term) {
			continue
		}
		terms = append(terms, term)
	}

	return &Scorer{profile: terms, rules: rules}
}

func (s *Scorer) Profile() []string {
	return slices.Clone(s.profile)
}

// Score returns the match score of a job in [0, 100] and a short reason
// naming the first matched profile terms.
func (s *Scorer) Score(job *jobs.Job) (int, string) {
	text := strings.ToLower(job.Title + " " + job.Description + " " + job.Company)

	score := 0
	var matches []string
	for _, term := range s.profile {
		if strings.Contains(text, term) {
			score += PointsPerTerm
			matches = append(matches, term)
		}
	}

	for _, rule := range s.rules {
		if containsAny(text, rule.Keywords) {
			score += rule.Points
		}
	}

	score = min(max(score, 0), MaxScore)

	if len(matches) == 0 {
		return score, GeneralFit
	}
	if len(matches) > maxReasonTerm {
		matches = matches[:maxReasonTerm]
	}
	return score, "Matches: " + strings.Join(matches, ", ")
}

// Rank scores copies of every job and orders them by score, highest first.
// Jobs with equal scores keep their input order. The input is not modified.
func (s *Scorer) Rank(batch *jobs.Jobs) (*jobs.Jobs, error) {
	if batch == nil {
		return nil, ErrNoJobs
	}

	ranked := make([]*jobs.Job, 0, batch.Len())
	for _, job := range batch.Items {
		scored := job.Copy()
		score, reason := s.Score(scored)
		scored.MatchScore = &score
		scored.MatchReason = reason
		ranked = append(ranked, scored)
	}

	slices.SortStableFunc(ranked, func(a, b *jobs.Job) int {
		return *b.MatchScore - *a.MatchScore
	})
	return jobs.New(ranked...), nil
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
