// Package dedup collapses duplicate postings that arrive from several
// providers or several queries in one run.
package dedup

import (
	"regexp"
	"strings"

	"github.com/spigell/job-hunter/internal/jobs"
)

// UnknownSourceRank is the rank of any board without an explicit preference.
const UnknownSourceRank = 99

var sourceRanks = map[string]int{
	"linkedin":  0,
	"indeed":    1,
	"glassdoor": 2,
	"builtin":   3,
	"wellfound": 4,
}

var (
	titleNoise  = regexp.MustCompile(`[^a-z0-9 ]`)
	titleSpaces = regexp.MustCompile(` +`)
)

type Options struct {
	// KeepUntitled passes records without a usable title through instead
	// of dropping them.
	KeepUntitled bool
}

type Result struct {
	Jobs         []*jobs.Job
	ExactDropped int
	FuzzyDropped int
	Untitled     int
}

// SourceRank orders boards by preference; lower wins.
func SourceRank(source string) int {
	if rank, ok := sourceRanks[source]; ok {
		return rank
	}
	return UnknownSourceRank
}

// NormalizeTitle builds the fuzzy matching key of a title.
func NormalizeTitle(title string) string {
	key := titleNoise.ReplaceAllString(strings.ToLower(title), "")
	return strings.TrimSpace(titleSpaces.ReplaceAllString(key, " "))
}

// Deduplicate runs two passes. The first keeps the first record of every
// distinct URL; all URL-less records share one bucket, so only the first of
// them survives. The second groups the survivors by normalized title and
// keeps the record from the most preferred board, the earliest one on ties.
// Groups come out in the order their key was first seen.
func Deduplicate(items []*jobs.Job, opts Options) Result {
	var res Result

	seenURLs := make(map[string]struct{}, len(items))
	unique := make([]*jobs.Job, 0, len(items))
	for _, job := range items {
		if job == nil {
			continue
		}
		url := strings.TrimSpace(job.URL)
		if _, ok := seenURLs[url]; ok {
			res.ExactDropped++
			continue
		}
		seenURLs[url] = struct{}{}
		unique = append(unique, job)
	}

	// slots holds one entry per group key plus untitled pass-throughs,
	// in first-seen order.
	slots := make([]*jobs.Job, 0, len(unique))
	groups := make(map[string]int, len(unique))
	for _, job := range unique {
		key := NormalizeTitle(job.Title)
		if key == "" {
			if opts.KeepUntitled {
				slots = append(slots, job)
			} else {
				res.Untitled++
			}
			continue
		}

		idx, ok := groups[key]
		if !ok {
			groups[key] = len(slots)
			slots = append(slots, job)
			continue
		}

		res.FuzzyDropped++
		if SourceRank(job.Source) < SourceRank(slots[idx].Source) {
			slots[idx] = job
		}
	}

	res.Jobs = slots
	return res
}
