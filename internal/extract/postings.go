package extract

import (
	"regexp"
	"strings"
)

// Search and listing pages that web search returns next to real postings.
var listingURLs = []*regexp.Regexp{
	regexp.MustCompile(`indeed\.com/q-`),
	regexp.MustCompile(`indeed\.com/jobs\?`),
	regexp.MustCompile(`indeed\.com/m/`),
	regexp.MustCompile(`glassdoor\.com/job/.*srch_`),
	regexp.MustCompile(`glassdoor\.com/jobs/`),
	regexp.MustCompile(`linkedin\.com/jobs/search/`),
	regexp.MustCompile(`linkedin\.com/jobs/[a-z-]+jobs`),
	regexp.MustCompile(`wellfound\.com/jobs$`),
	regexp.MustCompile(`builtin\.com/jobs`),
}

var listingTitles = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\s+\w`),
	regexp.MustCompile(`\bjobs? in\b.*(remote|boston|ma)`),
	regexp.MustCompile(`\bjob openings? from\b`),
	regexp.MustCompile(`\bjobs?,?\s+employment\b`),
	regexp.MustCompile(`^flexible .+ jobs?$`),
	regexp.MustCompile(`^remote .+ jobs? in\b`),
	regexp.MustCompile(`browse \d+`),
	regexp.MustCompile(`search .+ jobs? in\b`),
}

// IsIndividualPosting reports whether a search hit points at a single job
// posting rather than a board's search or listing page.
func IsIndividualPosting(url, title string) bool {
	url = strings.ToLower(url)
	for _, pattern := range listingURLs {
		if pattern.MatchString(url) {
			return false
		}
	}

	title = strings.ToLower(title)
	for _, pattern := range listingTitles {
		if pattern.MatchString(title) {
			return false
		}
	}
	return true
}
