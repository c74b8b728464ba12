package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/job-hunter/internal/jobs"
)

type tavilyResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	RawContent    string `json:"raw_content"`
	PublishedDate string `json:"published_date"`
}

var siteSuffixes = []string{
	" | LinkedIn",
	" - Indeed",
	" | Indeed.com",
	" - Glassdoor",
	" | Glassdoor",
	" | Built In",
	" | Wellfound",
}

var titleSeparators = []string{" - ", " at "}

var sourceDomains = []struct {
	domain string
	source string
}{
	{"linkedin.com", "linkedin"},
	{"indeed.com", "indeed"},
	{"glassdoor.com", "glassdoor"},
	{"builtin.com", "builtin"},
	{"wellfound.com", "wellfound"},
}

var (
	trailingJobID      = regexp.MustCompile(`-\d+$`)
	locationLike       = regexp.MustCompile(`^\d|^(remote|boston|new york|san francisco|chicago)`)
	atCompany          = regexp.MustCompile(`\bat\s+([A-Z][A-Za-z0-9&'\-,. ]{2,50})(?:\s*[|\n(]|$)`)
	companyStopWords   = regexp.MustCompile(`\b(least|years?|experience|remote|boston|all|our|the|a)\b`)
	companyBoilerplate = regexp.MustCompile(`\$|http|jobs?|remote|apply|indeed|glassdoor|linkedin|\d{5}|boston|\bthe\b|\ba\b|additional|full job`)
	capitalized        = regexp.MustCompile(`^[A-Z]`)

	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:location|where)\s*[:\-]\s*(.+?)(?:\n|\.|\|)`),
		regexp.MustCompile(`(?i)((?:Remote|Hybrid|On-site)\s*(?:in\s+)?[\w\s,]+(?:,\s*[A-Z]{2})?)`),
		regexp.MustCompile(`(?i)([\w\s]+,\s*[A-Z]{2}\s*\d{5})`),
		regexp.MustCompile(`(?i)([\w\s]+,\s*[A-Z]{2})(?:\s|\.|\n|\|)`),
	}

	salaryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\$[\d,]+(?:k|\s*K)?\s*[-–]\s*\$[\d,]+(?:k|\s*K)?(?:\s*(?:per\s+)?(?:year|yr|annually|a\s+year))?`),
		regexp.MustCompile(`(?i)\$[\d,]+(?:k|\s*K)?(?:\s*(?:per\s+)?(?:year|yr|annually|a\s+year|hour|hr))`),
	}
)

const (
	maxLocationLen    = 80
	maxCompanyLen     = 60
	companyLineMin    = 5
	companyLineWindow = 15
)

var titleCase = cases.Title(language.English)

// Tavily mines job fields out of general web-search results. Nothing in a
// search hit is structured, so every field comes from the hit title, its
// snippet or the raw page text.
type Tavily struct {
	clock
}

func NewTavily(opts ...Option) *Tavily {
	return &Tavily{clock: newClock(opts)}
}

func (e *Tavily) Provider() string { return ProviderTavily }

func (e *Tavily) Accept(raw Record) bool {
	var r tavilyResult
	_ = decode(raw, &r)
	return IsIndividualPosting(r.URL, r.Title)
}

func (e *Tavily) Normalize(raw Record) *jobs.Job {
	var r tavilyResult
	_ = decode(raw, &r)

	r.Content = plainText(r.Content)
	r.RawContent = pageText(r.RawContent, r.URL)

	title := ExtractTitle(r.Title)
	location := ExtractLocation(r.Content, r.RawContent)

	return e.finish(&jobs.Job{
		Title:       title,
		Company:     ExtractCompany(r.Title, r.URL, r.Content, r.RawContent),
		Location:    location,
		Description: r.Content,
		URL:         strings.TrimSpace(r.URL),
		PostedDate:  strings.TrimSpace(r.PublishedDate),
		Salary:      ExtractSalary(r.Content, r.RawContent),
		Remote:      strings.Contains(strings.ToLower(title+" "+location+" "+r.Content), "remote"),
		Source:      DetectSource(r.URL),
	})
}

func stripSiteSuffixes(title string) string {
	for _, suffix := range siteSuffixes {
		title = strings.TrimSuffix(title, suffix)
	}
	return title
}

// ExtractTitle keeps the job title part of a search hit title such as
// "Data Scientist - Acme | LinkedIn" or "Analyst at Acme - Glassdoor".
func ExtractTitle(hitTitle string) string {
	title := stripSiteSuffixes(hitTitle)
	for _, sep := range titleSeparators {
		if strings.Contains(title, sep) {
			return strings.TrimSpace(strings.SplitN(title, sep, 2)[0])
		}
	}
	return strings.TrimSpace(title)
}

// ExtractCompany tries, in order: the LinkedIn URL slug, the trailing part of
// the hit title, an "at Company" phrase in the text, and the first short
// capitalized line of the page. It returns an empty string when all fail.
func ExtractCompany(hitTitle, url, content, rawContent string) string {
	if company := companyFromLinkedInURL(url); company != "" {
		return company
	}
	if company := companyFromTitle(hitTitle); company != "" {
		return company
	}
	if company := companyFromPhrase(content + "\n" + rawContent); company != "" {
		return company
	}

	text := rawContent
	if text == "" {
		text = content
	}
	return companyFromLines(text)
}

func companyFromLinkedInURL(url string) string {
	if !strings.Contains(url, "linkedin.com/jobs/view/") {
		return ""
	}

	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	url = strings.TrimRight(url, "/")
	slug := url[strings.LastIndex(url, "/")+1:]
	slug = trailingJobID.ReplaceAllString(slug, "")

	_, company, found := strings.Cut(slug, "-at-")
	if !found {
		return ""
	}
	return titleCase.String(strings.ReplaceAll(company, "-", " "))
}

func companyFromTitle(hitTitle string) string {
	title := stripSiteSuffixes(hitTitle)
	for _, sep := range titleSeparators {
		if !strings.Contains(title, sep) {
			continue
		}
		parts := strings.Split(title, sep)
		candidate := strings.TrimSpace(parts[len(parts)-1])
		if candidate != "" && len(candidate) < maxCompanyLen && !locationLike.MatchString(strings.ToLower(candidate)) {
			return candidate
		}
	}
	return ""
}

func companyFromPhrase(text string) string {
	m := atCompany.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	candidate := strings.TrimRight(strings.TrimSpace(m[1]), ".,")
	if companyStopWords.MatchString(strings.ToLower(candidate)) {
		return ""
	}
	return candidate
}

func companyFromLines(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > companyLineWindow {
		lines = lines[:companyLineWindow]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= companyLineMin || len(line) >= maxCompanyLen {
			continue
		}
		if !capitalized.MatchString(line) || companyBoilerplate.MatchString(strings.ToLower(line)) {
			continue
		}
		return line
	}
	return ""
}

// ExtractLocation searches for a labelled location, a remote/hybrid/on-site
// phrase or a "City, ST" pattern, in that order.
func ExtractLocation(content, rawContent string) string {
	text := content + " " + rawContent
	for _, pattern := range locationPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if loc := strings.TrimSpace(m[1]); len(loc) < maxLocationLen {
			return loc
		}
	}
	return ""
}

// ExtractSalary returns the first dollar range, or the first single dollar
// amount with a pay period.
func ExtractSalary(content, rawContent string) string {
	text := content + " " + rawContent
	for _, pattern := range salaryPatterns {
		if m := pattern.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// DetectSource maps a posting URL to its job board tag.
func DetectSource(url string) string {
	for _, d := range sourceDomains {
		if strings.Contains(url, d.domain) {
			return d.source
		}
	}
	return "other"
}
