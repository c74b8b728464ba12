package extract

import (
	"strings"

	"github.com/spigell/job-hunter/internal/jobs"
)

// jobSpyRow mirrors one row of the guest-API scraper dataframe.
type jobSpyRow struct {
	JobURL       string `json:"job_url"`
	JobURLDirect string `json:"job_url_direct"`
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Site         string `json:"site"`
	JobType      string `json:"job_type"`
	JobLevel     string `json:"job_level"`
	DatePosted   any    `json:"date_posted"`
	IsRemote     any    `json:"is_remote"`
	MinAmount    any    `json:"min_amount"`
	MaxAmount    any    `json:"max_amount"`
	Interval     string `json:"interval"`
}

// JobSpy normalizes rows from the guest-API scraper (LinkedIn, Indeed,
// Glassdoor and ZipRecruiter boards). Fields map almost one to one.
type JobSpy struct {
	clock
}

func NewJobSpy(opts ...Option) *JobSpy {
	return &JobSpy{clock: newClock(opts)}
}

func (e *JobSpy) Provider() string { return ProviderJobSpy }

func (e *JobSpy) Accept(Record) bool { return true }

func (e *JobSpy) Normalize(raw Record) *jobs.Job {
	var row jobSpyRow
	_ = decode(raw, &row)

	url := row.JobURL
	if url == "" {
		url = row.JobURLDirect
	}

	title := strings.TrimSpace(row.Title)
	location := strings.TrimSpace(row.Location)

	return e.finish(&jobs.Job{
		Title:           title,
		Company:         strings.TrimSpace(row.Company),
		Location:        location,
		Description:     plainText(row.Description),
		URL:             strings.TrimSpace(url),
		PostedDate:      dateString(row.DatePosted),
		Salary:          formatSalary(coerceFloat(row.MinAmount), coerceFloat(row.MaxAmount), row.Interval),
		EmploymentType:  row.JobType,
		ExperienceLevel: row.JobLevel,
		Remote:          coerceBool(row.IsRemote) || strings.Contains(strings.ToLower(title+" "+location), "remote"),
		Source:          strings.ToLower(strings.TrimSpace(row.Site)),
	})
}
