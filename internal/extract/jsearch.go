package extract

import (
	"strings"

	"github.com/spigell/job-hunter/internal/jobs"
)

type jSearchResult struct {
	JobTitle           string `json:"job_title"`
	EmployerName       string `json:"employer_name"`
	JobDescription     string `json:"job_description"`
	JobApplyLink       string `json:"job_apply_link"`
	JobGoogleLink      string `json:"job_google_link"`
	PostedAt           any    `json:"job_posted_at_datetime_utc"`
	JobCity            string `json:"job_city"`
	JobState           string `json:"job_state"`
	JobCountry         string `json:"job_country"`
	JobIsRemote        any    `json:"job_is_remote"`
	JobEmploymentType  string `json:"job_employment_type"`
	JobPublisher       string `json:"job_publisher"`
	JobMinSalary       any    `json:"job_min_salary"`
	JobMaxSalary       any    `json:"job_max_salary"`
	JobSalaryPeriod    string `json:"job_salary_period"`
	RequiredExperience any    `json:"job_required_experience"`
}

var salaryPeriods = map[string]string{
	"year":  "yr",
	"hour":  "hr",
	"month": "mo",
}

// JSearch normalizes results of the Google Jobs REST aggregator. The
// publisher field tells which board the posting came from.
type JSearch struct {
	clock
}

func NewJSearch(opts ...Option) *JSearch {
	return &JSearch{clock: newClock(opts)}
}

func (e *JSearch) Provider() string { return ProviderJSearch }

func (e *JSearch) Accept(Record) bool { return true }

func (e *JSearch) Normalize(raw Record) *jobs.Job {
	var r jSearchResult
	_ = decode(raw, &r)

	url := r.JobApplyLink
	if url == "" {
		url = r.JobGoogleLink
	}

	title := strings.TrimSpace(r.JobTitle)
	description := plainText(r.JobDescription)

	source := strings.ToLower(strings.TrimSpace(r.JobPublisher))
	if source == "" {
		source = ProviderJSearch
	}

	period := strings.ToLower(r.JobSalaryPeriod)
	if label, ok := salaryPeriods[period]; ok {
		period = label
	}

	return e.finish(&jobs.Job{
		Title:           title,
		Company:         strings.TrimSpace(r.EmployerName),
		Location:        jSearchLocation(r),
		Description:     description,
		URL:             strings.TrimSpace(url),
		PostedDate:      dateString(r.PostedAt),
		Salary:          formatSalary(coerceFloat(r.JobMinSalary), coerceFloat(r.JobMaxSalary), period),
		EmploymentType:  strings.ReplaceAll(strings.ToLower(r.JobEmploymentType), "_", " "),
		ExperienceLevel: experienceLevel(r.RequiredExperience),
		Remote:          coerceBool(r.JobIsRemote) || strings.Contains(strings.ToLower(title+" "+description), "remote"),
		Source:          source,
	})
}

func jSearchLocation(r jSearchResult) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{r.JobCity, r.JobState} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(r.JobCountry)
	}
	return strings.Join(parts, ", ")
}

// experienceLevel reads the aggregator's required_experience object, which
// flags entry-level postings and states a minimum in months.
func experienceLevel(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	if coerceBool(m["no_experience_required"]) {
		return "entry level"
	}
	months := int(coerceFloat(m["required_experience_in_months"]))
	switch {
	case months >= 12:
		return amounts.Sprintf("%d+ years", months/12)
	case months > 0:
		return amounts.Sprintf("%d+ months", months)
	}
	return ""
}
