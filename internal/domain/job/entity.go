package job

// Job is a normalized posting produced by a job source. Score is only set
// by the ranking pipeline.
type Job struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	URL         string   `json:"url"`
	Description *string  `json:"description,omitempty"`
	Salary      *string  `json:"salary,omitempty"`
	PostedDate  *string  `json:"posted_date,omitempty"`
	Source      string   `json:"source,omitempty"`
	Score       *float64 `json:"score,omitempty"`
}

// Text is the text embedded for a job when ranking.
func (j Job) Text() string {
	if j.Description == nil {
		return ""
	}
	return *j.Description
}

func StringPtr(s string) *string {
	return &s
}
