package candidate

import "errors"

var ErrNotFound = errors.New("candidate not found")

type Status string

const (
	StatusPending   Status = "Pending"
	StatusReviewing Status = "Reviewing"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Candidate struct {
	ID              string   `json:"candidate_id"`
	Name            *string  `json:"name"`
	Email           *string  `json:"email"`
	MobileNumber    *string  `json:"mobile_number"`
	Skills          []string `json:"skills"`
	CollegeName     []string `json:"college_name"`
	Degree          []string `json:"degree"`
	Designation     []string `json:"designation"`
	CompanyNames    []string `json:"company_names"`
	TotalExperience *float64 `json:"total_experience"`
	Status          Status   `json:"status"`
	ResumeFilePath  *string  `json:"resume_file_path"`
}

func (c Candidate) HasSkills() bool {
	return len(c.Skills) > 0
}
