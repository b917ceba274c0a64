package cache

// Store layout shared by the API and the worker.
const (
	CandidatePrefix    = "candidate:"
	ApplicationPrefix  = "application:"
	JobSearchPrefix    = "job_search:"
	SettingsParserKey  = "settings:parser_preference"
	ApplyQueueKey      = "queue:apply"
	ApplyProcessingKey = "queue:apply:processing"
	ApplicationsEvents = "events:applications"
)

func CandidateKey(id string) string {
	return CandidatePrefix + id
}

func CandidateApplicationsKey(id string) string {
	return CandidatePrefix + id + ":applications"
}

func ApplicationKey(id string) string {
	return ApplicationPrefix + id
}
