package ranking

import (
	"sort"
	"strings"

	"smartdash/internal/infrastructure/cache"
)

// TopSkills is how many leading skills drive both the query and the cache key.
const TopSkills = 3

// JobSearchCacheKey builds job_search:{skills}:{location} from the first three
// skills, lowercased then sorted. Candidates sharing those three skills share
// an entry. Inputs are used as given; skills and location arrive trimmed.
func JobSearchCacheKey(skills []string, location string) string {
	n := len(skills)
	if n > TopSkills {
		n = TopSkills
	}
	top := make([]string, 0, n)
	for _, s := range skills[:n] {
		top = append(top, strings.ToLower(s))
	}
	sort.Strings(top)

	loc := strings.ReplaceAll(strings.ToLower(location), " ", "-")
	return cache.JobSearchPrefix + strings.Join(top, "-") + ":" + loc
}
