package usecase

import "strings"

// MatchSkills returns the job skills matched by any user skill and their
// share of all job skills. A job skill matches when it contains, or is
// contained in, a user skill, ignoring case. Skills shorter than minLen
// runes never match; minLen 0 disables the guard.
func MatchSkills(userSkills, jobSkills []string, minLen int) (float64, []string) {
	if len(jobSkills) == 0 {
		return 0, []string{}
	}

	user := make([]string, 0, len(userSkills))
	for _, s := range userSkills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || len([]rune(s)) < minLen {
			continue
		}
		user = append(user, s)
	}

	matched := []string{}
	for _, js := range jobSkills {
		js = strings.ToLower(js)
		if len([]rune(js)) < minLen {
			continue
		}
		for _, us := range user {
			if strings.Contains(js, us) || strings.Contains(us, js) {
				matched = append(matched, js)
				break
			}
		}
	}

	return float64(len(matched)) / float64(len(jobSkills)), matched
}
