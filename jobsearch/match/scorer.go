package match

import (
	"math"
	"strings"
)

// ScoreResult is the outcome of scoring one resume/posting skill pair.
type ScoreResult struct {
	Score         int
	MatchedSkills []string
}

// Score computes skill overlap as Jaccard similarity scaled to 0-100:
// |intersection| over |union| of the two skill sets, case-insensitive.
// MatchedSkills preserves the resume's order and casing. Callers must not
// score postings with no required skills; Skip reports that case.
func Score(resumeSkills, postingSkills []string) ScoreResult {
	if len(resumeSkills) == 0 && len(postingSkills) == 0 {
		return ScoreResult{MatchedSkills: []string{}}
	}

	postingSet := make(map[string]struct{}, len(postingSkills))
	for _, s := range postingSkills {
		postingSet[strings.ToLower(s)] = struct{}{}
	}

	matched := make([]string, 0, len(resumeSkills))
	resumeSet := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		key := strings.ToLower(s)
		if _, dup := resumeSet[key]; dup {
			continue
		}
		resumeSet[key] = struct{}{}
		if _, ok := postingSet[key]; ok {
			matched = append(matched, s)
		}
	}

	union := len(resumeSet)
	for key := range postingSet {
		if _, ok := resumeSet[key]; !ok {
			union++
		}
	}
	if union == 0 {
		return ScoreResult{MatchedSkills: matched}
	}

	score := int(math.Round(100 * float64(len(matched)) / float64(union)))
	return ScoreResult{Score: score, MatchedSkills: matched}
}

// Skip reports whether a posting is unscorable. Postings that advertise
// no recognizable skills produce no match row at all rather than a zero.
func Skip(postingSkills []string) bool {
	return len(postingSkills) == 0
}
