package resumeparser

import (
	"regexp"
	"strings"
)

// skillVocabulary is the closed set of technology and practice terms the
// matcher recognizes. Order matters: matched skills are reported in
// vocabulary order so output is deterministic.
var skillVocabulary = []string{
	"javascript", "typescript", "react", "node", "express", "html", "css",
	"python", "java", "c#", "c++", "ruby", "php",
	"aws", "azure", "gcp", "docker", "kubernetes",
	"sql", "nosql", "mongodb", "postgresql", "mysql", "oracle",
	"git", "github", "rest", "graphql",
	"redux", "vue", "angular", "svelte", "next.js", "gatsby",
	"tailwind", "bootstrap", "material-ui",
	"figma", "sketch", "adobe",
	"agile", "scrum", "kanban", "jira", "confluence",
	"devops", "ci/cd", "jenkins",
	"test", "jest", "mocha", "cypress", "selenium",
	"machine learning", "ai", "data analysis", "data science",
	"tensorflow", "pytorch", "nlp", "computer vision",
}

// jobTitleKeywords flag a line or chunk as describing a role.
var jobTitleKeywords = []string{
	"developer", "engineer", "architect", "manager", "director", "lead",
	"designer", "analyst", "specialist", "consultant", "administrator",
	"devops", "sre", "scientist", "researcher", "intern",
}

// degreeKeywords flag a line as naming a degree or certification.
var degreeKeywords = []string{
	"bachelor", "master", "phd", "doctorate", "associate",
	"certificate", "certification",
	"bsc", "msc", "ba", "bs", "ms", "ma", "mba",
	"b.a.", "b.s.", "m.s.", "m.a.", "ph.d.",
}

type skillMatcher struct {
	term string
	re   *regexp.Regexp // nil means plain substring match
}

var skillMatchers = buildSkillMatchers()

// buildSkillMatchers compiles one matcher per vocabulary term. Purely
// alphanumeric terms get word-boundary regexes so "java" never fires on
// "javascript"; terms carrying symbols (c++, ci/cd, next.js) are matched
// as substrings because \b misbehaves around punctuation.
func buildSkillMatchers() []skillMatcher {
	alnum := regexp.MustCompile(`^[a-z0-9 ]+$`)
	matchers := make([]skillMatcher, 0, len(skillVocabulary))
	for _, term := range skillVocabulary {
		m := skillMatcher{term: term}
		if alnum.MatchString(term) {
			m.re = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
		}
		matchers = append(matchers, m)
	}
	return matchers
}

// MatchSkills returns every vocabulary term present in the text, in
// vocabulary order, deduplicated and lowercased. The same matcher serves
// resume text and job posting text so both sides speak one vocabulary.
func MatchSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, 16)
	for _, m := range skillMatchers {
		if m.re != nil {
			if m.re.MatchString(lower) {
				found = append(found, m.term)
			}
		} else if strings.Contains(lower, m.term) {
			found = append(found, m.term)
		}
	}
	return found
}
