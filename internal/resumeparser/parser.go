// Package resumeparser extracts structured information from resume text
// using deterministic heuristics. It is pure string work: no I/O, no
// randomness, and it never fails. Missing information degrades to empty
// fields or labeled placeholders, never to an error.
package resumeparser

import (
	"regexp"
	"strings"
)

// ResumeData is the structured output of a parse. Every field is always
// present: slices are empty rather than nil-surprising, strings default
// to "".
type ResumeData struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	Skills       []string     `json:"skills"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	FullText     string       `json:"full_text"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Dates       string `json:"dates"`
}

const (
	maxExperienceEntries = 3
	maxEducationEntries  = 3
	minChunkLength       = 20
	minParseableLength   = 10
	descriptionLimit     = 150
)

var (
	emailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe    = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	locationRe = regexp.MustCompile(`[A-Z][a-zA-Z]+,\s*(?:[A-Z]{2}\b|[A-Z][a-zA-Z]+)`)

	dateRangeRe = regexp.MustCompile(`(?i)\b(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}|\d{4})\s*(?:-|–|to)\s*(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}|\d{4}|present|current|now)\b`)

	companyRe = regexp.MustCompile(`(?:at|with|for)\s+([A-Z][A-Za-z&' ]+?)(?:,|\.|\bin\b|\n|$)`)

	chunkSplitRe  = regexp.MustCompile(`\n\s*\n+`)
	nextSectionRe = regexp.MustCompile(`\n[A-Za-z][A-Za-z \t]{1,29}[:\n]`)

	schoolRe = regexp.MustCompile(`(?i)university|college|institute`)
)

var experienceSectionNames = []string{
	"experience", "work experience", "employment", "work history",
	"professional experience",
}

var educationSectionNames = []string{
	"education", "academic background", "qualifications",
}

// Parse extracts skills, experience, education, and personal info from
// resume text. It always returns a well-formed result: the experience and
// education lists are never empty, degrading to placeholder entries.
func Parse(text string) *ResumeData {
	if len(strings.TrimSpace(text)) < minParseableLength {
		return &ResumeData{
			Skills: []string{},
			Experience: []Experience{{
				Title:       "Unknown",
				Company:     "Unknown",
				Description: "Text too short to parse",
			}},
			Education: []Education{{Degree: "Unknown", Institution: "Unknown"}},
			FullText:  text,
		}
	}

	data := &ResumeData{
		PersonalInfo: extractPersonalInfo(text),
		Skills:       MatchSkills(text),
		Experience:   extractExperience(text),
		Education:    extractEducation(text),
		FullText:     text,
	}
	return data
}

// findSection locates a named section. Headers are lines of the form
// "Experience" or "Experience:"; the section runs until the next short
// header-looking line or the end of text. Returns "" when absent.
func findSection(text string, names []string) string {
	padded := "\n" + text + "\n"
	for _, name := range names {
		headerRe := regexp.MustCompile(`(?i)\n` + regexp.QuoteMeta(name) + `[:\s]*\n`)
		loc := headerRe.FindStringIndex(padded)
		if loc == nil {
			continue
		}
		rest := padded[loc[1]-1:] // keep the trailing newline as lead-in
		if end := nextSectionRe.FindStringIndex(rest[1:]); end != nil {
			return strings.TrimSpace(rest[:end[0]+1])
		}
		return strings.TrimSpace(rest)
	}
	return ""
}

func extractPersonalInfo(text string) PersonalInfo {
	info := PersonalInfo{
		Email:    emailRe.FindString(text),
		Phone:    strings.TrimSpace(phoneRe.FindString(text)),
		Location: locationRe.FindString(text),
	}

	// The name is conventionally the first line: short, no address
	// punctuation, not a phone number.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		words := strings.Fields(line)
		if len(words) <= 4 && !strings.Contains(line, "@") && !startsWithDigit(line) {
			info.Name = line
		}
		break
	}
	return info
}

func startsWithDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

func extractExperience(text string) []Experience {
	section := findSection(text, experienceSectionNames)
	// Without a labeled section the whole text is scanned, but then only
	// chunks that actually mention a role are worth keeping.
	requireTitle := section == ""
	if section == "" {
		section = text
	}

	entries := make([]Experience, 0, maxExperienceEntries)
	for _, chunk := range chunkSplitRe.Split(section, -1) {
		chunk = strings.TrimSpace(chunk)
		if len(chunk) < minChunkLength {
			continue
		}
		if requireTitle && !containsJobTitle(chunk) {
			continue
		}
		entries = append(entries, Experience{
			Title:       extractTitle(chunk),
			Company:     extractCompany(chunk),
			Duration:    dateRangeRe.FindString(chunk),
			Description: truncate(chunk, descriptionLimit),
		})
		if len(entries) >= maxExperienceEntries {
			break
		}
	}
	if len(entries) == 0 {
		entries = append(entries, Experience{
			Title:   "Not specified",
			Company: "Not specified",
		})
	}
	return entries
}

func containsJobTitle(chunk string) bool {
	lower := strings.ToLower(chunk)
	for _, kw := range jobTitleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractTitle grabs a ±20 char window around the first job title keyword
// so "Senior Software Engineer" survives even without clean line breaks.
func extractTitle(chunk string) string {
	lower := strings.ToLower(chunk)
	for _, kw := range jobTitleKeywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		start := idx - 20
		if start < 0 {
			start = 0
		}
		end := idx + len(kw) + 20
		if end > len(chunk) {
			end = len(chunk)
		}
		window := strings.ReplaceAll(chunk[start:end], "\n", " ")
		return strings.TrimSpace(window)
	}
	return "Position"
}

func extractCompany(chunk string) string {
	if m := companyRe.FindStringSubmatch(chunk); m != nil {
		if company := strings.TrimSpace(m[1]); company != "" {
			return company
		}
	}
	return "Company"
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func extractEducation(text string) []Education {
	section := findSection(text, educationSectionNames)
	sectionFound := section != ""
	if section == "" {
		section = text
	}

	lines := strings.Split(section, "\n")
	entries := make([]Education, 0, maxEducationEntries)

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !containsDegree(trimmed) {
			continue
		}
		entry := Education{
			Degree:      truncate(trimmed, 100),
			Institution: "School",
		}
		// The school and dates are usually on the same line or one of
		// the next two.
		for j := i; j < len(lines) && j <= i+2; j++ {
			if schoolRe.MatchString(lines[j]) {
				entry.Institution = truncate(strings.TrimSpace(lines[j]), 100)
				break
			}
		}
		for j := i; j < len(lines) && j <= i+2; j++ {
			if dates := dateRangeRe.FindString(lines[j]); dates != "" {
				entry.Dates = dates
				break
			}
		}
		entries = append(entries, entry)
		if len(entries) >= maxEducationEntries {
			break
		}
	}

	// Within a labeled section, a school with no recognizable degree
	// line still counts.
	if len(entries) == 0 && sectionFound {
		for _, line := range lines {
			if schoolRe.MatchString(line) {
				entries = append(entries, Education{
					Degree:      "Degree",
					Institution: truncate(strings.TrimSpace(line), 100),
					Dates:       dateRangeRe.FindString(line),
				})
				break
			}
		}
	}
	if len(entries) == 0 {
		entries = append(entries, Education{
			Degree:      "Not specified",
			Institution: "Not found",
		})
	}
	return entries
}

var degreeMatchers = buildDegreeMatchers()

func buildDegreeMatchers() []*regexp.Regexp {
	alpha := regexp.MustCompile(`^[a-z]+$`)
	matchers := make([]*regexp.Regexp, 0, len(degreeKeywords))
	for _, kw := range degreeKeywords {
		if alpha.MatchString(kw) {
			matchers = append(matchers, regexp.MustCompile(`(?i)\b`+kw+`\b`))
		} else {
			matchers = append(matchers, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(kw)))
		}
	}
	return matchers
}

func containsDegree(line string) bool {
	for _, re := range degreeMatchers {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
