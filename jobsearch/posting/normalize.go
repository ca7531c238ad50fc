package posting

import (
	"regexp"
	"strings"

	"github.com/jobradar/radar/internal/resumeparser"
)

const (
	maxDerivedItems = 10

	// Bounds on the unlabeled-description fallback: fragments shorter
	// than minFragmentLen are noise, longer ones are prose paragraphs.
	maxFallbackItems = 5
	minFragmentLen   = 20
	maxFragmentLen   = 200
)

var (
	requirementsHeaderRe = regexp.MustCompile(`(?i)^\s*(requirements|qualifications|must have|we are looking for|what you'll need|what we require)\b`)
	sectionHeaderRe      = regexp.MustCompile(`(?i)^\s*[a-z][a-z /&]{1,40}:?\s*$`)
	bulletRe             = regexp.MustCompile(`^\s*[-*•]\s*(.+)`)
	// The dash alternative comes first so "\n- item" consumes the
	// bullet dash along with the newline.
	fragmentSplitRe = regexp.MustCompile(`\s-\s|[\n•*]`)
)

// Normalize derives SkillsRequired and Requirements from the posting's
// text. It shares the skill vocabulary and matcher with the resume parser
// so both sides of a match score speak the same terms. Normalize never
// fails; an empty description just yields empty slices.
func Normalize(p *JobPosting) {
	p.SkillsRequired = resumeparser.MatchSkills(p.Title + "\n" + p.Description)
	p.Requirements = extractRequirements(p.Description)
}

// extractRequirements pulls the lines under requirements-style headers,
// collecting every such section in the description. When no header
// matches, the description is split on bullet, dash, and newline
// delimiters and mid-length fragments stand in for requirements.
func extractRequirements(description string) []string {
	lines := strings.Split(description, "\n")
	requirements := make([]string, 0, maxDerivedItems)

	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if requirementsHeaderRe.MatchString(trimmed) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if trimmed == "" || sectionHeaderRe.MatchString(trimmed) {
			// Section ended at a blank line or the next header; a
			// later requirements header reopens collection.
			inSection = false
			continue
		}
		if m := bulletRe.FindStringSubmatch(trimmed); m != nil {
			trimmed = strings.TrimSpace(m[1])
		}
		requirements = append(requirements, trimmed)
		if len(requirements) >= maxDerivedItems {
			return requirements
		}
	}

	if len(requirements) > 0 {
		return requirements
	}

	// No labeled section: split the whole description and keep the
	// fragments sized like requirement lines.
	for _, fragment := range fragmentSplitRe.Split(description, -1) {
		fragment = strings.TrimSpace(fragment)
		if len(fragment) < minFragmentLen || len(fragment) > maxFragmentLen {
			continue
		}
		requirements = append(requirements, fragment)
		if len(requirements) >= maxFallbackItems {
			break
		}
	}
	return requirements
}
