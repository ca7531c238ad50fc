// Package matcher asks OpenAI to second-guess a keyword match score for a
// single resume/posting pair. The model is told to answer with a bare
// integer; anything else in the reply is salvaged by grabbing the first
// number and clamping it.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// defaultScore is used when the model replies but the reply carries no
// usable number.
const defaultScore = 50

var numberRe = regexp.MustCompile(`\d+`)

type MatchScorer struct {
	client *openai.Client
	model  string
}

func NewMatchScorer(apiKey string) *MatchScorer {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &MatchScorer{
		client: &client,
		model:  "gpt-4o-mini",
	}
}

// PostingSummary is the posting context handed to the model.
type PostingSummary struct {
	Title          string
	Company        string
	SkillsRequired []string
	Description    string
}

// CandidateProfile is the resume context handed to the model. Skills is
// always set; the remaining fields come from resume analysis and may be
// empty.
type CandidateProfile struct {
	Skills                []string
	ExperienceLevel       string
	TechnicalSkillsRating int
	SuggestedRoles        []string
}

// Score rates how well the candidate fits the posting, 0-100. An API
// failure is returned as an error; an unparseable reply degrades to
// defaultScore.
func (m *MatchScorer) Score(ctx context.Context, profile CandidateProfile, posting PostingSummary) (int, error) {
	prompt := fmt.Sprintf(`Rate how well this candidate fits this job on a scale of 0-100. Reply with ONLY the number.

Candidate skills: %s
Experience level: %s
Technical skills rating (1-10): %d
Suitable roles: %s

Job: %s at %s
Required skills: %s
Description: %s`,
		strings.Join(profile.Skills, ", "),
		orUnknown(profile.ExperienceLevel),
		profile.TechnicalSkillsRating,
		strings.Join(profile.SuggestedRoles, ", "),
		posting.Title,
		posting.Company,
		strings.Join(posting.SkillsRequired, ", "),
		truncateText(posting.Description, 1500),
	)

	completion, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       m.model,
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(10),
	})
	if err != nil {
		return 0, fmt.Errorf("openai match scoring error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return 0, errors.New("no response from openai")
	}

	return ParseScore(completion.Choices[0].Message.Content), nil
}

// ParseScore extracts the first integer from a model reply and clamps it
// to [0,100]. Replies with no number at all fall back to defaultScore.
func ParseScore(reply string) int {
	match := numberRe.FindString(reply)
	if match == "" {
		return defaultScore
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return defaultScore
	}
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
