// Package analyzer asks OpenAI for a strategic read of a parsed resume:
// which keywords to search with, the candidate's seniority, and suitable
// roles. Callers must treat failures as soft and fall back to heuristics.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

// ResumeProfile is the slice of a parsed resume the analysis needs.
type ResumeProfile struct {
	Skills          string
	ExperienceCount int
	FullText        string
}

// ResumeAnalysis is the model's assessment of a resume.
type ResumeAnalysis struct {
	SuggestedKeywords     []string `json:"suggestedKeywords"`
	ExperienceLevel       string   `json:"experienceLevel"` // entry | mid | senior | executive
	SuggestedRoles        []string `json:"suggestedRoles"`
	TechnicalSkillsRating int      `json:"technicalSkillsRating"` // 1-10
	SoftSkillsAssessment  string   `json:"softSkillsAssessment"`
}

type ResumeAnalyzer struct {
	client *openai.Client
	model  string
}

func NewResumeAnalyzer(apiKey string) *ResumeAnalyzer {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &ResumeAnalyzer{
		client: &client,
		model:  "gpt-4o-mini",
	}
}

const analysisSystemPrompt = `You are a career advisor analyzing resumes for a job search agent. Return ONLY valid JSON.`

// Analyze produces a ResumeAnalysis for the parsed resume. Returns an
// error on any API or decode problem; it is the caller's job to degrade
// gracefully.
func (a *ResumeAnalyzer) Analyze(ctx context.Context, profile ResumeProfile) (*ResumeAnalysis, error) {
	userPrompt := fmt.Sprintf(`Analyze this candidate and return JSON:

{
  "suggestedKeywords": string[] (max 10 search keywords for job boards),
  "experienceLevel": "entry" | "mid" | "senior" | "executive",
  "suggestedRoles": string[] (max 5 job titles to target),
  "technicalSkillsRating": number (1-10),
  "softSkillsAssessment": string (one sentence)
}

Skills: %s
Experience entries: %d
Resume text (truncated):
%s`,
		profile.Skills,
		profile.ExperienceCount,
		truncateText(profile.FullText, 4000),
	)

	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analysisSystemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model: a.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0.2),
		MaxTokens:   openai.Int(800),
	})
	if err != nil {
		return nil, fmt.Errorf("openai analysis error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("no response from openai")
	}

	var analysis ResumeAnalysis
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis JSON: %w", err)
	}
	return &analysis, nil
}

func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
