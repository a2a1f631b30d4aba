package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/ssemenov/jobscout/internal/ai"
	"github.com/ssemenov/jobscout/internal/brightdata"
	"github.com/ssemenov/jobscout/internal/util"

	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Scorer turns a batch of listings into 0-100 fit scores using a Gemini model.
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewScorer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (s *Scorer) Model() string {
	if s == nil || s.generator == nil {
		return ""
	}
	return s.generator.Model()
}

func (s *Scorer) ScoreBatch(ctx context.Context, profile ai.Profile, batch []brightdata.Listing) ([]ai.JobScore, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	jobsJSON, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("marshal jobs payload: %w", err)
	}

	prompt := buildPrompt(profile, string(jobsJSON))

	s.logger.Debug("gemini scoring request",
		zap.Int("batch_size", len(batch)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini scoring response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, s.maxLogLen)),
	)

	scores, err := parseScores(raw)
	if err != nil {
		return nil, err
	}

	if err := ai.ValidateScores(scores); err != nil {
		return nil, fmt.Errorf("gemini response: %w", err)
	}

	if len(scores) < len(batch) {
		s.logger.Warn("model returned fewer scores than jobs in batch",
			zap.Int("batch_size", len(batch)),
			zap.Int("scores", len(scores)),
		)
	}

	return scores, nil
}

func buildPrompt(profile ai.Profile, jobsJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Profile:\n{{PROFILE_SUMMARY}}\n\nDesired job:\n{{DESIRED_JOB}}\n\nJobs:\n{{JOBS_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{PROFILE_SUMMARY}}", profile.Summary)
	prompt = strings.ReplaceAll(prompt, "{{DESIRED_JOB}}", profile.DesiredJob)
	prompt = strings.ReplaceAll(prompt, "{{JOBS_JSON}}", jobsJSON)
	return prompt
}

func parseScores(raw string) ([]ai.JobScore, error) {
	cleaned := extractJSON(raw)

	// The prompt asks for {"scores": [...]}, but models occasionally return
	// the bare array. Accept both.
	var wrapper struct {
		Scores []map[string]any `json:"scores"`
	}

	items := wrapper.Scores
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err == nil && wrapper.Scores != nil {
		items = wrapper.Scores
	} else if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	scores := make([]ai.JobScore, 0, len(items))
	for _, item := range items {
		score, err := coerceScore(item["score"])
		if err != nil {
			return nil, fmt.Errorf("parse gemini response: %w", err)
		}

		scores = append(scores, ai.JobScore{
			JobPostingID: coerceString(item["job_posting_id"]),
			Score:        score,
			Comment:      coerceString(item["comment"]),
		})
	}

	return scores, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceScore(v any) (int, error) {
	switch val := v.(type) {
	case float64:
		return int(math.Round(val)), nil
	case int:
		return val, nil
	case string:
		trimmed := strings.TrimSpace(val)
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid score value %q", val)
		}
		return int(math.Round(f)), nil
	default:
		return 0, fmt.Errorf("invalid score value %v", v)
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
