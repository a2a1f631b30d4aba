package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ssemenov/jobscout/internal/ai"
	"github.com/ssemenov/jobscout/internal/brightdata"
	"github.com/ssemenov/jobscout/internal/util"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-5-mini"

	maxLogLength = 200
)

// jobScoresSchema is the JSON Schema enforced server-side via OpenAI
// structured outputs, so the response parses directly into score records.
var jobScoresSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"scores": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"job_posting_id": map[string]any{"type": "string"},
					"score": map[string]any{
						"type":    "integer",
						"minimum": 0,
						"maximum": 100,
					},
					"comment": map[string]any{"type": "string"},
				},
				"required": []string{"job_posting_id", "score", "comment"},
			},
		},
	},
	"required": []string{"scores"},
}

// Scorer calls the OpenAI /v1/chat/completions endpoint with structured outputs.
type Scorer struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewScorer creates a scorer targeting the OpenAI API.
func NewScorer(baseURL, apiKey, model string, logger *zap.Logger) (*Scorer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}

	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL == "" {
		baseURL = defaultBaseURL
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}, nil
}

// chatRequest mirrors the OpenAI /v1/chat/completions request body.
type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema jsonSchemaSpec `json:"json_schema"`
}

type jsonSchemaSpec struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

// chatResponse mirrors the relevant fields of the OpenAI response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (s *Scorer) Model() string {
	if s == nil {
		return ""
	}
	return s.model
}

func (s *Scorer) ScoreBatch(ctx context.Context, profile ai.Profile, batch []brightdata.Listing) ([]ai.JobScore, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	jobsJSON, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("marshal jobs payload: %w", err)
	}

	prompt := fmt.Sprintf(
		"You are an expert recruiter. Given the following candidate profile:\n%s\n\n"+
			"Desired job description:\n%s\n\n"+
			"Score each job posting accurately from 0 to 100 on how well it matches the profile and the desired job. "+
			"For each job, add a short comment (max 50 words) explaining the score and match quality. "+
			"Reuse each posting's job_posting_id value verbatim.\n\nJobs:\n%s",
		profile.Summary, profile.DesiredJob, jobsJSON,
	)

	s.logger.Debug("openai scoring request",
		zap.Int("batch_size", len(batch)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, maxLogLength)),
	)

	content, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Scores []ai.JobScore `json:"scores"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse llm response: %w", err)
	}

	if err := ai.ValidateScores(parsed.Scores); err != nil {
		return nil, fmt.Errorf("openai response: %w", err)
	}

	return parsed.Scores, nil
}

// complete sends the prompt and returns a guaranteed-valid JSON string
// conforming to jobScoresSchema. No markdown stripping required.
func (s *Scorer) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful job scoring assistant."},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchemaSpec{
				Name:   "job_scores",
				Strict: true,
				Schema: jobScoresSchema,
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request: %w", err)
	}

	url := s.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm returned HTTP %d: %s", resp.StatusCode, util.TruncateForLog(string(respBytes), maxLogLength))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", fmt.Errorf("parse llm response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("llm error (%s): %s", chatResp.Error.Type, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.New("llm returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
