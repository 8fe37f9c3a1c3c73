package groq

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/theraswitchrx/backend/config"
	"github.com/theraswitchrx/backend/pkg/api"
)

const apiURL = "https://api.groq.com/openai/v1"

type Endpoint struct {
	apiKey string
	model  string

	apiGenerator api.Generator
}

func New(cfg config.GroqConfigs) *Endpoint {
	return &Endpoint{
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		apiGenerator: api.NewGenerator(apiURL),
	}
}

func (e *Endpoint) Name() string {
	return "groq"
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `mapstructure:"role"`
			Content string `mapstructure:"content"`
		} `mapstructure:"message"`
		FinishReason string `mapstructure:"finish_reason"`
	} `mapstructure:"choices"`
	Error *struct {
		Message string `mapstructure:"message"`
		Type    string `mapstructure:"type"`
	} `mapstructure:"error"`
}

// ChatCompletion sends a single-turn chat request and returns the content of
// the first choice.
func (e *Endpoint) ChatCompletion(ctx context.Context, system, user string) (string, error) {
	resp, err := e.apiGenerator.New("/chat/completions").
		Header("Authorization", "Bearer "+e.apiKey).
		Body(api.JSON{
			"model":       e.model,
			"temperature": 0,
			"messages": []api.JSON{
				{"role": "system", "content": system},
				{"role": "user", "content": user},
			},
		}).
		POST(ctx)
	if err != nil {
		return "", err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", errors.New("invalid body type")
	}

	var completion chatCompletionResponse
	if err := mapstructure.Decode(map[string]any(body), &completion); err != nil {
		return "", err
	}

	if completion.Error != nil {
		return "", fmt.Errorf("groq responded %d: %s", resp.Code, completion.Error.Message)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("groq responded with no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
