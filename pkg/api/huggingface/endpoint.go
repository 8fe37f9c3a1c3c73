package huggingface

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/theraswitchrx/backend/config"
	"github.com/theraswitchrx/backend/pkg/api"
)

const apiURL = "https://api-inference.huggingface.co"

type Endpoint struct {
	apiToken string
	model    string

	apiGenerator api.Generator
}

func New(cfg config.HuggingFaceConfigs) *Endpoint {
	return &Endpoint{
		apiToken:     cfg.APIToken,
		model:        cfg.Model,
		apiGenerator: api.NewGenerator(apiURL),
	}
}

func (e *Endpoint) Name() string {
	return "huggingface"
}

type generatedText struct {
	GeneratedText string `mapstructure:"generated_text"`
}

// TextGeneration calls the hosted inference API for the configured model. The
// hosted API answers with an array of generated candidates; only the first
// one is returned.
func (e *Endpoint) TextGeneration(ctx context.Context, prompt string) (string, error) {
	resp, err := e.apiGenerator.New("/models/%s", e.model).
		Header("Authorization", "Bearer "+e.apiToken).
		Body(api.JSON{
			"inputs": prompt,
			"parameters": api.JSON{
				"max_new_tokens":   1024,
				"return_full_text": false,
			},
		}).
		POST(ctx)
	if err != nil {
		return "", err
	}

	switch body := resp.Body.(type) {
	case api.Array:
		if len(body) == 0 {
			return "", errors.New("huggingface responded with no candidates")
		}

		var generated generatedText
		if err := mapstructure.Decode(body[0], &generated); err != nil {
			return "", err
		}

		return generated.GeneratedText, nil

	case api.JSON:
		msg, _ := body.GetString("error")
		return "", fmt.Errorf("huggingface responded %d: %s", resp.Code, msg)
	}

	return "", errors.New("invalid body type")
}
