package huggingface

import "context"

type IEndpoint interface {
	Name() string
	TextGeneration(ctx context.Context, prompt string) (string, error)
}
