package recommend

import (
	"context"

	"github.com/theraswitchrx/backend/pkg/api/groq"
	"github.com/theraswitchrx/backend/pkg/api/huggingface"
)

// Completer generates an answer for a rendered prompt. The recommender tries
// completers in order and keeps the first answer it gets.
type Completer interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

type groqCompleter struct {
	endpoint groq.IEndpoint
}

func NewGroqCompleter(endpoint groq.IEndpoint) *groqCompleter {
	return &groqCompleter{endpoint: endpoint}
}

func (c *groqCompleter) Name() string {
	return c.endpoint.Name()
}

func (c *groqCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return c.endpoint.ChatCompletion(ctx, system, user)
}

type huggingfaceCompleter struct {
	endpoint huggingface.IEndpoint
}

func NewHuggingFaceCompleter(endpoint huggingface.IEndpoint) *huggingfaceCompleter {
	return &huggingfaceCompleter{endpoint: endpoint}
}

func (c *huggingfaceCompleter) Name() string {
	return c.endpoint.Name()
}

func (c *huggingfaceCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	// The inference API takes a single prompt, so the instructions are
	// prepended to the user message.
	return c.endpoint.TextGeneration(ctx, system+"\n\n"+user)
}
