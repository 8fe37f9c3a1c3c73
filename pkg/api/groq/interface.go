package groq

import "context"

type IEndpoint interface {
	Name() string
	ChatCompletion(ctx context.Context, system, user string) (string, error)
}
