package testutil

import (
	"context"
	"errors"
)

type MockCompleter struct {
	NameValue    string
	CompleteFunc func(ctx context.Context, system, user string) (string, error)
}

func (c *MockCompleter) Name() string {
	if c.NameValue == "" {
		return "mock"
	}

	return c.NameValue
}

func (c *MockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if c.CompleteFunc != nil {
		return c.CompleteFunc(ctx, system, user)
	}

	return "", errors.New("not implemented")
}
