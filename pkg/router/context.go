package router

import (
	"context"
	"time"
)

// mergedContext takes cancelation and deadline from the request context and
// falls back to the root context for values that were attached at startup.
type mergedContext struct {
	request context.Context
	root    context.Context
}

func mergeContext(request, root context.Context) context.Context {
	return mergedContext{request: request, root: root}
}

func (c mergedContext) Deadline() (time.Time, bool) {
	return c.request.Deadline()
}

func (c mergedContext) Done() <-chan struct{} {
	return c.request.Done()
}

func (c mergedContext) Err() error {
	return c.request.Err()
}

func (c mergedContext) Value(key any) any {
	if v := c.request.Value(key); v != nil {
		return v
	}

	return c.root.Value(key)
}
