package router

import (
	"context"
	"net/http"
	"time"

	"github.com/theraswitchrx/backend/pkg/errorx"
	"github.com/theraswitchrx/backend/pkg/xcontext"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after a handler. It can derive a new context
// for the rest of the chain; returning an error aborts the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been written. The handler error, if
// any, is available through xcontext.Error.
type CloserFunc func(ctx context.Context)

type Router struct {
	rootCtx context.Context
	mux     *http.ServeMux

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose handlers inherit values (configs, logger,
// database, token engine...) from the given root context.
func New(ctx context.Context) *Router {
	return &Router{rootCtx: ctx, mux: http.NewServeMux()}
}

// Branch returns a router sharing the same mux but with an independent
// middleware chain.
func (r *Router) Branch() *Router {
	return &Router{
		rootCtx: r.rootCtx,
		mux:     r.mux,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware ...MiddlewareFunc) {
	r.befores = append(r.befores, middleware...)
}

func (r *Router) After(middleware ...MiddlewareFunc) {
	r.afters = append(r.afters, middleware...)
}

func (r *Router) AddCloser(closer ...CloserFunc) {
	r.closers = append(r.closers, closer...)
}

// Static serves a directory tree under the given pattern.
func (r *Router) Static(pattern, root string) {
	r.mux.Handle("GET "+pattern, http.FileServer(http.Dir(root)))
}

// File serves a single file for an exact pattern.
func (r *Router) File(pattern, path string) {
	r.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, path)
	})
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc("GET "+pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc("POST "+pattern, wrapHandler(r, http.MethodPost, handler))
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	// The chain is captured at registration time so later Branch
	// configuration does not leak into already registered endpoints.
	befores := append([]MiddlewareFunc{}, router.befores...)
	afters := append([]MiddlewareFunc{}, router.afters...)
	closers := append([]CloserFunc{}, router.closers...)

	return func(w http.ResponseWriter, httpReq *http.Request) {
		ctx := mergeContext(httpReq.Context(), router.rootCtx)
		ctx = xcontext.WithStartTime(ctx, time.Now())
		ctx = xcontext.WithHTTPRequest(ctx, httpReq)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		resp, err := func() (*Response, error) {
			var req Request
			if err := bind(httpReq, method, &req); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
				return nil, errorx.New(errorx.BadRequest, "Cannot parse the request")
			}

			var err error
			for _, m := range befores {
				if ctx, err = m(ctx); err != nil {
					return nil, err
				}
			}

			resp, err := handler(ctx, &req)
			if err != nil {
				return nil, err
			}

			ctx = xcontext.WithResponse(ctx, resp)
			for _, m := range afters {
				if ctx, err = m(ctx); err != nil {
					return nil, err
				}
			}

			return resp, nil
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeError(ctx, w, err)
		} else {
			writeResponse(ctx, w, resp)
		}

		for _, closer := range closers {
			closer(ctx)
		}
	}
}
