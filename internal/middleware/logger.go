package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/theraswitchrx/backend/pkg/errorx"
	"github.com/theraswitchrx/backend/pkg/router"
	"github.com/theraswitchrx/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		latency := time.Since(xcontext.StartTime(ctx))

		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %s | %v | %d",
					req.Method, req.URL.Path, latency, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %s | %v | %v",
					req.Method, req.URL.Path, latency, err)
			}
		} else {
			xcontext.Logger(ctx).Infof("%s | %s | %v", req.Method, req.URL.Path, latency)
		}
	}
}
