package middleware

import (
	"context"

	"github.com/theraswitchrx/backend/internal/model"
	"github.com/theraswitchrx/backend/pkg/errorx"
	"github.com/theraswitchrx/backend/pkg/router"
	"github.com/theraswitchrx/backend/pkg/xcontext"
)

// OnlyAdmin rejects requests whose access token does not carry the admin
// role. It must run after an AuthVerifier with access tokens enabled.
func OnlyAdmin() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestRole(ctx) != model.RoleAdmin {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		return nil, nil
	}
}
