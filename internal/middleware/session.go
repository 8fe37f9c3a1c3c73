package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/theraswitchrx/backend/pkg/router"
	"github.com/theraswitchrx/backend/pkg/xcontext"
)

const sessionIDField = "id"

// HandleVisitorSession assigns every browser a stable session id so usage
// logs from anonymous endpoints can be grouped. Verification failures start
// a new session instead of rejecting the request.
func HandleVisitorSession() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		store := xcontext.SessionStore(ctx)
		name := xcontext.Configs(ctx).Session.Name

		session, err := store.Get(xcontext.HTTPRequest(ctx), name)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot decode session, starting a new one: %v", err)
		}

		id, ok := session.Values[sessionIDField].(string)
		if !ok || id == "" {
			id = uuid.NewString()
			session.Values[sessionIDField] = id

			err := session.Save(xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx))
			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot save session: %v", err)
			}
		}

		return xcontext.WithSessionID(ctx, id), nil
	}
}
