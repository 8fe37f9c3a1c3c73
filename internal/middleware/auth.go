package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/theraswitchrx/backend/internal/common"
	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/model"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/errorx"
	"github.com/theraswitchrx/backend/pkg/router"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AuthVerifier struct {
	useAccessToken bool
	apiKeyRepo     repository.APIKeyRepository
	usageRecorder  common.UsageRecorder
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithAccessToken() *AuthVerifier {
	a.useAccessToken = true
	return a
}

func (a *AuthVerifier) WithAPIKey(
	apiKeyRepo repository.APIKeyRepository, usageRecorder common.UsageRecorder,
) *AuthVerifier {
	a.apiKeyRepo = apiKeyRepo
	a.usageRecorder = usageRecorder
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		apiKey := apiKeyFromRequest(ctx)
		if apiKey != "" && a.apiKeyRepo != nil {
			return a.verifyAPIKey(ctx, apiKey)
		}

		if a.useAccessToken {
			if token := bearerToken(ctx); token != "" {
				return a.verifyAccessToken(ctx, token)
			}
		}

		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}
}

func (a *AuthVerifier) verifyAccessToken(ctx context.Context, token string) (context.Context, error) {
	var claims model.AccessToken
	if err := xcontext.TokenEngine(ctx).Verify(token, &claims); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
	}

	ctx = xcontext.WithRequestUserID(ctx, claims.ID)
	return xcontext.WithRequestRole(ctx, claims.Role), nil
}

func (a *AuthVerifier) verifyAPIKey(ctx context.Context, plaintext string) (context.Context, error) {
	if !common.IsWellFormedAPIKey(plaintext) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid API key")
	}

	key, err := a.apiKeyRepo.GetByHash(ctx, common.HashAPIKey(plaintext))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid API key")
		}

		xcontext.Logger(ctx).Errorf("Cannot get api key record: %v", err)
		return nil, errorx.Unknown
	}

	if !key.IsActive {
		return nil, errorx.New(errorx.KeyDeactivated, "API key has been deactivated")
	}

	now := time.Now()
	if now.After(key.ExpiresAt) {
		return nil, errorx.New(errorx.KeyExpired, "API key has expired")
	}

	// The daily counter resets on the first request of every UTC day.
	if beginningOfDay(now).After(key.LimitResetAt) {
		if err := a.apiKeyRepo.ResetDailyUsage(ctx, key.ID, beginningOfDay(now)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot reset daily usage: %v", err)
			return nil, errorx.Unknown
		}

		key.RequestsMade = 0
		key.LimitResetAt = beginningOfDay(now)
	}

	if key.RequestLimit >= 0 && key.RequestsMade >= key.RequestLimit {
		return nil, errorx.New(errorx.TooManyRequests,
			"Daily request limit of %d exceeded", key.RequestLimit)
	}

	if err := a.apiKeyRepo.IncreaseUsage(ctx, key.ID, now); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase api key usage: %v", err)
		return nil, errorx.Unknown
	}
	key.RequestsMade++

	a.recordUsage(ctx, key)

	ctx = xcontext.WithRequestUserID(ctx, key.ID)
	return xcontext.WithAPIKey(ctx, key), nil
}

func (a *AuthVerifier) recordUsage(ctx context.Context, key *entity.APIKey) {
	if a.usageRecorder == nil {
		return
	}

	req := xcontext.HTTPRequest(ctx)
	err := a.usageRecorder.Record(ctx, &entity.UsageLog{
		KeyID:     key.ID,
		SessionID: xcontext.SessionID(ctx),
		Endpoint:  req.URL.Path,
		IPAddress: clientIP(ctx),
		UserAgent: req.UserAgent(),
	})
	if err != nil {
		// Usage logs are best effort, the request still goes through.
		xcontext.Logger(ctx).Warnf("Cannot record api usage: %v", err)
	}
}

func apiKeyFromRequest(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if key := req.Header.Get("X-API-Key"); key != "" {
		return key
	}

	// A bearer value carrying the key prefix is treated as an API key, not
	// an access token.
	if token := bearerToken(ctx); common.IsWellFormedAPIKey(token) {
		return token
	}

	return ""
}

func bearerToken(ctx context.Context) string {
	authorization := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
	token, found := strings.CutPrefix(authorization, "Bearer ")
	if !found {
		return ""
	}

	return strings.TrimSpace(token)
}

func clientIP(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host := req.RemoteAddr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}

	return host
}

func beginningOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
