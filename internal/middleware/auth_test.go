package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/theraswitchrx/backend/internal/common"
	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/model"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/errorx"
	"github.com/theraswitchrx/backend/pkg/testutil"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newKeyedContext(ctx context.Context, apiKey string) context.Context {
	req := httptest.NewRequest("POST", "/api/v1/search", nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	req.Header.Set("User-Agent", "test-agent")

	return xcontext.WithHTTPRequest(ctx, req)
}

func errorCode(t *testing.T, err error) errorx.Code {
	t.Helper()
	errx, ok := err.(errorx.Error)
	require.True(t, ok, "expected errorx.Error, got %v", err)
	return errx.Code
}

func Test_AuthVerifier_APIKey(t *testing.T) {
	ctx := testutil.MockContext()
	apiKeyRepo := repository.NewAPIKeyRepository()
	usageLogRepo := repository.NewUsageLogRepository()

	key, plaintext, err := testutil.SampleAPIKey(ctx, nil)
	require.NoError(t, err)

	verifier := NewAuthVerifier().WithAPIKey(
		apiKeyRepo, common.NewDatabaseUsageRecorder(usageLogRepo))

	newCtx, err := verifier.Middleware()(newKeyedContext(ctx, plaintext))
	require.NoError(t, err)
	require.NotNil(t, xcontext.APIKey(newCtx))
	require.Equal(t, key.ID, xcontext.APIKey(newCtx).ID)
	require.Equal(t, key.ID, xcontext.RequestUserID(newCtx))

	// The request was counted and logged.
	stored, err := apiKeyRepo.GetByID(ctx, key.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.RequestsMade)
	require.False(t, stored.LastUsedAt.IsZero())

	logs, err := usageLogRepo.GetByKeyID(ctx, key.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "/api/v1/search", logs[0].Endpoint)
	require.Equal(t, "test-agent", logs[0].UserAgent)
}

func Test_AuthVerifier_APIKey_Bearer(t *testing.T) {
	ctx := testutil.MockContext()

	_, plaintext, err := testutil.SampleAPIKey(ctx, nil)
	require.NoError(t, err)

	verifier := NewAuthVerifier().WithAPIKey(repository.NewAPIKeyRepository(), nil)

	req := httptest.NewRequest("POST", "/api/v1/search", nil)
	req.Header.Set("Authorization", "Bearer "+plaintext)
	newCtx, err := verifier.Middleware()(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.NotNil(t, xcontext.APIKey(newCtx))
}

func Test_AuthVerifier_APIKey_Rejections(t *testing.T) {
	ctx := testutil.MockContext()
	apiKeyRepo := repository.NewAPIKeyRepository()
	verifier := NewAuthVerifier().WithAPIKey(apiKeyRepo, nil)

	// Missing credentials.
	_, err := verifier.Middleware()(newKeyedContext(ctx, ""))
	require.Equal(t, errorx.Unauthenticated, errorCode(t, err))

	// Unknown key.
	_, err = verifier.Middleware()(newKeyedContext(ctx, "tsx_doesnotexist"))
	require.Equal(t, errorx.Unauthenticated, errorCode(t, err))

	// Deactivated key.
	_, deactivated, err := testutil.SampleAPIKey(ctx, &entity.APIKey{UserName: "inactive"})
	require.NoError(t, err)
	inactiveKey, err := apiKeyRepo.GetByHash(ctx, common.HashAPIKey(deactivated))
	require.NoError(t, err)
	require.NoError(t, apiKeyRepo.Deactivate(ctx, inactiveKey.ID))
	_, err = verifier.Middleware()(newKeyedContext(ctx, deactivated))
	require.Equal(t, errorx.KeyDeactivated, errorCode(t, err))

	// Expired key.
	_, expired, err := testutil.SampleAPIKey(ctx, &entity.APIKey{
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	_, err = verifier.Middleware()(newKeyedContext(ctx, expired))
	require.Equal(t, errorx.KeyExpired, errorCode(t, err))

	// Exhausted daily limit.
	_, exhausted, err := testutil.SampleAPIKey(ctx, &entity.APIKey{
		RequestsMade: 100,
	})
	require.NoError(t, err)
	_, err = verifier.Middleware()(newKeyedContext(ctx, exhausted))
	require.Equal(t, errorx.TooManyRequests, errorCode(t, err))
}

func Test_AuthVerifier_APIKey_DailyReset(t *testing.T) {
	ctx := testutil.MockContext()
	apiKeyRepo := repository.NewAPIKeyRepository()
	verifier := NewAuthVerifier().WithAPIKey(apiKeyRepo, nil)

	// The key ran out of quota yesterday.
	key, plaintext, err := testutil.SampleAPIKey(ctx, &entity.APIKey{
		RequestsMade: 100,
		LimitResetAt: time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = verifier.Middleware()(newKeyedContext(ctx, plaintext))
	require.NoError(t, err)

	stored, err := apiKeyRepo.GetByID(ctx, key.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.RequestsMade)
}

func Test_AuthVerifier_AccessToken(t *testing.T) {
	ctx := testutil.MockContext()
	verifier := NewAuthVerifier().WithAccessToken()

	token, err := xcontext.TokenEngine(ctx).Generate(time.Minute, model.AccessToken{
		ID:   "admin-id",
		Name: "admin",
		Role: model.RoleAdmin,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/keys/revoke", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	newCtx, err := verifier.Middleware()(xcontext.WithHTTPRequest(ctx, req))
	require.NoError(t, err)
	require.Equal(t, "admin-id", xcontext.RequestUserID(newCtx))

	// The admin gate accepts the verified role.
	_, err = OnlyAdmin()(newCtx)
	require.NoError(t, err)

	// But rejects a context without it.
	_, err = OnlyAdmin()(ctx)
	require.Equal(t, errorx.PermissionDenied, errorCode(t, err))

	// Garbage tokens are rejected.
	badReq := httptest.NewRequest("POST", "/api/v1/keys/revoke", nil)
	badReq.Header.Set("Authorization", "Bearer garbage")
	_, err = verifier.Middleware()(xcontext.WithHTTPRequest(ctx, badReq))
	require.Equal(t, errorx.Unauthenticated, errorCode(t, err))
}
