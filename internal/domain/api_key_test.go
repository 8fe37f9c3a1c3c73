package domain

import (
	"strings"
	"testing"

	"github.com/theraswitchrx/backend/internal/model"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/testutil"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_apiKeyDomain_FullScenario(t *testing.T) {
	ctx := testutil.MockContext()
	apiKeyDomain := NewAPIKeyDomain(
		repository.NewAPIKeyRepository(),
		repository.NewUsageLogRepository(),
	)

	// Issue successfully.
	resp, err := apiKeyDomain.Issue(ctx, &model.IssueAPIKeyRequest{
		Name:  "Alice",
		Email: "alice@example.com",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.APIKey, "tsx_"))
	require.Equal(t, resp.APIKey[:12], resp.KeyID)
	require.Equal(t, "free", resp.Plan)
	require.Equal(t, 100, resp.RequestLimit)

	// Cannot issue a second key for the same email.
	_, err = apiKeyDomain.Issue(ctx, &model.IssueAPIKeyRequest{
		Name:  "Alice Again",
		Email: "Alice@Example.com",
	})
	require.Error(t, err)
	require.Equal(t, "An API key was already issued for this email", err.Error())

	// Revoke successfully.
	_, err = apiKeyDomain.Revoke(ctx, &model.RevokeAPIKeyRequest{KeyID: resp.KeyID})
	require.NoError(t, err)

	key, err := repository.NewAPIKeyRepository().GetByID(ctx, resp.KeyID)
	require.NoError(t, err)
	require.False(t, key.IsActive)

	// Revoking an unknown key fails.
	_, err = apiKeyDomain.Revoke(ctx, &model.RevokeAPIKeyRequest{KeyID: "unknown"})
	require.Equal(t, "Not found api key", err.Error())
}

func Test_apiKeyDomain_Issue_Validation(t *testing.T) {
	ctx := testutil.MockContext()
	apiKeyDomain := NewAPIKeyDomain(
		repository.NewAPIKeyRepository(),
		repository.NewUsageLogRepository(),
	)

	_, err := apiKeyDomain.Issue(ctx, &model.IssueAPIKeyRequest{Email: "a@example.com"})
	require.Equal(t, "Not allow empty name", err.Error())

	_, err = apiKeyDomain.Issue(ctx, &model.IssueAPIKeyRequest{Name: "Bob", Email: "not-an-email"})
	require.Equal(t, "Invalid email address", err.Error())

	_, err = apiKeyDomain.Issue(ctx, &model.IssueAPIKeyRequest{
		Name: "Bob", Email: "bob@example.com", Plan: "platinum",
	})
	require.Equal(t, "Invalid plan platinum", err.Error())

	// Plans map to their daily limits.
	resp, err := apiKeyDomain.Issue(ctx, &model.IssueAPIKeyRequest{
		Name: "Bob", Email: "bob@example.com", Plan: "enterprise",
	})
	require.NoError(t, err)
	require.Equal(t, -1, resp.RequestLimit)
}

func Test_apiKeyDomain_GetKeyInfo(t *testing.T) {
	ctx := testutil.MockContext()
	apiKeyDomain := NewAPIKeyDomain(
		repository.NewAPIKeyRepository(),
		repository.NewUsageLogRepository(),
	)

	// Without a verified key in context the endpoint rejects.
	_, err := apiKeyDomain.GetKeyInfo(ctx, &model.GetKeyInfoRequest{})
	require.Equal(t, "This endpoint requires an API key", err.Error())

	key, _, err := testutil.SampleAPIKey(ctx, nil)
	require.NoError(t, err)

	resp, err := apiKeyDomain.GetKeyInfo(xcontext.WithAPIKey(ctx, &key), &model.GetKeyInfoRequest{})
	require.NoError(t, err)
	require.Equal(t, key.ID, resp.KeyID)
	require.Equal(t, key.UserEmail, resp.Email)
	require.Equal(t, "free", resp.Plan)
	require.True(t, resp.IsActive)
}
