package domain

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/theraswitchrx/backend/internal/common"
	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/model"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/enum"
	"github.com/theraswitchrx/backend/pkg/errorx"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"gorm.io/gorm"

	mathUtil "github.com/pkg/math"
)

const keyValidityDuration = 365 * 24 * time.Hour

type APIKeyDomain interface {
	Issue(context.Context, *model.IssueAPIKeyRequest) (*model.IssueAPIKeyResponse, error)
	GetKeyInfo(context.Context, *model.GetKeyInfoRequest) (*model.GetKeyInfoResponse, error)
	Revoke(context.Context, *model.RevokeAPIKeyRequest) (*model.RevokeAPIKeyResponse, error)
	GetUsageLogs(context.Context, *model.GetUsageLogsRequest) (*model.GetUsageLogsResponse, error)
}

type apiKeyDomain struct {
	apiKeyRepo   repository.APIKeyRepository
	usageLogRepo repository.UsageLogRepository
}

func NewAPIKeyDomain(
	apiKeyRepo repository.APIKeyRepository,
	usageLogRepo repository.UsageLogRepository,
) *apiKeyDomain {
	return &apiKeyDomain{
		apiKeyRepo:   apiKeyRepo,
		usageLogRepo: usageLogRepo,
	}
}

func (d *apiKeyDomain) Issue(
	ctx context.Context, req *model.IssueAPIKeyRequest,
) (*model.IssueAPIKeyResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty name")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid email address")
	}

	plan := entity.PlanFree
	if req.Plan != "" {
		var err error
		plan, err = enum.ToEnum[entity.PlanType](req.Plan)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid plan %s", req.Plan)
		}
	}

	_, err := d.apiKeyRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "An API key was already issued for this email")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check existing api key: %v", err)
		return nil, errorx.Unknown
	}

	plaintext, hash, keyID, err := common.GenerateAPIKey()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate api key: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	key := &entity.APIKey{
		Base:         entity.Base{ID: keyID},
		KeyHash:      hash,
		UserName:     req.Name,
		UserEmail:    email,
		Plan:         plan,
		RequestLimit: plan.DailyLimit(),
		LimitResetAt: now,
		IsActive:     true,
		ExpiresAt:    now.Add(keyValidityDuration),
	}

	if err := d.apiKeyRepo.Create(ctx, key); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save api key: %v", err)
		return nil, errorx.Unknown
	}

	return &model.IssueAPIKeyResponse{
		APIKey:       plaintext,
		KeyID:        keyID,
		Plan:         string(plan),
		RequestLimit: key.RequestLimit,
		ExpiresAt:    key.ExpiresAt.UTC().Format(time.RFC3339),
		Message:      "Store this key safely, it will not be shown again",
	}, nil
}

func (d *apiKeyDomain) GetKeyInfo(
	ctx context.Context, req *model.GetKeyInfoRequest,
) (*model.GetKeyInfoResponse, error) {
	key := xcontext.APIKey(ctx)
	if key == nil {
		return nil, errorx.New(errorx.Unauthenticated, "This endpoint requires an API key")
	}

	resp := &model.GetKeyInfoResponse{
		KeyID:         key.ID,
		Name:          key.UserName,
		Email:         key.UserEmail,
		Plan:          string(key.Plan),
		RequestsMade:  key.RequestsMade,
		RequestLimit:  key.RequestLimit,
		RequestsToday: key.RequestsMade,
		IsActive:      key.IsActive,
		CreatedAt:     key.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt:     key.ExpiresAt.UTC().Format(time.RFC3339),
	}

	if !key.LastUsedAt.IsZero() {
		resp.LastUsedAt = key.LastUsedAt.UTC().Format(time.RFC3339)
	}

	return resp, nil
}

func (d *apiKeyDomain) Revoke(
	ctx context.Context, req *model.RevokeAPIKeyRequest,
) (*model.RevokeAPIKeyResponse, error) {
	if req.KeyID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty key id")
	}

	if _, err := d.apiKeyRepo.GetByID(ctx, req.KeyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found api key")
		}

		xcontext.Logger(ctx).Errorf("Cannot get api key: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.apiKeyRepo.Deactivate(ctx, req.KeyID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot deactivate api key: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RevokeAPIKeyResponse{}, nil
}

func (d *apiKeyDomain) GetUsageLogs(
	ctx context.Context, req *model.GetUsageLogsRequest,
) (*model.GetUsageLogsResponse, error) {
	if req.KeyID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty key id")
	}

	if req.Limit <= 0 {
		req.Limit = 50
	}
	req.Limit = mathUtil.MinInt(req.Limit, 200)

	logs, err := d.usageLogRepo.GetByKeyID(ctx, req.KeyID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get usage logs: %v", err)
		return nil, errorx.Unknown
	}

	records := make([]model.UsageRecord, 0, len(logs))
	for _, log := range logs {
		records = append(records, model.UsageRecord{
			KeyID:     log.KeyID,
			SessionID: log.SessionID,
			Endpoint:  log.Endpoint,
			IPAddress: log.IPAddress,
			UserAgent: log.UserAgent,
			Timestamp: log.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return &model.GetUsageLogsResponse{Logs: records}, nil
}
