package domain

import (
	"context"
	"time"

	"github.com/theraswitchrx/backend/internal/common"
	"github.com/theraswitchrx/backend/internal/domain/search"
	"github.com/theraswitchrx/backend/internal/model"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/errorx"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"github.com/theraswitchrx/backend/pkg/xredis"
)

const apiVersion = "1.0.0"

const topQueriedLimit = 10

type StatisticDomain interface {
	GetHealth(context.Context, *model.GetHealthRequest) (*model.GetHealthResponse, error)
	GetStats(context.Context, *model.GetStatsRequest) (*model.GetStatsResponse, error)
}

type statisticDomain struct {
	apiKeyRepo        repository.APIKeyRepository
	usageLogRepo      repository.UsageLogRepository
	medicineRepo      repository.MedicineRepository
	searchCaller      search.Caller
	redisClient       xredis.Client
	recommenderActive bool
}

func NewStatisticDomain(
	apiKeyRepo repository.APIKeyRepository,
	usageLogRepo repository.UsageLogRepository,
	medicineRepo repository.MedicineRepository,
	searchCaller search.Caller,
	redisClient xredis.Client,
	recommenderActive bool,
) *statisticDomain {
	return &statisticDomain{
		apiKeyRepo:        apiKeyRepo,
		usageLogRepo:      usageLogRepo,
		medicineRepo:      medicineRepo,
		searchCaller:      searchCaller,
		redisClient:       redisClient,
		recommenderActive: recommenderActive,
	}
}

func (d *statisticDomain) GetHealth(
	ctx context.Context, req *model.GetHealthRequest,
) (*model.GetHealthResponse, error) {
	resp := &model.GetHealthResponse{
		Status:      "healthy",
		Version:     apiVersion,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Recommender: "active",
		Database:    "ok",
		SearchIndex: "ok",
	}

	if !d.recommenderActive {
		resp.Recommender = "maintenance"
	}

	if _, err := d.apiKeyRepo.Count(ctx); err != nil {
		xcontext.Logger(ctx).Warnf("Database health check failed: %v", err)
		resp.Database = "error"
		resp.Status = "degraded"
	}

	if _, err := d.searchCaller.Search(search.MedicineDoc, "health", 0, 1); err != nil {
		xcontext.Logger(ctx).Warnf("Search index health check failed: %v", err)
		resp.SearchIndex = "error"
		resp.Status = "degraded"
	}

	return resp, nil
}

func (d *statisticDomain) GetStats(
	ctx context.Context, req *model.GetStatsRequest,
) (*model.GetStatsResponse, error) {
	medicineStat, err := d.medicineRepo.Statistic(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get medicine statistic: %v", err)
		return nil, errorx.Unknown
	}

	totalKeys, err := d.apiKeyRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count api keys: %v", err)
		return nil, errorx.Unknown
	}

	activeKeys, err := d.apiKeyRepo.CountActive(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count active api keys: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now().UTC()
	beginningOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	requestsToday, err := d.usageLogRepo.CountSince(ctx, beginningOfDay)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count requests of today: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetStatsResponse{
		TotalMedicines:      medicineStat.TotalMedicines,
		TotalKeys:           totalKeys,
		ActiveKeys:          activeKeys,
		RequestsToday:       requestsToday,
		TopQueried:          d.topQueried(ctx),
		UniqueCompositions:  medicineStat.UniqueCompositions,
		UniqueManufacturers: medicineStat.UniqueManufacturers,
	}, nil
}

func (d *statisticDomain) topQueried(ctx context.Context) []model.QueriedMedicine {
	if d.redisClient == nil {
		return nil
	}

	records, err := d.redisClient.ZRevRangeWithScores(
		ctx, common.RedisKeyTopMedicines(), 0, topQueriedLimit)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get top queried medicines: %v", err)
		return nil
	}

	top := make([]model.QueriedMedicine, 0, len(records))
	for _, record := range records {
		name, ok := record.Member.(string)
		if !ok {
			continue
		}

		top = append(top, model.QueriedMedicine{Name: name, Queries: int64(record.Score)})
	}

	return top
}
