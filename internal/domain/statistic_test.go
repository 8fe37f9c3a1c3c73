package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/model"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/testutil"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_statisticDomain_GetHealth(t *testing.T) {
	ctx := testutil.MockContext()

	searchCaller := &testutil.MockSearchCaller{
		SearchFunc: func(document, query string, offset, limit int) ([]string, error) {
			return nil, nil
		},
	}

	domain := NewStatisticDomain(
		repository.NewAPIKeyRepository(),
		repository.NewUsageLogRepository(),
		repository.NewMedicineRepository(),
		searchCaller, nil, true,
	)

	resp, err := domain.GetHealth(ctx, &model.GetHealthRequest{})
	require.NoError(t, err)
	require.Equal(t, "healthy", resp.Status)
	require.Equal(t, "active", resp.Recommender)
	require.Equal(t, "ok", resp.Database)
	require.Equal(t, "ok", resp.SearchIndex)
	require.NotEmpty(t, resp.Timestamp)
}

func Test_statisticDomain_GetHealth_Degraded(t *testing.T) {
	ctx := testutil.MockContext()

	searchCaller := &testutil.MockSearchCaller{
		SearchFunc: func(document, query string, offset, limit int) ([]string, error) {
			return nil, errors.New("index gone")
		},
	}

	domain := NewStatisticDomain(
		repository.NewAPIKeyRepository(),
		repository.NewUsageLogRepository(),
		repository.NewMedicineRepository(),
		searchCaller, nil, false,
	)

	resp, err := domain.GetHealth(ctx, &model.GetHealthRequest{})
	require.NoError(t, err)
	require.Equal(t, "degraded", resp.Status)
	require.Equal(t, "maintenance", resp.Recommender)
	require.Equal(t, "error", resp.SearchIndex)
}

func Test_statisticDomain_GetStats(t *testing.T) {
	ctx := testutil.MockContext()

	_, err := testutil.SampleMedicine(ctx, &entity.Medicine{Name: "Med A", Manufacturer: "M1"})
	require.NoError(t, err)
	_, err = testutil.SampleMedicine(ctx, &entity.Medicine{Name: "Med B", Manufacturer: "M2"})
	require.NoError(t, err)

	key, _, err := testutil.SampleAPIKey(ctx, nil)
	require.NoError(t, err)
	_, _, err = testutil.SampleAPIKey(ctx, &entity.APIKey{ExpiresAt: time.Now().Add(-time.Hour)})
	require.NoError(t, err)

	usageLogRepo := repository.NewUsageLogRepository()
	err = usageLogRepo.Create(ctx, &entity.UsageLog{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		KeyID:         key.ID,
		Endpoint:      "/api/v1/search",
	})
	require.NoError(t, err)

	redisClient := &testutil.MockRedisClient{
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			return []redis.Z{{Score: 3, Member: "Med A"}}, nil
		},
	}

	searchCaller := &testutil.MockSearchCaller{}
	domain := NewStatisticDomain(
		repository.NewAPIKeyRepository(),
		usageLogRepo,
		repository.NewMedicineRepository(),
		searchCaller, redisClient, true,
	)

	resp, err := domain.GetStats(ctx, &model.GetStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.TotalMedicines)
	require.Equal(t, int64(2), resp.TotalKeys)
	require.Equal(t, int64(1), resp.ActiveKeys)
	require.Equal(t, int64(1), resp.RequestsToday)
	require.Equal(t, int64(2), resp.UniqueManufacturers)
	require.Len(t, resp.TopQueried, 1)
	require.Equal(t, "Med A", resp.TopQueried[0].Name)
	require.Equal(t, int64(3), resp.TopQueried[0].Queries)
}
