package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/theraswitchrx/backend/internal/domain/recommend"
	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/model"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestRecommendationDomain(
	ctx context.Context, searchCaller *testutil.MockSearchCaller, completers ...recommend.Completer,
) *recommendationDomain {
	medicineRepo := repository.NewMedicineRepository()
	return NewRecommendationDomain(
		recommend.NewRecommender(ctx, searchCaller, medicineRepo, completers...),
		medicineRepo,
		nil,
	)
}

func Test_recommendationDomain_Search(t *testing.T) {
	ctx := testutil.MockContext()

	medicine, err := testutil.SampleMedicine(ctx, &entity.Medicine{Name: "Shelcal 500"})
	require.NoError(t, err)

	searchCaller := &testutil.MockSearchCaller{
		SearchFunc: func(document, query string, offset, limit int) ([]string, error) {
			return []string{medicine.ID}, nil
		},
	}
	completer := &testutil.MockCompleter{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return "use Shelcal alternatives", nil
		},
	}

	domain := newTestRecommendationDomain(ctx, searchCaller, completer)

	resp, err := domain.Search(ctx, &model.SearchRequest{Query: "cheap alternative to Shelcal"})
	require.NoError(t, err)
	require.Equal(t, "price", resp.QueryType)
	require.Equal(t, "use Shelcal alternatives", resp.Recommendation)
	require.False(t, resp.IsFallback)
	require.Len(t, resp.Matches, 1)
	require.Equal(t, "Shelcal 500", resp.Matches[0].Name)

	// An empty query is rejected before any lookup.
	_, err = domain.Search(ctx, &model.SearchRequest{Query: "   "})
	require.Equal(t, "Not allow empty query", err.Error())
}

func Test_recommendationDomain_Search_Fallback(t *testing.T) {
	ctx := testutil.MockContext()

	searchCaller := &testutil.MockSearchCaller{
		SearchFunc: func(document, query string, offset, limit int) ([]string, error) {
			return nil, nil
		},
	}
	broken := &testutil.MockCompleter{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return "", errors.New("down")
		},
	}

	domain := newTestRecommendationDomain(ctx, searchCaller, broken)

	resp, err := domain.Search(ctx, &model.SearchRequest{Query: "Magvion"})
	require.NoError(t, err)
	require.True(t, resp.IsFallback)
	require.Contains(t, resp.Recommendation, "Magvion")
}

func Test_recommendationDomain_GetMedicine(t *testing.T) {
	ctx := testutil.MockContext()

	_, err := testutil.SampleMedicine(ctx, &entity.Medicine{
		Name:         "Magvion",
		Alternatives: "Magvion SR, Magneurin",
	})
	require.NoError(t, err)

	searchCaller := &testutil.MockSearchCaller{
		SearchFunc: func(document, query string, offset, limit int) ([]string, error) {
			return nil, nil
		},
	}
	completer := &testutil.MockCompleter{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return "detailed alternatives", nil
		},
	}

	domain := newTestRecommendationDomain(ctx, searchCaller, completer)

	// Lookup is case insensitive.
	resp, err := domain.GetMedicine(ctx, &model.GetMedicineRequest{MedicineName: "magvion"})
	require.NoError(t, err)
	require.Equal(t, "Magvion", resp.Medicine.Name)
	require.Equal(t, "detailed alternatives", resp.Recommendation)

	_, err = domain.GetMedicine(ctx, &model.GetMedicineRequest{MedicineName: "Nothing"})
	require.Equal(t, "Not found medicine Nothing", err.Error())

	// Without any completion backend the endpoint reports the recommender
	// as down instead of serving partial data.
	downDomain := newTestRecommendationDomain(ctx, searchCaller)
	_, err = downDomain.GetMedicine(ctx, &model.GetMedicineRequest{MedicineName: "magvion"})
	require.Equal(t, "Medical recommendation system is not initialized", err.Error())
}

func Test_recommendationDomain_GetAlternatives(t *testing.T) {
	ctx := testutil.MockContext()

	_, err := testutil.SampleMedicine(ctx, &entity.Medicine{
		Name:         "Dolo 650",
		Alternatives: "Calpol 650, Paracip 650",
	})
	require.NoError(t, err)

	searchCaller := &testutil.MockSearchCaller{}
	domain := newTestRecommendationDomain(ctx, searchCaller)

	resp, err := domain.GetAlternatives(ctx, &model.GetAlternativesRequest{
		Medicines: []string{"Dolo 650", "Unknown Med"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	require.Equal(t, []string{"Calpol 650", "Paracip 650"}, resp.Results[0].Alternatives)
	require.Empty(t, resp.Results[0].Error)
	require.Equal(t, "medicine not found in database", resp.Results[1].Error)

	// The batch size is bounded.
	tooMany := make([]string, 11)
	for i := range tooMany {
		tooMany[i] = "med"
	}
	_, err = domain.GetAlternatives(ctx, &model.GetAlternativesRequest{Medicines: tooMany})
	require.Equal(t, "Exceed the maximum of medicines per request (10)", err.Error())

	_, err = domain.GetAlternatives(ctx, &model.GetAlternativesRequest{})
	require.Equal(t, "Not allow empty medicine list", err.Error())
}

func Test_recommendationDomain_Search_CountsQueries(t *testing.T) {
	ctx := testutil.MockContext()

	medicine, err := testutil.SampleMedicine(ctx, nil)
	require.NoError(t, err)

	counted := map[string]int64{}
	redisClient := &testutil.MockRedisClient{
		ZIncrByFunc: func(ctx context.Context, key string, incr int64, member string) error {
			counted[member] += incr
			return nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			return nil, nil
		},
	}

	medicineRepo := repository.NewMedicineRepository()
	searchCaller := &testutil.MockSearchCaller{
		SearchFunc: func(document, query string, offset, limit int) ([]string, error) {
			return []string{medicine.ID}, nil
		},
	}
	completer := &testutil.MockCompleter{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return "answer", nil
		},
	}

	domain := NewRecommendationDomain(
		recommend.NewRecommender(ctx, searchCaller, medicineRepo, completer),
		medicineRepo,
		redisClient,
	)

	_, err = domain.Search(ctx, &model.SearchRequest{Query: medicine.Name})
	require.NoError(t, err)
	require.Equal(t, int64(1), counted[medicine.Name])
}
