package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_recommender_Recommend(t *testing.T) {
	ctx := testutil.MockContext()

	medicine, err := testutil.SampleMedicine(ctx, &entity.Medicine{Name: "Dolo 650"})
	require.NoError(t, err)

	searchCaller := &testutil.MockSearchCaller{
		SearchFunc: func(document, query string, offset, limit int) ([]string, error) {
			return []string{medicine.ID}, nil
		},
	}

	completer := &testutil.MockCompleter{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			require.True(t, strings.Contains(user, medicine.Name))
			return "recommendation text", nil
		},
	}

	recommender := NewRecommender(ctx, searchCaller, repository.NewMedicineRepository(), completer)
	result, err := recommender.Recommend(ctx, "alternatives to Dolo 650")
	require.NoError(t, err)
	require.False(t, result.IsFallback)
	require.Equal(t, "recommendation text", result.Text)
	require.Len(t, result.Medicines, 1)
	require.Equal(t, medicine.Name, result.Medicines[0].Name)
}

func Test_recommender_FallsBackWhenAllCompletersFail(t *testing.T) {
	ctx := testutil.MockContext()

	searchCaller := &testutil.MockSearchCaller{
		SearchFunc: func(document, query string, offset, limit int) ([]string, error) {
			return nil, nil
		},
	}

	broken := &testutil.MockCompleter{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return "", errors.New("backend down")
		},
	}

	recommender := NewRecommender(ctx, searchCaller, repository.NewMedicineRepository(), broken, broken)
	result, err := recommender.Recommend(ctx, "alternatives to Dolo 650")
	require.NoError(t, err)
	require.True(t, result.IsFallback)
	require.Contains(t, result.Text, "Dolo 650")
}

func Test_recommender_SecondCompleterTakesOver(t *testing.T) {
	ctx := testutil.MockContext()

	searchCaller := &testutil.MockSearchCaller{
		SearchFunc: func(document, query string, offset, limit int) ([]string, error) {
			return nil, nil
		},
	}

	broken := &testutil.MockCompleter{
		NameValue: "primary",
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return "", errors.New("backend down")
		},
	}
	working := &testutil.MockCompleter{
		NameValue: "secondary",
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return "answer from secondary", nil
		},
	}

	recommender := NewRecommender(ctx, searchCaller, repository.NewMedicineRepository(), broken, working)
	result, err := recommender.Recommend(ctx, "Magvion")
	require.NoError(t, err)
	require.False(t, result.IsFallback)
	require.Equal(t, "answer from secondary", result.Text)
}
