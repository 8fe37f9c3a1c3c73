package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/theraswitchrx/backend/internal/common"
	"github.com/theraswitchrx/backend/internal/domain/recommend"
	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/model"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/errorx"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"github.com/theraswitchrx/backend/pkg/xredis"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type RecommendationDomain interface {
	Search(context.Context, *model.SearchRequest) (*model.SearchResponse, error)
	GetMedicine(context.Context, *model.GetMedicineRequest) (*model.GetMedicineResponse, error)
	GetAlternatives(context.Context, *model.GetAlternativesRequest) (*model.GetAlternativesResponse, error)
}

type recommendationDomain struct {
	recommender  recommend.Recommender
	medicineRepo repository.MedicineRepository
	redisClient  xredis.Client
}

func NewRecommendationDomain(
	recommender recommend.Recommender,
	medicineRepo repository.MedicineRepository,
	redisClient xredis.Client,
) *recommendationDomain {
	return &recommendationDomain{
		recommender:  recommender,
		medicineRepo: medicineRepo,
		redisClient:  redisClient,
	}
}

func (d *recommendationDomain) Search(
	ctx context.Context, req *model.SearchRequest,
) (*model.SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty query")
	}

	result, err := d.recommender.Recommend(ctx, query)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get recommendation: %v", err)
		return nil, errorx.Unknown
	}

	d.countQueries(ctx, result.Medicines)

	return &model.SearchResponse{
		Query:          query,
		QueryType:      string(result.QueryType),
		Recommendation: result.Text,
		Matches:        convertMedicines(result.Medicines),
		IsFallback:     result.IsFallback,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (d *recommendationDomain) GetMedicine(
	ctx context.Context, req *model.GetMedicineRequest,
) (*model.GetMedicineResponse, error) {
	name := strings.TrimSpace(req.MedicineName)
	if name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty medicine name")
	}

	if !d.recommender.Active() {
		return nil, errorx.New(errorx.RecommenderDown,
			"Medical recommendation system is not initialized")
	}

	medicine, err := d.medicineRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found medicine %s", name)
		}

		xcontext.Logger(ctx).Errorf("Cannot get medicine: %v", err)
		return nil, errorx.Unknown
	}

	d.countQueries(ctx, []entity.Medicine{*medicine})

	resp := &model.GetMedicineResponse{Medicine: convertMedicine(medicine)}

	result, err := d.recommender.Recommend(ctx, "alternatives for "+medicine.Name)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get recommendation for %s: %v", medicine.Name, err)
	} else if !result.IsFallback {
		resp.Recommendation = result.Text
	}

	return resp, nil
}

func (d *recommendationDomain) GetAlternatives(
	ctx context.Context, req *model.GetAlternativesRequest,
) (*model.GetAlternativesResponse, error) {
	if len(req.Medicines) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty medicine list")
	}

	maxMedicines := xcontext.Configs(ctx).ApiServer.MaxBulkMedicines
	if len(req.Medicines) > maxMedicines {
		return nil, errorx.New(errorx.BadRequest,
			"Exceed the maximum of medicines per request (%d)", maxMedicines)
	}

	results := make([]model.AlternativeResult, len(req.Medicines))
	g, groupCtx := errgroup.WithContext(ctx)
	for i, name := range req.Medicines {
		i, name := i, name
		g.Go(func() error {
			results[i] = d.lookupAlternatives(groupCtx, name)
			return nil
		})
	}

	// Lookups never abort the batch, failures surface per medicine.
	if err := g.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve alternatives: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetAlternativesResponse{Results: results}, nil
}

func (d *recommendationDomain) lookupAlternatives(
	ctx context.Context, name string,
) model.AlternativeResult {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.AlternativeResult{Medicine: name, Error: "empty medicine name"}
	}

	medicine, err := d.medicineRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.AlternativeResult{Medicine: name, Error: "medicine not found in database"}
		}

		xcontext.Logger(ctx).Errorf("Cannot get medicine %s: %v", name, err)
		return model.AlternativeResult{Medicine: name, Error: "internal error"}
	}

	return model.AlternativeResult{
		Medicine:     medicine.Name,
		Alternatives: splitAlternatives(medicine.Alternatives),
	}
}

func (d *recommendationDomain) countQueries(ctx context.Context, medicines []entity.Medicine) {
	if d.redisClient == nil {
		return
	}

	for _, m := range medicines {
		err := d.redisClient.ZIncrBy(ctx, common.RedisKeyTopMedicines(), 1, m.Name)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot count query of %s: %v", m.Name, err)
		}
	}
}

func splitAlternatives(alternatives string) []string {
	if alternatives == "" || strings.EqualFold(alternatives, "No alternatives listed") {
		return nil
	}

	parts := strings.Split(alternatives, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" && !slices.Contains(names, p) {
			names = append(names, p)
		}
	}

	return names
}

func convertMedicine(m *entity.Medicine) model.Medicine {
	return model.Medicine{
		Name:            m.Name,
		SaltComposition: m.SaltComposition,
		Description:     m.Description,
		Manufacturer:    m.Manufacturer,
		Price:           m.Price,
		Alternatives:    m.Alternatives,
		SideEffects:     m.SideEffects,
	}
}

func convertMedicines(medicines []entity.Medicine) []model.Medicine {
	result := make([]model.Medicine, 0, len(medicines))
	for i := range medicines {
		result = append(result, convertMedicine(&medicines[i]))
	}

	return result
}
