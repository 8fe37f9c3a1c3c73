package recommend

import (
	"context"

	"github.com/theraswitchrx/backend/internal/domain/search"
	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/xcontext"
)

type Result struct {
	QueryType  QueryType
	Text       string
	Medicines  []entity.Medicine
	IsFallback bool
}

type Recommender interface {
	Recommend(ctx context.Context, query string) (*Result, error)

	// Active reports whether at least one completion backend is configured.
	Active() bool
}

type recommender struct {
	searchCaller search.Caller
	medicineRepo repository.MedicineRepository
	completers   []Completer
	topK         int
}

func NewRecommender(
	ctx context.Context,
	searchCaller search.Caller,
	medicineRepo repository.MedicineRepository,
	completers ...Completer,
) *recommender {
	topK := xcontext.Configs(ctx).SearchIndex.TopK
	if topK <= 0 {
		topK = 3
	}

	return &recommender{
		searchCaller: searchCaller,
		medicineRepo: medicineRepo,
		completers:   completers,
		topK:         topK,
	}
}

func (r *recommender) Active() bool {
	return len(r.completers) > 0
}

func (r *recommender) Recommend(ctx context.Context, query string) (*Result, error) {
	queryType := DetectQueryType(query)

	medicines, err := r.retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	prompt, err := renderPrompt(queryType, renderContext(medicines), query)
	if err != nil {
		return nil, err
	}

	for _, completer := range r.completers {
		text, err := completer.Complete(ctx, systemPrompt, prompt)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Completer %s failed: %v", completer.Name(), err)
			continue
		}

		return &Result{
			QueryType: queryType,
			Text:      text,
			Medicines: medicines,
		}, nil
	}

	xcontext.Logger(ctx).Warnf("All completers failed, answering query %q with fallback", query)
	return &Result{
		QueryType:  queryType,
		Text:       FallbackText(query),
		Medicines:  medicines,
		IsFallback: true,
	}, nil
}

func (r *recommender) retrieve(ctx context.Context, query string) ([]entity.Medicine, error) {
	ids, err := r.searchCaller.Search(search.MedicineDoc, query, 0, r.topK)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	return r.medicineRepo.GetByIDs(ctx, ids)
}
