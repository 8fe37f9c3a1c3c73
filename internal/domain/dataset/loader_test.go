package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/theraswitchrx/backend/internal/domain/search"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/storage"
	"github.com/theraswitchrx/backend/pkg/testutil"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `name,salt_composition,alternatives,price,manufacturer_name,medicine_desc,side_effects
Avastin 400mg Injection,Bevacizumab (400mg),"Bevarest 400mg, Krabeva 400mg",Rs.35000,Roche,Targeted cancer therapy,Fatigue
Dolo 650 Tablet,Paracetamol (650mg),No alternatives listed,30.5,Micro Labs,Fever reducer,Nausea
bad"row,Paracetamol (650mg),Calpol 650
Crocin Advance,Paracetamol (500mg),"Dolo 650",20,GSK,,
`

func Test_Loader_Load(t *testing.T) {
	ctx := testutil.MockContext()

	path := filepath.Join(t.TempDir(), "medicines.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	cfg := xcontext.Configs(ctx)
	cfg.Dataset.CSVPath = path
	ctx = xcontext.WithConfigs(ctx, cfg)

	indexed := map[string][]string{}
	searchCaller := &testutil.MockSearchCaller{
		IndexFunc: func(document, id string, data any) error {
			indexed[document] = append(indexed[document], id)
			return nil
		},
	}

	medicineRepo := repository.NewMedicineRepository()
	summary, err := NewLoader(medicineRepo, searchCaller, nil).Load(ctx)
	require.NoError(t, err)

	require.Equal(t, 3, summary.TotalRecords)
	require.Equal(t, 3, summary.UniqueMedicines)
	require.Equal(t, 2, summary.MedicinesWithAlternative)
	require.Equal(t, 3, summary.MedicinesWithPrice)

	// Every stored row was indexed under both document kinds.
	require.Len(t, indexed[search.MedicineDoc], 3)
	require.Len(t, indexed[search.AlternativeDoc], 3)

	avastin, err := medicineRepo.GetByName(ctx, "avastin 400mg injection")
	require.NoError(t, err)
	require.Equal(t, 35000.0, avastin.Price)
	require.Equal(t, "Roche", avastin.Manufacturer)

	// Blank cells fall back to their defaults.
	crocin, err := medicineRepo.GetByName(ctx, "Crocin Advance")
	require.NoError(t, err)
	require.Equal(t, defaultDescription, crocin.Description)
	require.Equal(t, defaultSideEffects, crocin.SideEffects)
}

func Test_Loader_Load_EssentialColumns(t *testing.T) {
	ctx := testutil.MockContext()

	path := filepath.Join(t.TempDir(), "medicines.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,price\nDolo 650,30\n"), 0644))

	cfg := xcontext.Configs(ctx)
	cfg.Dataset.CSVPath = path
	ctx = xcontext.WithConfigs(ctx, cfg)

	_, err := NewLoader(repository.NewMedicineRepository(), &testutil.MockSearchCaller{}, nil).Load(ctx)
	require.ErrorContains(t, err, "salt_composition")
}

func Test_Loader_Load_FromObjectStorage(t *testing.T) {
	ctx := testutil.MockContext()

	// The CSV path keeps its default; a configured bucket must win over it.
	cfg := xcontext.Configs(ctx)
	cfg.Dataset.CSVPath = "data/missing.csv"
	cfg.Dataset.Bucket = "datasets"
	cfg.Dataset.Object = "medicines.csv"
	ctx = xcontext.WithConfigs(ctx, cfg)

	var uploadedSummary []byte
	objectStorage := &testutil.MockStorage{
		DownloadFunc: func(ctx context.Context, bucket, key string) ([]byte, error) {
			require.Equal(t, "datasets", bucket)
			require.Equal(t, "medicines.csv", key)
			return []byte(sampleCSV), nil
		},
		UploadFunc: func(ctx context.Context, object *storage.UploadObject) (*storage.UploadResponse, error) {
			uploadedSummary = object.Data
			return &storage.UploadResponse{FileName: object.FileName}, nil
		},
	}

	loader := NewLoader(repository.NewMedicineRepository(), &testutil.MockSearchCaller{}, objectStorage)
	summary, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, summary.TotalRecords)
	require.NotEmpty(t, uploadedSummary)
}

func Test_Loader_Load_NoSource(t *testing.T) {
	ctx := testutil.MockContext()

	_, err := NewLoader(repository.NewMedicineRepository(), &testutil.MockSearchCaller{}, nil).Load(ctx)
	require.ErrorContains(t, err, "no dataset source")
}
