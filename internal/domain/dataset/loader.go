package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/theraswitchrx/backend/internal/domain/search"
	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/crypto"
	"github.com/theraswitchrx/backend/pkg/storage"
	"github.com/theraswitchrx/backend/pkg/xcontext"
)

// Column defaults applied to blank dataset cells.
const (
	defaultName         = "Unknown Medicine"
	defaultComposition  = "Composition not specified"
	defaultAlternatives = "No alternatives listed"
	defaultManufacturer = "Unknown"
	defaultDescription  = "No description"
	defaultSideEffects  = "Not specified"
)

type Summary struct {
	TotalRecords             int `json:"total_records"`
	UniqueMedicines          int `json:"unique_medicines"`
	MedicinesWithAlternative int `json:"medicines_with_alternatives"`
	MedicinesWithPrice       int `json:"medicines_with_price"`
	UniqueManufacturers      int `json:"unique_manufacturers"`
	UniqueCompositions       int `json:"unique_compositions"`
}

type Loader struct {
	medicineRepo  repository.MedicineRepository
	searchCaller  search.Caller
	objectStorage storage.Storage
}

func NewLoader(
	medicineRepo repository.MedicineRepository,
	searchCaller search.Caller,
	objectStorage storage.Storage,
) *Loader {
	return &Loader{
		medicineRepo:  medicineRepo,
		searchCaller:  searchCaller,
		objectStorage: objectStorage,
	}
}

// Load reads the medicine dataset, upserts every record and indexes it for
// full-text search. The dataset comes from a local CSV file when one is
// configured, otherwise from object storage.
func (l *Loader) Load(ctx context.Context) (*Summary, error) {
	data, err := l.readDataset(ctx)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read dataset header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range []string{"name", "salt_composition", "alternatives"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("dataset misses essential column %s", required)
		}
	}

	summary := &Summary{}
	names := map[string]struct{}{}
	manufacturers := map[string]struct{}{}
	compositions := map[string]struct{}{}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			xcontext.Logger(ctx).Warnf("Skipped a malformed dataset row: %v", err)
			continue
		}

		medicine := rowToMedicine(row, columns)
		if err := l.store(ctx, medicine); err != nil {
			return nil, err
		}

		summary.TotalRecords++
		names[strings.ToLower(medicine.Name)] = struct{}{}
		manufacturers[medicine.Manufacturer] = struct{}{}
		compositions[medicine.SaltComposition] = struct{}{}
		if medicine.Alternatives != defaultAlternatives {
			summary.MedicinesWithAlternative++
		}
		if medicine.Price > 0 {
			summary.MedicinesWithPrice++
		}
	}

	summary.UniqueMedicines = len(names)
	summary.UniqueManufacturers = len(manufacturers)
	summary.UniqueCompositions = len(compositions)

	if err := l.uploadSummary(ctx, summary); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot upload dataset summary: %v", err)
	}

	return summary, nil
}

// readDataset prefers object storage over the local CSV since the CSV path
// always carries a default value.
func (l *Loader) readDataset(ctx context.Context) ([]byte, error) {
	cfg := xcontext.Configs(ctx).Dataset
	if l.objectStorage != nil && cfg.Bucket != "" {
		return l.objectStorage.Download(ctx, cfg.Bucket, cfg.Object)
	}

	if cfg.CSVPath != "" {
		return os.ReadFile(cfg.CSVPath)
	}

	return nil, errors.New("no dataset source is configured")
}

func (l *Loader) store(ctx context.Context, medicine *entity.Medicine) error {
	if err := l.medicineRepo.Upsert(ctx, medicine); err != nil {
		return fmt.Errorf("cannot upsert medicine %s: %w", medicine.Name, err)
	}

	err := l.searchCaller.Index(search.MedicineDoc, medicine.ID, search.MedicineData{
		Name:            medicine.Name,
		SaltComposition: medicine.SaltComposition,
		Description:     medicine.Description,
		Manufacturer:    medicine.Manufacturer,
		Alternatives:    medicine.Alternatives,
	})
	if err != nil {
		return fmt.Errorf("cannot index medicine %s: %w", medicine.Name, err)
	}

	err = l.searchCaller.Index(search.AlternativeDoc, medicine.ID, search.AlternativeData{
		Name:            medicine.Name,
		SaltComposition: medicine.SaltComposition,
		Alternatives:    medicine.Alternatives,
	})
	if err != nil {
		return fmt.Errorf("cannot index alternatives of %s: %w", medicine.Name, err)
	}

	return nil
}

func (l *Loader) uploadSummary(ctx context.Context, summary *Summary) error {
	cfg := xcontext.Configs(ctx).Dataset
	if l.objectStorage == nil || cfg.Bucket == "" {
		return nil
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	_, err = l.objectStorage.Upload(ctx, &storage.UploadObject{
		Bucket:   cfg.Bucket,
		Prefix:   "summary",
		FileName: "dataset_summary.json",
		Mime:     "application/json",
		Data:     data,
	})

	return err
}

func rowToMedicine(row []string, columns map[string]int) *entity.Medicine {
	name := cell(row, columns, "name", defaultName)

	price := 0.0
	if raw := cell(row, columns, "price", ""); raw != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimPrefix(raw, "Rs."), 64); err == nil {
			price = parsed
		}
	}

	return &entity.Medicine{
		// Ids derive from the name so reindexing the dataset never breaks
		// references held by the search index.
		Base:            entity.Base{ID: crypto.SHA256([]byte(strings.ToLower(name)))[:32]},
		Name:            name,
		SaltComposition: cell(row, columns, "salt_composition", defaultComposition),
		Description:     cell(row, columns, "medicine_desc", defaultDescription),
		Manufacturer:    cell(row, columns, "manufacturer_name", defaultManufacturer),
		Price:           price,
		Alternatives:    cell(row, columns, "alternatives", defaultAlternatives),
		SideEffects:     cell(row, columns, "side_effects", defaultSideEffects),
	}
}

func cell(row []string, columns map[string]int, name, fallback string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return fallback
	}

	value := strings.TrimSpace(row[i])
	if value == "" {
		return fallback
	}

	return value
}
