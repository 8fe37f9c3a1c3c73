package main

import (
	"github.com/theraswitchrx/backend/internal/domain/dataset"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startIndexer(*cli.Context) error {
	s.loadDatabase()
	s.migrateDB()
	s.loadSearchIndex()
	s.loadStorage()
	s.loadRepos()

	defer s.searchCaller.Close()

	loader := dataset.NewLoader(s.medicineRepo, s.searchCaller, s.objectStorage)
	summary, err := loader.Load(s.ctx)
	if err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot build the medicine index: %v", err)
		return err
	}

	xcontext.Logger(s.ctx).Infof(
		"Indexed %d records (%d unique medicines, %d with alternatives, %d with price)",
		summary.TotalRecords, summary.UniqueMedicines,
		summary.MedicinesWithAlternative, summary.MedicinesWithPrice,
	)

	return nil
}
