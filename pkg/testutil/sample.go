package testutil

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/theraswitchrx/backend/internal/common"
	"github.com/theraswitchrx/backend/internal/entity"
	"github.com/theraswitchrx/backend/internal/repository"
	"github.com/theraswitchrx/backend/pkg/crypto"
)

// SampleMedicine creates a medicine record with randomized fields. Non-zero
// fields of init overwrite the sample before it is saved.
func SampleMedicine(ctx context.Context, init *entity.Medicine) (entity.Medicine, error) {
	medicineRepo := repository.NewMedicineRepository()

	name := "Medicine-" + uuid.NewString()
	sample := &entity.Medicine{
		Base:            entity.Base{ID: crypto.SHA256([]byte(strings.ToLower(name)))[:32]},
		Name:            name,
		SaltComposition: "Paracetamol (500mg)",
		Description:     "Sample medicine for tests",
		Manufacturer:    "Acme Pharma",
		Price:           25.5,
		Alternatives:    "Altcetamol, Paraceta Plus",
		SideEffects:     "Nausea",
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := medicineRepo.Upsert(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

// SampleAPIKey issues a key record directly to the database and returns it
// together with the plaintext key.
func SampleAPIKey(ctx context.Context, init *entity.APIKey) (entity.APIKey, string, error) {
	apiKeyRepo := repository.NewAPIKeyRepository()

	plaintext, hash, keyID, err := common.GenerateAPIKey()
	if err != nil {
		return entity.APIKey{}, "", err
	}

	now := time.Now()
	sample := &entity.APIKey{
		Base:         entity.Base{ID: keyID},
		KeyHash:      hash,
		UserName:     "Tester",
		UserEmail:    uuid.NewString() + "@example.com",
		Plan:         entity.PlanFree,
		RequestLimit: entity.PlanFree.DailyLimit(),
		LimitResetAt: now,
		IsActive:     true,
		ExpiresAt:    now.Add(365 * 24 * time.Hour),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := apiKeyRepo.Create(ctx, sample); err != nil {
		return *sample, "", err
	}

	return *sample, plaintext, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.Comparable() {
			continue
		}

		if overwriteField.Interface() != reflect.Zero(overwriteField.Type()).Interface() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
