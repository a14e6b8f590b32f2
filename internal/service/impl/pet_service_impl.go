package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"petadoption/internal/authz"
	"petadoption/internal/domain"
	"petadoption/internal/dto"
	"petadoption/internal/observability/metrics"
	"petadoption/internal/observability/middleware"
	"petadoption/internal/storage"
	"petadoption/internal/store"
)

type PetServiceImpl struct {
	Store dataStore
	Files storage.FileStorage
}

func NewPetServiceImpl(st *store.Store, files storage.FileStorage) *PetServiceImpl {
	return &PetServiceImpl{Store: gormStoreAdapter{store: st}, Files: files}
}

func (s *PetServiceImpl) List(ctx context.Context) ([]domain.Pet, error) {
	return s.Store.Pets().ListWithOwners(ctx)
}

func (s *PetServiceImpl) Get(ctx context.Context, id domain.PetID) (*domain.Pet, error) {
	pet, err := s.Store.Pets().Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return pet, nil
}

func (s *PetServiceImpl) Create(ctx context.Context, p domain.Principal, in dto.PetInput, img *dto.Upload) (*domain.Pet, error) {
	result := "success"
	defer func() {
		metrics.PetMutationsTotal.WithLabelValues("create", result).Inc()
	}()

	in, err := validatePet(in)
	if err != nil {
		result = "invalid"
		return nil, err
	}

	pet := &domain.Pet{OwnerID: p.UserID}
	applyPetInput(pet, in)

	if img != nil {
		name, err := s.Files.Save(ctx, img.Filename, img.ContentType, img.Body)
		if err != nil {
			result = "failure"
			return nil, fmt.Errorf("save image: %w", err)
		}
		pet.Image = name
	}

	if err := s.Store.Pets().Create(ctx, pet); err != nil {
		result = "failure"
		s.discardImage(ctx, pet.Image)
		return nil, err
	}

	slog.Info("pet created", append([]any{"pet_id", pet.ID, "user_id", p.UserID}, middleware.LogAttrs(ctx)...)...)
	return s.Get(ctx, pet.ID)
}

// Update replaces every writable field of pet id. The stored image is kept
// when the form carries no file. Checks run in order: existence, ownership,
// then the form is decoded and validated.
func (s *PetServiceImpl) Update(ctx context.Context, p domain.Principal, id domain.PetID, form dto.PetForm) (*domain.Pet, error) {
	var result string
	defer func() {
		metrics.PetMutationsTotal.WithLabelValues("update", result).Inc()
	}()

	var saved string
	err := s.Store.WithTx(ctx, func(tx dataStore) error {
		pet, err := gate(ctx, tx, p, id, "update")
		if err != nil {
			return err
		}

		in, img, err := form()
		if err != nil {
			return err
		}
		in, err = validatePet(in)
		if err != nil {
			return err
		}
		applyPetInput(pet, in)

		if img != nil {
			name, err := s.Files.Save(ctx, img.Filename, img.ContentType, img.Body)
			if err != nil {
				return fmt.Errorf("save image: %w", err)
			}
			saved = name
			pet.Image = name
		}

		return notFound(tx.Pets().Update(ctx, pet))
	})
	if err != nil {
		s.discardImage(ctx, saved)
		result = outcome(err)
		return nil, err
	}

	result = "success"
	slog.Info("pet updated", append([]any{"pet_id", id, "user_id", p.UserID, "admin", p.IsAdmin}, middleware.LogAttrs(ctx)...)...)
	return s.Get(ctx, id)
}

func (s *PetServiceImpl) Delete(ctx context.Context, p domain.Principal, id domain.PetID) error {
	var result string
	defer func() {
		metrics.PetMutationsTotal.WithLabelValues("delete", result).Inc()
	}()

	err := s.Store.WithTx(ctx, func(tx dataStore) error {
		if _, err := gate(ctx, tx, p, id, "delete"); err != nil {
			return err
		}
		return notFound(tx.Pets().Delete(ctx, id))
	})
	if err != nil {
		result = outcome(err)
		return err
	}

	result = "success"
	slog.Info("pet deleted", append([]any{"pet_id", id, "user_id", p.UserID, "admin", p.IsAdmin}, middleware.LogAttrs(ctx)...)...)
	return nil
}

// discardImage removes a file saved for a write that did not commit.
func (s *PetServiceImpl) discardImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.Files.Remove(context.WithoutCancel(ctx), name); err != nil {
		slog.Warn("orphaned image not removed", append([]any{"image", name, "error", err}, middleware.LogAttrs(ctx)...)...)
	}
}

// gate loads the pet and applies the ownership policy. A miss is
// domain.ErrNotFound, a denial domain.ErrForbidden.
func gate(ctx context.Context, st dataStore, p domain.Principal, id domain.PetID, op string) (*domain.Pet, error) {
	pet, err := st.Pets().Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := authz.Authorize(p, pet.OwnerID); err != nil {
		slog.Warn("pet "+op+" denied", append([]any{"pet_id", id, "owner_id", pet.OwnerID, "user_id", p.UserID}, middleware.LogAttrs(ctx)...)...)
		return nil, err
	}
	return pet, nil
}

func validatePet(in dto.PetInput) (dto.PetInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, domain.Required("name")
	}
	if in.Age < 0 {
		return in, domain.NewValidationError("age", "must not be negative")
	}
	return in, nil
}

func applyPetInput(pet *domain.Pet, in dto.PetInput) {
	pet.Name = in.Name
	pet.Age = in.Age
	pet.Description = in.Description
	pet.Category = in.Category
	pet.Location = in.Location
	pet.Featured = in.Featured
	pet.New = in.New
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "failure"
	}
}
