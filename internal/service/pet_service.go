package service

import (
	"context"

	"petadoption/internal/domain"
	"petadoption/internal/dto"
)

type PetService interface {
	List(ctx context.Context) ([]domain.Pet, error)
	Get(ctx context.Context, id domain.PetID) (*domain.Pet, error)
	Create(ctx context.Context, p domain.Principal, in dto.PetInput, img *dto.Upload) (*domain.Pet, error)
	Update(ctx context.Context, p domain.Principal, id domain.PetID, form dto.PetForm) (*domain.Pet, error)
	Delete(ctx context.Context, p domain.Principal, id domain.PetID) error
}
