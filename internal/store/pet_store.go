package store

import (
	"context"
	"fmt"

	"petadoption/internal/domain"

	"gorm.io/gorm"
)

type PetStore struct{ db *gorm.DB }

func (s *Store) Pets() *PetStore { return &PetStore{db: s.DB} }

func (p *PetStore) withOwner(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx).Model(&domain.Pet{}).
		Select("pets.*, users.username AS owner_username").
		Joins("JOIN users ON users.id = pets.user_id")
}

func (p *PetStore) Create(ctx context.Context, pet *domain.Pet) error {
	if err := p.db.WithContext(ctx).Create(pet).Error; err != nil {
		return fmt.Errorf("create pet: %w", err)
	}
	return nil
}

// Get returns the pet with its owner's username.
func (p *PetStore) Get(ctx context.Context, id domain.PetID) (*domain.Pet, error) {
	var pet domain.Pet
	if err := p.withOwner(ctx).Where("pets.id = ?", id).First(&pet).Error; err != nil {
		return nil, notFound(err)
	}
	return &pet, nil
}

func (p *PetStore) ListWithOwners(ctx context.Context) ([]domain.Pet, error) {
	pets := []domain.Pet{}
	if err := p.withOwner(ctx).Order("pets.id").Find(&pets).Error; err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	return pets, nil
}

// Update overwrites every writable column. user_id is never touched.
func (p *PetStore) Update(ctx context.Context, pet *domain.Pet) error {
	res := p.db.WithContext(ctx).Model(&domain.Pet{}).
		Where("id = ?", pet.ID).
		Updates(map[string]any{
			"name":        pet.Name,
			"age":         pet.Age,
			"description": pet.Description,
			"image":       pet.Image,
			"category":    pet.Category,
			"location":    pet.Location,
			"featured":    pet.Featured,
			"new":         pet.New,
		})
	if res.Error != nil {
		return fmt.Errorf("update pet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (p *PetStore) Delete(ctx context.Context, id domain.PetID) error {
	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Pet{})
	if res.Error != nil {
		return fmt.Errorf("delete pet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
