package impl

import (
	"context"
	"errors"

	"petadoption/internal/domain"
	"petadoption/internal/store"
)

type dataStore interface {
	Users() userStore
	Pets() petStore
	WithTx(ctx context.Context, fn func(tx dataStore) error) error
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id domain.UserID, hash string) error
	SetAdmin(ctx context.Context, id domain.UserID, admin bool) error
}

type petStore interface {
	Create(ctx context.Context, pet *domain.Pet) error
	Get(ctx context.Context, id domain.PetID) (*domain.Pet, error)
	ListWithOwners(ctx context.Context) ([]domain.Pet, error)
	Update(ctx context.Context, pet *domain.Pet) error
	Delete(ctx context.Context, id domain.PetID) error
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) Users() userStore { return g.store.Users() }

func (g gormStoreAdapter) Pets() petStore { return g.store.Pets() }

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx dataStore) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormStoreAdapter{store: tx})
	})
}

// notFound turns the store's miss into the domain error handlers map to 404.
func notFound(err error) error {
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
