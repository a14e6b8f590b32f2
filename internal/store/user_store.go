package store

import (
	"context"
	"fmt"

	"petadoption/internal/domain"

	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

// Create inserts usr and fills in its ID. Username or email collisions
// return domain.ErrDuplicateKey.
func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if err := u.db.WithContext(ctx).Create(usr).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user: %w", domain.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return u.first(ctx, "id = ?", id)
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.first(ctx, "email = ?", email)
}

func (u *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return u.first(ctx, "username = ?", username)
}

func (u *UserStore) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (u *UserStore) UpdatePassword(ctx context.Context, id domain.UserID, hash string) error {
	res := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("password", hash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (u *UserStore) SetAdmin(ctx context.Context, id domain.UserID, admin bool) error {
	res := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("is_admin", admin)
	if res.Error != nil {
		return fmt.Errorf("set admin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (u *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := u.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}
