package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"petadoption/internal/domain"
	"petadoption/internal/dto"
	"petadoption/internal/observability/metrics"
	"petadoption/internal/observability/middleware"
	"petadoption/internal/service"
	"petadoption/internal/store"
)

const birthDateLayout = "2006-01-02"

type AuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	TService        service.TokenService

	minAge int
	now    func() time.Time
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, tokenService service.TokenService, minAge int) *AuthServiceImpl {
	if minAge <= 0 {
		minAge = domain.MinimumAge
	}
	return &AuthServiceImpl{
		Store:           gormStoreAdapter{store: st},
		PasswordService: passwordService,
		TService:        tokenService,
		minAge:          minAge,
		now:             time.Now,
	}
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthRegistrationsTotal.WithLabelValues(result).Inc()
	}()

	u, err := a.validateRegistration(r)
	if err != nil {
		result = "invalid"
		return nil, err
	}

	hash, err := a.PasswordService.Hash(r.Password)
	if err != nil {
		result = "failure"
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash

	if err := a.Store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			result = "duplicate"
			return nil, domain.ErrDuplicateKey
		}
		result = "failure"
		return nil, err
	}

	slog.Info("user registered", append([]any{"user_id", u.ID}, middleware.LogAttrs(ctx)...)...)

	return &dto.RegisterResponse{UserID: u.ID, Message: "user registered"}, nil
}

// validateRegistration checks fields in form order and reports the first gap.
func (a *AuthServiceImpl) validateRegistration(r dto.RegisterRequest) (*domain.User, error) {
	u := &domain.User{
		Username:  strings.TrimSpace(r.Username),
		Email:     strings.TrimSpace(r.Email),
		Address:   strings.TrimSpace(r.Address),
		Cep:       strings.TrimSpace(r.Cep),
		Phone:     strings.TrimSpace(r.Phone),
		City:      strings.TrimSpace(r.City),
		BirthDate: strings.TrimSpace(r.BirthDate),
	}
	fields := []struct {
		name  string
		value string
	}{
		{"username", u.Username},
		{"email", u.Email},
		{"password", r.Password},
		{"address", u.Address},
		{"cep", u.Cep},
		{"phone", u.Phone},
		{"city", u.City},
		{"birthDate", u.BirthDate},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return nil, domain.Required(f.name)
		}
	}

	birth, err := time.Parse(birthDateLayout, u.BirthDate)
	if err != nil {
		return nil, domain.NewValidationError("birthDate", "must be a date in YYYY-MM-DD format")
	}
	if ageOn(birth, a.now()) < a.minAge {
		if a.minAge == domain.MinimumAge {
			return nil, domain.ErrUnderage
		}
		return nil, domain.NewValidationError("birthDate", fmt.Sprintf("you must be at least %d years old to register", a.minAge))
	}
	return u, nil
}

// ageOn returns completed years between birth and now by calendar date.
func ageOn(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues(result).Inc()
	}()

	email := strings.TrimSpace(r.Email)
	if email == "" || r.Password == "" {
		result = "invalid"
		return nil, domain.ErrInvalidCredentials
	}

	user, err := a.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			result = "invalid"
			return nil, domain.ErrInvalidCredentials // don't leak which field failed
		}
		result = "failure"
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !a.PasswordService.Verify(r.Password, user.PasswordHash) {
		result = "invalid"
		slog.Warn("login rejected", append([]any{"user_id", user.ID}, middleware.LogAttrs(ctx)...)...)
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := a.TService.IssueLogin(ctx, user)
	if err != nil {
		result = "failure"
		return nil, err
	}
	return tokens, nil
}

// ProvisionAdmin creates an administrator account. It skips the registration
// age and profile checks; username, email and password are still required.
func (a *AuthServiceImpl) ProvisionAdmin(ctx context.Context, username, email, password string) (*domain.User, error) {
	u := &domain.User{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		IsAdmin:  true,
	}
	switch {
	case u.Username == "":
		return nil, domain.Required("username")
	case u.Email == "":
		return nil, domain.Required("email")
	case password == "":
		return nil, domain.Required("password")
	}

	hash, err := a.PasswordService.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash

	if err := a.Store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, err
	}
	slog.Info("admin provisioned", "user_id", u.ID)
	return u, nil
}

// PromoteAdmin grants the admin flag to an existing account found by email or
// username. Tokens issued before the change keep their old flag until they expire.
func (a *AuthServiceImpl) PromoteAdmin(ctx context.Context, login string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, domain.Required("login")
	}

	var u *domain.User
	err := a.Store.WithTx(ctx, func(tx dataStore) error {
		var err error
		u, err = tx.Users().GetByEmail(ctx, login)
		if errors.Is(err, store.ErrRecordNotFound) {
			u, err = tx.Users().GetByUsername(ctx, login)
		}
		if err != nil {
			return notFound(err)
		}
		if u.IsAdmin {
			return nil
		}
		if err := tx.Users().SetAdmin(ctx, u.ID, true); err != nil {
			return notFound(err)
		}
		u.IsAdmin = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("admin promoted", "user_id", u.ID)
	return u, nil
}
