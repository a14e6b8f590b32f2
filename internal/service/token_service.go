package service

import (
	"context"
	"time"

	"petadoption/internal/domain"
	"petadoption/internal/dto"
)

// TokenVerifier resolves a bearer token into its subject and claims.
type TokenVerifier interface {
	Verify(token string) (*domain.TokenSubject, error)
}

type TokenService interface {
	TokenVerifier
	Issue(subject domain.UserID, claims map[string]any, ttl time.Duration) (string, error)
	IssueLogin(ctx context.Context, user *domain.User) (*dto.TokenResponse, error)
	IssueRecovery(ctx context.Context, userID domain.UserID) (string, error)
}
