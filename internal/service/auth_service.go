package service

import (
	"context"

	"petadoption/internal/dto"
)

type AuthService interface {
	Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, r dto.LoginRequest) (*dto.TokenResponse, error)
}
