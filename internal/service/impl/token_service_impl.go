package impl

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"petadoption/internal/domain"
	"petadoption/internal/dto"
	"petadoption/internal/jwtsigner"
	"petadoption/internal/observability/metrics"
	"petadoption/internal/observability/middleware"
)

type TokenConfig struct {
	LoginTTL    time.Duration // 2h
	RecoveryTTL time.Duration // 1h
}

type TokenServiceImpl struct {
	cfg    TokenConfig
	signer *jwtsigner.Signer
}

func NewTokenServiceHS256(cfg TokenConfig, signer *jwtsigner.Signer) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, signer: signer}
}

// Issue signs a token for subject. Expiry has one-second precision.
func (t *TokenServiceImpl) Issue(subject domain.UserID, claims map[string]any, ttl time.Duration) (string, error) {
	return t.signer.Sign(strconv.FormatInt(subject, 10), ttl, claims)
}

func (t *TokenServiceImpl) Verify(token string) (*domain.TokenSubject, error) {
	sub, claims, err := t.signer.Parse(token)
	if err != nil {
		switch {
		case errors.Is(err, jwtsigner.ErrExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwtsigner.ErrSignature):
			return nil, domain.ErrTokenSignature
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}
	return &domain.TokenSubject{Subject: id, Claims: claims}, nil
}

// IssueLogin mints the session token carrying the admin flag as of now.
func (t *TokenServiceImpl) IssueLogin(ctx context.Context, user *domain.User) (*dto.TokenResponse, error) {
	tok, err := t.Issue(user.ID, map[string]any{domain.ClaimIsAdmin: user.IsAdmin}, t.cfg.LoginTTL)
	metrics.TokensIssuedTotal.WithLabelValues("login", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	slog.Info("issued login token", append([]any{"user_id", user.ID}, middleware.LogAttrs(ctx)...)...)

	return &dto.TokenResponse{
		Token:     tok,
		ExpiresIn: int64(t.cfg.LoginTTL.Seconds()),
	}, nil
}

// IssueRecovery mints a subject-only token for the password reset link.
func (t *TokenServiceImpl) IssueRecovery(ctx context.Context, userID domain.UserID) (string, error) {
	tok, err := t.Issue(userID, nil, t.cfg.RecoveryTTL)
	metrics.TokensIssuedTotal.WithLabelValues("recovery", metrics.Result(err)).Inc()
	if err != nil {
		return "", err
	}
	slog.Info("issued recovery token", append([]any{"user_id", userID}, middleware.LogAttrs(ctx)...)...)
	return tok, nil
}
