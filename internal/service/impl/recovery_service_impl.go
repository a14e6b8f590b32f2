package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"petadoption/internal/domain"
	"petadoption/internal/notify"
	"petadoption/internal/observability/metrics"
	"petadoption/internal/observability/middleware"
	"petadoption/internal/service"
	"petadoption/internal/store"
)

const resetSubject = "Password reset"

type RecoveryServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	TService        service.TokenService
	Notifier        notify.Channel
	// ResetURLBase is the front-end page that receives ?token=.
	ResetURLBase string
}

func NewRecoveryServiceImpl(st *store.Store, pw service.PasswordService, ts service.TokenService, notifier notify.Channel, resetURLBase string) *RecoveryServiceImpl {
	return &RecoveryServiceImpl{
		Store:           gormStoreAdapter{store: st},
		PasswordService: pw,
		TService:        ts,
		Notifier:        notifier,
		ResetURLBase:    resetURLBase,
	}
}

// RequestReset mails a recovery link to a registered address. Delivery
// failures are logged and counted but not returned to the caller.
func (s *RecoveryServiceImpl) RequestReset(ctx context.Context, email string) error {
	result := "success"
	defer func() {
		metrics.PasswordResetsTotal.WithLabelValues("request", result).Inc()
	}()

	email = strings.TrimSpace(email)
	if email == "" {
		result = "invalid"
		return domain.Required("email")
	}

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			result = "unknown_email"
			return domain.ErrNotFound
		}
		result = "failure"
		return fmt.Errorf("load user: %w", err)
	}

	tok, err := s.TService.IssueRecovery(ctx, user.ID)
	if err != nil {
		result = "failure"
		return err
	}

	body := "A password reset was requested for your account.\n\n" +
		"Open the link below within the next hour to choose a new password:\n" +
		s.resetLink(tok) + "\n\n" +
		"If you did not ask for this, ignore this message.\n"

	if err := s.Notifier.Send(ctx, user.Email, resetSubject, body); err != nil {
		metrics.NotificationsSentTotal.WithLabelValues("failure").Inc()
		slog.Warn("reset email not delivered", append([]any{"user_id", user.ID, "error", err}, middleware.LogAttrs(ctx)...)...)
		return nil
	}
	metrics.NotificationsSentTotal.WithLabelValues("success").Inc()
	slog.Info("reset email sent", append([]any{"user_id", user.ID}, middleware.LogAttrs(ctx)...)...)
	return nil
}

func (s *RecoveryServiceImpl) resetLink(tok string) string {
	sep := "?"
	if strings.Contains(s.ResetURLBase, "?") {
		sep = "&"
	}
	return s.ResetURLBase + sep + "token=" + url.QueryEscape(tok)
}

// ResetPassword replaces the subject's password hash. Recovery tokens stay
// usable until they expire.
func (s *RecoveryServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	result := "success"
	defer func() {
		metrics.PasswordResetsTotal.WithLabelValues("reset", result).Inc()
	}()

	if newPassword == "" {
		result = "invalid"
		return domain.Required("newPassword")
	}

	subject, err := s.TService.Verify(strings.TrimSpace(token))
	if err != nil {
		result = "invalid_token"
		slog.Warn("reset token rejected", append([]any{"error", err}, middleware.LogAttrs(ctx)...)...)
		return domain.ErrInvalidOrExpiredToken
	}

	hash, err := s.PasswordService.Hash(newPassword)
	if err != nil {
		result = "failure"
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.Store.Users().UpdatePassword(ctx, subject.Subject, hash); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			result = "invalid_token"
			return domain.ErrInvalidOrExpiredToken
		}
		result = "failure"
		return err
	}

	slog.Info("password reset", append([]any{"user_id", subject.Subject}, middleware.LogAttrs(ctx)...)...)
	return nil
}
