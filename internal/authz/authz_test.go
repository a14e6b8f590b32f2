package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"petadoption/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	subject *domain.TokenSubject
	err     error
	calls   []string
}

func (s *stubVerifier) Verify(token string) (*domain.TokenSubject, error) {
	s.calls = append(s.calls, token)
	return s.subject, s.err
}

func TestCanMutate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		p     domain.Principal
		owner domain.UserID
		want  bool
	}{
		{"owner", domain.Principal{UserID: 1}, 1, true},
		{"stranger", domain.Principal{UserID: 2}, 1, false},
		{"admin", domain.Principal{UserID: 2, IsAdmin: true}, 1, true},
		{"admin owner", domain.Principal{UserID: 1, IsAdmin: true}, 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanMutate(tc.p, tc.owner))
			if tc.want {
				assert.NoError(t, Authorize(tc.p, tc.owner))
			} else {
				assert.ErrorIs(t, Authorize(tc.p, tc.owner), domain.ErrForbidden)
			}
		})
	}
}

func TestPrincipalContext(t *testing.T) {
	t.Parallel()

	_, ok := PrincipalFrom(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), domain.Principal{UserID: 9, IsAdmin: true})
	p, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, domain.Principal{UserID: 9, IsAdmin: true}, p)
}

func serve(v *stubVerifier, header string) (*httptest.ResponseRecorder, *domain.Principal) {
	var seen *domain.Principal
	h := RequireBearer(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFrom(r.Context())
		seen = &p
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/pets", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireBearerMissingHeader(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"", "Basic abc", "Bearer ", "Token xyz"} {
		v := &stubVerifier{}
		rec, seen := serve(v, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Nil(t, seen)
		assert.Empty(t, v.calls, "verifier must not run for %q", header)
	}
}

func TestRequireBearerInvalidToken(t *testing.T) {
	t.Parallel()

	v := &stubVerifier{err: domain.ErrTokenExpired}
	rec, seen := serve(v, "Bearer stale")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, rec.Body.String())
	assert.Nil(t, seen)
	assert.Equal(t, []string{"stale"}, v.calls)
}

func TestRequireBearerAttachesPrincipal(t *testing.T) {
	t.Parallel()

	v := &stubVerifier{subject: &domain.TokenSubject{
		Subject: 5,
		Claims:  map[string]any{domain.ClaimIsAdmin: true},
	}}
	rec, seen := serve(v, "bearer good-token")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, domain.Principal{UserID: 5, IsAdmin: true}, *seen)
}

func TestRecoveryTokenYieldsNonAdmin(t *testing.T) {
	t.Parallel()

	v := &stubVerifier{subject: &domain.TokenSubject{Subject: 5}}
	_, seen := serve(v, "Bearer recovery")
	require.NotNil(t, seen)
	assert.False(t, seen.IsAdmin)
}
