package impl

import (
	"context"
	"testing"
	"time"

	"petadoption/internal/domain"
	"petadoption/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLoginSubjectMatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, registration("ana"))
	require.NoError(t, err)
	require.NotZero(t, res.UserID)

	tokens, err := f.auth.Login(ctx, dto.LoginRequest{Email: "ana@x.com", Password: "s3cret!"})
	require.NoError(t, err)

	sub, err := f.tokens.Verify(tokens.Token)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, sub.Subject)
	assert.False(t, sub.Principal().IsAdmin)

	stored, err := f.st.Users().GetByID(ctx, res.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)
	assert.True(t, f.pw.Verify("s3cret!", stored.PasswordHash))
}

func TestRegisterMissingFieldsInOrder(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		field string
		clear func(r *dto.RegisterRequest)
	}{
		{"username", func(r *dto.RegisterRequest) { r.Username = " " }},
		{"email", func(r *dto.RegisterRequest) { r.Email = "" }},
		{"password", func(r *dto.RegisterRequest) { r.Password = "" }},
		{"address", func(r *dto.RegisterRequest) { r.Address = "" }},
		{"cep", func(r *dto.RegisterRequest) { r.Cep = "" }},
		{"phone", func(r *dto.RegisterRequest) { r.Phone = "" }},
		{"city", func(r *dto.RegisterRequest) { r.City = "" }},
		{"birthDate", func(r *dto.RegisterRequest) { r.BirthDate = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			req := registration("ana")
			tc.clear(&req)
			_, err := f.auth.Register(context.Background(), req)
			require.ErrorIs(t, err, domain.ErrValidation)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	req := registration("ana")
	req.Username, req.City = "", ""
	_, err := f.auth.Register(context.Background(), req)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "username", ve.Field, "first missing field wins")

	n, err := f.st.Users().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRegisterAgeBoundary(t *testing.T) {
	f := newFixture(t)
	f.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	under := registration("young")
	under.BirthDate = "2007-06-16" // turns 18 tomorrow
	_, err := f.auth.Register(context.Background(), under)
	require.ErrorIs(t, err, domain.ErrUnderage)
	require.ErrorIs(t, err, domain.ErrValidation)

	exact := registration("adult")
	exact.BirthDate = "2007-06-15" // 18 today
	_, err = f.auth.Register(context.Background(), exact)
	require.NoError(t, err)

	bad := registration("baddate")
	bad.BirthDate = "15/06/1990"
	_, err = f.auth.Register(context.Background(), bad)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "birthDate", ve.Field)
}

func TestRegisterCustomMinimumAge(t *testing.T) {
	f := newFixture(t)
	f.auth.minAge = 21

	req := registration("twenty")
	req.BirthDate = "2005-01-01"
	_, err := f.auth.Register(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "21")
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ana")

	dupName := registration("ana")
	dupName.Email = "other@x.com"
	_, err := f.auth.Register(ctx, dupName)
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	dupEmail := registration("bruno")
	dupEmail.Email = "ana@x.com"
	_, err = f.auth.Register(ctx, dupEmail)
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	n, err := f.st.Users().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ana")

	_, err := f.auth.Login(ctx, dto.LoginRequest{Email: "ana@x.com", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "ghost@x.com", Password: "s3cret!"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "ana@x.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestProvisionAdminLogsInAsAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.admin(t, "root")

	tokens, err := f.auth.Login(ctx, dto.LoginRequest{Email: "root@x.com", Password: "admin-pass"})
	require.NoError(t, err)
	sub, err := f.tokens.Verify(tokens.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{UserID: id, IsAdmin: true}, sub.Principal())

	_, err = f.auth.ProvisionAdmin(ctx, "root", "root2@x.com", "pw")
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	_, err = f.auth.ProvisionAdmin(ctx, "", "x@x.com", "pw")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestPromoteAdminUpgradesExistingUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana")

	u, err := f.auth.PromoteAdmin(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, ana, u.ID)
	assert.True(t, u.IsAdmin)

	tokens, err := f.auth.Login(ctx, dto.LoginRequest{Email: "ana@x.com", Password: "s3cret!"})
	require.NoError(t, err)
	sub, err := f.tokens.Verify(tokens.Token)
	require.NoError(t, err)
	assert.True(t, sub.Principal().IsAdmin)

	_, err = f.auth.PromoteAdmin(ctx, "nobody@x.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAgeOn(t *testing.T) {
	birth := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24, ageOn(birth, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 25, ageOn(birth, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}
