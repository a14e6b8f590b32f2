package impl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"petadoption/internal/domain"
	"petadoption/internal/dto"
	"petadoption/internal/jwtsigner"
	"petadoption/internal/storage"
	"petadoption/internal/store"
	"petadoption/internal/store/storetest"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type sentMail struct {
	to, subject, body string
}

type fakeChannel struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeChannel) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return f.err
}

type fakeFiles struct {
	saved map[string][]byte
	err   error
	n     int
}

func newFakeFiles() *fakeFiles { return &fakeFiles{saved: map[string][]byte{}} }

func (f *fakeFiles) Save(_ context.Context, originalName, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.n++
	name := "img-" + string(rune('0'+f.n)) + "-" + originalName
	f.saved[name] = b
	return name, nil
}

func (f *fakeFiles) Remove(_ context.Context, name string) error {
	delete(f.saved, name)
	return nil
}

func (f *fakeFiles) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	b, ok := f.saved[name]
	if !ok {
		return nil, "", storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), "image/png", nil
}

type fixture struct {
	st       *store.Store
	now      time.Time
	signer   *jwtsigner.Signer
	pw       *PasswordServiceImpl
	tokens   *TokenServiceImpl
	auth     *AuthServiceImpl
	recovery *RecoveryServiceImpl
	pets     *PetServiceImpl
	mail     *fakeChannel
	files    *fakeFiles
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		st:    storetest.New(t),
		now:   time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		pw:    NewPasswordServiceBcrypt(bcrypt.MinCost),
		mail:  &fakeChannel{},
		files: newFakeFiles(),
	}
	signer, err := jwtsigner.NewHS256("test-secret", "petadoption")
	require.NoError(t, err)
	f.signer = signer.WithClock(func() time.Time { return f.now })

	f.tokens = NewTokenServiceHS256(TokenConfig{LoginTTL: 2 * time.Hour, RecoveryTTL: time.Hour}, f.signer)
	f.auth = NewAuthServiceImpl(f.st, f.pw, f.tokens, domain.MinimumAge)
	f.auth.now = func() time.Time { return f.now }
	f.recovery = NewRecoveryServiceImpl(f.st, f.pw, f.tokens, f.mail, "http://localhost:3000/reset-password")
	f.pets = NewPetServiceImpl(f.st, f.files)
	return f
}

func registration(username string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:  username,
		Email:     username + "@x.com",
		Password:  "s3cret!",
		Address:   "Rua A, 10",
		Cep:       "50000-000",
		Phone:     "81999990000",
		City:      "Recife",
		BirthDate: "1990-05-01",
	}
}

func (f *fixture) register(t *testing.T, username string) domain.UserID {
	t.Helper()
	res, err := f.auth.Register(context.Background(), registration(username))
	require.NoError(t, err)
	return res.UserID
}

func (f *fixture) admin(t *testing.T, username string) domain.UserID {
	t.Helper()
	u, err := f.auth.ProvisionAdmin(context.Background(), username, username+"@x.com", "admin-pass")
	require.NoError(t, err)
	return u.ID
}

var errBoom = errors.New("boom")
