package impl

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the cost existing hashes were written with.
const DefaultBcryptCost = 10

type PasswordServiceImpl struct {
	cost int
}

// NewPasswordServiceBcrypt returns a bcrypt hasher. Costs outside bcrypt's
// accepted range fall back to DefaultBcryptCost.
func NewPasswordServiceBcrypt(cost int) *PasswordServiceImpl {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordServiceImpl{cost: cost}
}

func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (p *PasswordServiceImpl) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
