package authz

import "petadoption/internal/domain"

// CanMutate reports whether p may change or remove a resource owned by ownerID.
func CanMutate(p domain.Principal, ownerID domain.UserID) bool {
	return p.UserID == ownerID || p.IsAdmin
}

// Authorize is CanMutate as an error: domain.ErrForbidden on deny.
func Authorize(p domain.Principal, ownerID domain.UserID) error {
	if !CanMutate(p, ownerID) {
		return domain.ErrForbidden
	}
	return nil
}
