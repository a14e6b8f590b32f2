package dto

import "io"

// PetInput carries the writable pet fields for create and full update.
type PetInput struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Featured    bool   `json:"featured"`
	New         bool   `json:"new"`
}

// Upload is an image attached to a pet write. A nil *Upload means no file was sent.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// PetForm yields a decoded pet write. Update calls it only after the pet is
// found and the caller is allowed to change it, so a bad body never hides a
// 404 or 403.
type PetForm func() (PetInput, *Upload, error)

// Form wraps values that are already decoded.
func Form(in PetInput, img *Upload) PetForm {
	return func() (PetInput, *Upload, error) { return in, img, nil }
}
