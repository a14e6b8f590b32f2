package http

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"petadoption/internal/authz"
	"petadoption/internal/domain"
	"petadoption/internal/dto"
	"petadoption/internal/httpx"

	"github.com/go-chi/chi/v5"
)

const imageField = "image"

func (h *handlers) listPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.pets.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pets)
}

func (h *handlers) getPet(w http.ResponseWriter, r *http.Request) {
	id, ok := petID(r)
	if !ok {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	pet, err := h.pets.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pet)
}

func (h *handlers) createPet(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	in, img, cleanup, err := h.readPetForm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer cleanup()

	pet, err := h.pets.Create(r.Context(), p, in, img)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, pet)
}

func (h *handlers) updatePet(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	id, ok := petID(r)
	if !ok {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	// decode failures are reported by Update after the existence and ownership checks
	in, img, cleanup, decodeErr := h.readPetForm(w, r)
	defer cleanup()
	form := func() (dto.PetInput, *dto.Upload, error) { return in, img, decodeErr }

	pet, err := h.pets.Update(r.Context(), p, id, form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pet)
}

func (h *handlers) deletePet(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}
	id, ok := petID(r)
	if !ok {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	if err := h.pets.Delete(r.Context(), p, id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "pet deleted"})
}

// petID parses {id}. Non-numeric ids cannot name a pet and read as missing.
func petID(r *http.Request) (domain.PetID, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// readPetForm accepts multipart/form-data (with an optional "image" file) or
// a JSON body. cleanup releases multipart temp files and is never nil.
func (h *handlers) readPetForm(w http.ResponseWriter, r *http.Request) (dto.PetInput, *dto.Upload, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var in dto.PetInput
		if err := httpx.DecodeJSON(r.Body, &in); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return in, nil, noop, err
			}
			return in, nil, noop, domain.NewValidationError("", "invalid JSON body")
		}
		return in, nil, noop, nil
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dto.PetInput{}, nil, noop, err
		}
		return dto.PetInput{}, nil, noop, domain.NewValidationError("", "invalid multipart form")
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	in := dto.PetInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Location:    r.FormValue("location"),
		Featured:    formBool(r.FormValue("featured")),
		New:         formBool(r.FormValue("new")),
	}
	if v := strings.TrimSpace(r.FormValue("age")); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			cleanup()
			return in, nil, noop, domain.NewValidationError("age", "must be an integer")
		}
		in.Age = age
	}

	file, header, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return in, nil, noop, domain.NewValidationError(imageField, "unreadable file")
	}
	img := &dto.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
	return in, img, func() { _ = file.Close(); cleanup() }, nil
}

func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
