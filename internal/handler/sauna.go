package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anttituomola/tampereensaunalautat-sub000/internal/ctxkeys"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/repository"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/service"
)

// maxImageUploadBytes caps multipart uploads; the frontend resizes images
// before upload so anything larger is either a mistake or abuse.
const maxImageUploadBytes = 10 << 20

type saunaHandler struct {
	saunaService *service.SaunaService
}

func NewSaunaHandler(saunaService *service.SaunaService) *saunaHandler {
	return &saunaHandler{saunaService: saunaService}
}

// List returns the public directory of visible saunas.
func (h *saunaHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.SaunaFilter{
		Location: r.URL.Query().Get("location"),
	}
	if v := r.URL.Query().Get("capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "Virheellinen henkilömäärä")
			return
		}
		filter.MinCapacity = n
	}

	saunas, err := h.saunaService.List(r.Context(), filter)
	if err != nil {
		slog.Error("sauna listing failed", "error", err)
		respondError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"saunas":  saunas,
	})
}

// Get returns one visible sauna by id or slug.
func (h *saunaHandler) Get(w http.ResponseWriter, r *http.Request) {
	sauna, err := h.saunaService.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSaunaNotFound) {
			respondError(w, http.StatusNotFound, "Saunaa ei löytynyt")
			return
		}
		slog.Error("sauna lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	// Hidden listings are only visible through the owner's own list
	if !sauna.Visible {
		respondError(w, http.StatusNotFound, "Saunaa ei löytynyt")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"sauna":   sauna,
	})
}

// Update modifies a listing. Owner or admin only.
func (h *saunaHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.User(r.Context())

	var update service.SaunaUpdate
	err := decode(r, &update)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Virheellinen pyyntö")
		return
	}

	sauna, err := h.saunaService.Update(r.Context(), identity.UserID, r.PathValue("id"), update)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"sauna":   sauna,
	})
}

// AddImage uploads a listing image. Owner or admin only.
func (h *saunaHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.User(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	err := r.ParseMultipartForm(maxImageUploadBytes)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Virheellinen kuvatiedosto")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Kuvatiedosto vaaditaan")
		return
	}
	defer file.Close()

	sauna, err := h.saunaService.AddImage(r.Context(), identity.UserID, r.PathValue("id"), header.Filename, file)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"sauna":   sauna,
	})
}

// RemoveImage deletes a listing image. Owner or admin only.
func (h *saunaHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.User(r.Context())

	sauna, err := h.saunaService.RemoveImage(r.Context(), identity.UserID, r.PathValue("id"), r.PathValue("filename"))
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"sauna":   sauna,
	})
}

func (h *saunaHandler) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "Ei käyttöoikeutta")
	case errors.Is(err, repository.ErrSaunaNotFound):
		respondError(w, http.StatusNotFound, "Saunaa ei löytynyt")
	case errors.Is(err, service.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, "Tiliä ei löytynyt")
	case errors.Is(err, service.ErrUnsupportedImage):
		respondError(w, http.StatusBadRequest, "Kuvatiedoston tyyppiä ei tueta")
	case errors.Is(err, service.ErrImageNotFound):
		respondError(w, http.StatusNotFound, "Kuvaa ei löytynyt")
	default:
		slog.Error("sauna mutation failed", "error", err)
		respondError(w, http.StatusInternalServerError, serverErrorMessage)
	}
}
