package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/anttituomola/tampereensaunalautat-sub000/internal/ctxkeys"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/middleware"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/service"
)

type authHandler struct {
	authService  *service.AuthService
	saunaService *service.SaunaService
}

func NewAuthHandler(authService *service.AuthService, saunaService *service.SaunaService) *authHandler {
	return &authHandler{
		authService:  authService,
		saunaService: saunaService,
	}
}

// Login requests a magic link for an existing account.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	err := decode(r, &body)
	if err != nil || body.Email == "" {
		respondError(w, http.StatusBadRequest, "Sähköpostiosoite vaaditaan")
		return
	}

	err = h.authService.RequestLogin(r.Context(), body.Email,
		middleware.ClientIP(r), r.UserAgent(), originHint(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(w, http.StatusBadRequest, "Virheellinen sähköpostiosoite")
		case errors.Is(err, service.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "Tiliä ei löytynyt")
		default:
			slog.Error("login request failed", "error", err, "email", body.Email)
			respondError(w, http.StatusInternalServerError, serverErrorMessage)
		}
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true})
}

// Verify redeems a magic-link token and opens a session.
func (h *authHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	err := decode(r, &body)
	if err != nil || body.Token == "" {
		respondError(w, http.StatusBadRequest, "Kirjautumistunniste vaaditaan")
		return
	}

	user, accessToken, refreshToken, err := h.authService.RedeemToken(r.Context(), body.Token,
		middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			respondError(w, http.StatusBadRequest, "Virheellinen tai vanhentunut kirjautumislinkki")
		case errors.Is(err, service.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "Tiliä ei löytynyt")
		default:
			slog.Error("token redemption failed", "error", err)
			respondError(w, http.StatusInternalServerError, serverErrorMessage)
		}
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success":      true,
		"user":         user,
		"authToken":    accessToken,
		"refreshToken": refreshToken,
	})
}

// Refresh exchanges a refresh token for a new access token.
func (h *authHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	err := decode(r, &body)
	if err != nil || body.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "Virkistystunniste vaaditaan")
		return
	}

	user, accessToken, err := h.authService.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSession):
			respondError(w, http.StatusUnauthorized, "Virheellinen tai vanhentunut istunto")
		case errors.Is(err, service.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "Tiliä ei löytynyt")
		default:
			slog.Error("token refresh failed", "error", err)
			respondError(w, http.StatusInternalServerError, serverErrorMessage)
		}
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success":   true,
		"authToken": accessToken,
		"user":      user,
	})
}

// Logout revokes the session. Always succeeds from the client's perspective
// unless the store itself fails.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	// A missing or malformed body is fine; logout is best-effort
	_ = decode(r, &body)

	err := h.authService.Logout(r.Context(), body.RefreshToken)
	if err != nil {
		slog.Error("logout failed", "error", err)
		respondError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true})
}

// Me returns the authenticated user, read fresh from the store.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.User(r.Context())

	user, err := h.authService.CurrentUser(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			respondError(w, http.StatusNotFound, "Tiliä ei löytynyt")
			return
		}
		slog.Error("current user lookup failed", "error", err, "user_id", identity.UserID)
		respondError(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// UserSaunas lists the saunas owned by the given user. Only the user
// themselves or an admin may ask.
func (h *authHandler) UserSaunas(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.User(r.Context())
	targetUserID := r.PathValue("userId")

	saunas, err := h.saunaService.ForUser(r.Context(), identity.UserID, targetUserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			respondError(w, http.StatusForbidden, "Ei käyttöoikeutta")
		case errors.Is(err, service.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "Tiliä ei löytynyt")
		default:
			slog.Error("user saunas lookup failed", "error", err, "user_id", targetUserID)
			respondError(w, http.StatusInternalServerError, serverErrorMessage)
		}
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"saunas":  saunas,
	})
}

// originHint extracts the caller's declared origin, falling back to the
// Referer's scheme://host. The auth service decides whether to trust it.
func originHint(r *http.Request) string {
	origin := r.Header.Get("Origin")
	if origin != "" {
		return origin
	}

	referer := r.Header.Get("Referer")
	if referer == "" {
		return ""
	}
	u, err := url.Parse(referer)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
