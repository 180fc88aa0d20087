package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"collect/internal/domain"
	"collect/internal/middleware"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u domain.User) userDTO {
	return userDTO{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// Register creates an account and returns it together with a token.
func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	user, err := a.Users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		a.domainError(w, err)
		return
	}
	token, err := middleware.SignJWT(a.JWTSecret, user.ID, user.Username, a.JWTTTL)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign token")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"user":  toUserDTO(*user),
		"token": token,
	})
}

// Login exchanges credentials for a token.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	user, err := a.Users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		a.domainError(w, err)
		return
	}
	token, err := middleware.SignJWT(a.JWTSecret, user.ID, user.Username, a.JWTTTL)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign token")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"user":  toUserDTO(*user),
		"token": token,
	})
}

// Profile returns the authenticated user's account.
func (a *App) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	user, err := a.Users.Get(r.Context(), userID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toUserDTO(*user))
}

// DeleteProfile removes the authenticated user's account. Their
// collections go with it and their payments stay, detached.
func (a *App) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	if err := a.Users.Delete(r.Context(), userID); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
