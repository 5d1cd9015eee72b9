package http

import (
	"errors"
	"net/http"

	"github.com/driftwave/auth/internal/auth/service"
	"github.com/driftwave/auth/pkg/authsdk"
	"github.com/driftwave/auth/pkg/httpx"
	"github.com/driftwave/auth/pkg/slogx"
)

// RegisterHandler serves POST /v1/auth/register.
type RegisterHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Account Registration
//	@Description	Creates a new user account. The password is stored as an argon2id hash.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"username, password"
//	@Success		201		{object}	authsdk.RegisterResponse	"user_id, username"
//	@Failure		400		{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.UserService.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			authsdk.ErrUsernameTaken.WriteError(w)
		case errors.Is(err, service.ErrInvalidCredentials):
			authsdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("registration failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterResponse{
		UserID:   u.ID,
		Username: u.Username,
	})
}
