package http

import (
	"errors"
	"net/http"

	"github.com/driftwave/auth/internal/auth/service"
	"github.com/driftwave/auth/pkg/authsdk"
	"github.com/driftwave/auth/pkg/httpx"
	"github.com/driftwave/auth/pkg/slogx"
)

// RefreshHandler serves POST /v1/auth/refresh.
type RefreshHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Access Token Refresh
//	@Description	Exchanges a refresh token for a new access token. The refresh token itself does not rotate.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"refresh_token"
//	@Success		200		{object}	authsdk.RefreshResponse	"access_token, token_type, expires_in"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/v1/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RefreshRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	access, err := h.SessionService.RefreshAccessToken(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			authsdk.ErrSessionNotFound.WriteError(w)
		case errors.Is(err, service.ErrSessionExpired):
			authsdk.ErrSessionExpired.WriteError(w)
		default:
			log.Error("token refresh failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RefreshResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.SessionService.Tokens.AccessTTL.Seconds()),
	})
}
