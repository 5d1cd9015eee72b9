package http

import (
	"errors"
	"net/http"

	"github.com/driftwave/auth/internal/auth/domain"
	"github.com/driftwave/auth/internal/auth/service"
	"github.com/driftwave/auth/pkg/authsdk"
	"github.com/driftwave/auth/pkg/httpx"
	"github.com/driftwave/auth/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login.
type LoginHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Login / Device Registration
//	@Description	Verifies credentials and registers the calling device, returning a fresh token pair.
//	@Description	Logging in again from the same device replaces the previous pair; the old tokens stop refreshing.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"username, password, device"
//	@Success		200		{object}	authsdk.TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" || req.Device.DeviceID == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	info := domain.DeviceInfo{
		DeviceID:   req.Device.DeviceID,
		DeviceName: req.Device.DeviceName,
		DeviceType: domain.ParseDeviceType(req.Device.DeviceType),
		OS:         req.Device.OS,
		Browser:    req.Device.Browser,
		IP:         httpx.IPKeyExtractor(r),
		Location:   req.Device.Location,
	}

	pair, err := h.UserService.Login(ctx, req.Username, req.Password, info)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			authsdk.ErrInvalidCredentials.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}
