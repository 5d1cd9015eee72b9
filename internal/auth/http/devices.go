package http

import (
	"net/http"

	"github.com/driftwave/auth/internal/auth/domain"
	"github.com/driftwave/auth/internal/auth/service"
	"github.com/driftwave/auth/pkg/authsdk"
	"github.com/driftwave/auth/pkg/httpx"
	"github.com/driftwave/auth/pkg/slogx"
)

// DevicesHandler serves the authenticated device-management endpoints.
type DevicesHandler struct {
	SessionService *service.SessionService
}

// HandleList godoc
//
//	@Summary		List Active Devices
//	@Description	Returns the account's active device sessions, most recently active first. Revoked devices do not appear.
//	@Tags			Devices
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.DevicesResponse	"devices"
//	@Failure		401	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/devices [get].
func (h *DevicesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromCtx(ctx)

	sessions, err := h.SessionService.ListActiveDevices(ctx, userID)
	if err != nil {
		slogx.FromContext(ctx).Error("device list failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	out := authsdk.DevicesResponse{Devices: make([]authsdk.Device, 0, len(sessions))}
	for _, s := range sessions {
		out.Devices = append(out.Devices, toWireDevice(s))
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRevoke godoc
//
//	@Summary		Revoke One Device
//	@Description	Deactivates the session of the named device. Revoking an unknown or already-revoked device succeeds.
//	@Description	The device's current access token stays valid until it expires; the cut becomes effective at its next refresh.
//	@Tags			Devices
//	@Security		BearerAuth
//	@Param			device_id	path	string	true	"Device identifier"
//	@Success		204			"no content"
//	@Failure		401			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/devices/{device_id} [delete].
func (h *DevicesHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromCtx(ctx)

	deviceID := r.PathValue("device_id")
	if deviceID == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.SessionService.RevokeDevice(ctx, userID, deviceID); err != nil {
		slogx.FromContext(ctx).Error("device revoke failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRevokeOthers godoc
//
//	@Summary		Revoke All Other Devices
//	@Description	Deactivates every device session on the account except the calling device's, as one atomic operation.
//	@Description	The calling device is identified by its access token; no body is required.
//	@Tags			Devices
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.RevokeOthersResponse	"revoked"
//	@Failure		401	{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		500	{object}	authsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/auth/devices/revoke-others [post].
func (h *DevicesHandler) HandleRevokeOthers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromCtx(ctx)

	claims, ok := httpx.ClaimsFromCtx(ctx)
	if !ok || claims.DeviceID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	n, err := h.SessionService.RevokeAllOtherDevices(ctx, userID, claims.DeviceID)
	if err != nil {
		slogx.FromContext(ctx).Error("bulk device revoke failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RevokeOthersResponse{Revoked: n})
}

func toWireDevice(s domain.DeviceSession) authsdk.Device {
	return authsdk.Device{
		DeviceID:     s.DeviceID,
		DeviceName:   s.DeviceName,
		DeviceType:   string(s.DeviceType),
		OS:           s.DeviceOS,
		Browser:      s.Browser,
		Location:     s.Location,
		LastActiveAt: s.LastActiveAt,
		CreatedAt:    s.CreatedAt,
	}
}
