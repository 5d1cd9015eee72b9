package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/driftwave/auth/internal/auth/service"
	"github.com/driftwave/auth/internal/auth/store"
	"github.com/driftwave/auth/pkg/authsdk"
	"github.com/driftwave/auth/pkg/httpx"
	"github.com/driftwave/auth/pkg/jwtx"
	"github.com/driftwave/auth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
	UserService    *service.UserService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerTokens()
	r.registerDevices()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	registerHandler := &RegisterHandler{UserService: r.UserService}
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Login attempts get the strictest limit; it is the brute-force surface.
	loginHandler := &LoginHandler{UserService: r.UserService}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerTokens() {
	refreshHandler := &RefreshHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerDevices() {
	h := &DevicesHandler{SessionService: r.SessionService}

	r.Mux.Handle("GET /v1/auth/devices",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("DELETE /v1/auth/devices/{device_id}",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/devices/revoke-others",
		httpx.Chain(http.HandlerFunc(h.HandleRevokeOthers),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

// decodeJSONBody parses a JSON request body into dst. On failure it writes
// the error response itself and returns false.
func decodeJSONBody(w http.ResponseWriter, req *http.Request, dst any) bool {
	if ct := req.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/json") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return false
	}

	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		slogx.FromContext(req.Context()).Debug("request body decode failed", "err", err)
		authsdk.ErrInvalidJSONBody.WriteError(w)
		return false
	}

	return true
}
