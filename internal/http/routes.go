// Package httpx wires the JSON API surface: session endpoints are public,
// everything else sits behind the bearer-token gate.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/rollbook/rollbook-api/internal/adapters/oidc"
	"github.com/rollbook/rollbook-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth        AuthGate
	Users       *service.UserService
	Rolls       *service.RollService
	Ingredients *service.IngredientService
	Photos      *service.PhotoService
	// Optional: OIDC login flow. If nil, only direct login is exposed.
	OIDC *oidc.Provider
	// UploadsDir is served read-only at /uploads/ for roll photos.
	UploadsDir string
	Logger     *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:    services.Auth,
		Users:  services.Users,
		OIDC:   services.OIDC,
		Logger: services.Logger,
	}
	userHandlers := &UserHandlers{Svc: services.Users}
	rollHandlers := &RollHandlers{Svc: services.Rolls, Photos: services.Photos}
	ingredientHandlers := &IngredientHandlers{Svc: services.Ingredients}

	requireAuth := RequireAuth(services.Auth, services.Logger)

	registerAuthRoutes(mux, authHandlers)
	registerUserRoutes(mux, userHandlers, requireAuth)
	registerRollRoutes(mux, rollHandlers, requireAuth)
	registerIngredientRoutes(mux, ingredientHandlers, requireAuth)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.UploadsDir != "" {
		mux.Handle("GET /uploads/",
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(services.UploadsDir))))
	}

	handler := Logging(services.Logger)(mux)
	return Recover(services.Logger)(handler)
}

// registerAuthRoutes wires session endpoints. These handle the bearer token
// themselves rather than going through RequireAuth: ping must not slide the
// expiration, and logout must report revocation state distinctly.
func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", h.Logout)
	mux.HandleFunc("POST /api/v1/auth/refresh", h.Refresh)
	mux.HandleFunc("GET /api/v1/auth/ping", h.Ping)
	mux.HandleFunc("GET /api/v1/auth/oidc/start", h.OIDCStart)
	mux.HandleFunc("GET /api/v1/auth/oidc/callback", h.OIDCCallback)
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, requireAuth func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/v1/users", h.Create)
	mux.Handle("PATCH /api/v1/users/me", requireAuth(http.HandlerFunc(h.UpdateMe)))
}

func registerRollRoutes(mux *http.ServeMux, h *RollHandlers, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/v1/rolls", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/v1/rolls/entries", requireAuth(http.HandlerFunc(h.Entries)))
	mux.Handle("POST /api/v1/rolls", requireAuth(http.HandlerFunc(h.Create)))
	mux.Handle("POST /api/v1/rolls/relog", requireAuth(http.HandlerFunc(h.Relog)))
	mux.Handle("POST /api/v1/rolls/photos", requireAuth(http.HandlerFunc(h.UploadPhoto)))
	mux.Handle("DELETE /api/v1/rolls/photos/{id}", requireAuth(http.HandlerFunc(h.DeletePhoto)))
}

func registerIngredientRoutes(mux *http.ServeMux, h *IngredientHandlers, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET /api/v1/ingredients", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/v1/ingredients", requireAuth(http.HandlerFunc(h.Create)))
}
