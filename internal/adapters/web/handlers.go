package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"employee-directory/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Handler holds the core services and the chi router.
type Handler struct {
	directory  core.DirectoryService
	users      core.UserService
	validate   *validator.Validate
	translator ut.Translator
	jwtSecret  string
	jwtExpiry  time.Duration
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(directory core.DirectoryService, users core.UserService, allowedOrigins, jwtSecret string, jwtExpiry time.Duration) (http.Handler, error) {
	validate := core.ModelValidator()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	h := &Handler{
		directory:  directory,
		users:      users,
		validate:   validate,
		translator: trans,
		jwtSecret:  jwtSecret,
		jwtExpiry:  jwtExpiry,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public) ─────────────────────────────────────────────────────────
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes ──────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)

		// Employee directory. Reads need authentication only; the service
		// enforces the admin requirement on mutations.
		r.Route("/api/employees", func(r chi.Router) {
			r.Get("/", h.listEmployees)
			r.Post("/", h.createEmployee)
			r.Get("/{id}", h.getEmployee)
			r.Put("/{id}", h.updateEmployee)
			r.Delete("/{id}", h.deleteEmployee)
		})

		// User administration is admin-only at the routing layer as well.
		r.Group(func(r chi.Router) {
			r.Use(h.RequireRole(core.RoleAdmin))
			r.Get("/api/users", h.listUsers)
			r.Post("/api/users/{userId}/admin/{isAdmin}", h.setUserIsAdmin)
		})
	})

	return r, nil
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an
// appropriate error response on failure. Returns HTTP 413 when the body
// exceeds the size limit set by RequestBodyLimit middleware; HTTP 400 for all
// other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
