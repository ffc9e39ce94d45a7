package httpx

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth         AuthServiceInterface
	Signer       *CookieSigner
	CookieDomain string
	Secure       bool   // cookie Secure flag (production-like deployments)
	PublicDir    string // static asset directory
	LandingPath  string // post-login page, defaults to /home.html
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Signer:       services.Signer,
		CookieDomain: services.CookieDomain,
		Secure:       services.Secure,
		LandingPath:  services.LandingPath,
		Logger:       services.Logger,
	}
	registerAuthRoutes(mux, authHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Root is the only auth-gated path: authenticated visitors are sent to
	// the landing page, everyone else gets the login page.
	root := &rootHandler{auth: authHandlers, publicDir: services.PublicDir}
	mux.Handle("GET /{$}", root)

	// Every other path is served straight from the public asset directory,
	// without a session check. Intentional: only the root path is guarded.
	mux.Handle("GET /", staticWithCacheHeaders(http.FileServer(http.Dir(services.PublicDir))))

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/google", h.Login)
	mux.HandleFunc("GET /auth/google/callback", h.Callback)
	mux.HandleFunc("GET /logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// rootHandler implements the route guard for GET /.
type rootHandler struct {
	auth      *AuthHandlers
	publicDir string
}

func (h *rootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if principal := h.auth.principalFromRequest(r); principal != nil {
		http.Redirect(w, r, h.auth.landing(), http.StatusFound)
		return
	}
	// No (valid) session: serve the login page with a 200, never a redirect.
	http.ServeFile(w, r, filepath.Join(h.publicDir, "index.html"))
}

// hashedFilePattern matches content-hashed asset filenames (e.g. app.abc12345.js).
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			// Hashed assets can be cached for a long time (1 year)
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		handler.ServeHTTP(w, r)
	})
}
