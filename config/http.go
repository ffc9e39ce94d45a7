package config

import "strings"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://site.example.com").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// PublicDir is the static asset directory served by the file server.
	PublicDir string `env:"PUBLIC_DIR" envDefault:"web/public"`

	// LandingPath is the page authenticated visitors are redirected to.
	LandingPath string `env:"LANDING_PATH" envDefault:"/home.html"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.PublicDir == "" {
		h.PublicDir = "web/public"
	}
	if h.LandingPath == "" || h.LandingPath == "/" {
		h.LandingPath = "/home.html"
	}
	if !strings.HasPrefix(h.LandingPath, "/") {
		h.LandingPath = "/" + h.LandingPath
	}
}
