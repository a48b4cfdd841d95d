package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"barokah/internal/config"

	"golang.org/x/time/rate"
)

const (
	permManageBookings    = "manage:bookings"
	permManageCatalog     = "manage:catalog"
	permManageTechnicians = "manage:technicians"
	permManageGallery     = "manage:gallery"
)

var errPermissionDenied = errors.New("permission denied")

// HTTPAuth provides API-key auth and per-key rate limiting. Public
// endpoints pass through without credentials; admin endpoints require a
// configured key whose permissions cover the resource. Rate limiting
// applies to every request, keyed by API key or, for anonymous callers, by
// remote address.
type HTTPAuth struct {
	cfg      config.AuthConfig
	clients  map[string]config.APIClientKey
	limiters sync.Map // map[string]*rate.Limiter
}

func NewHTTPAuth(cfg config.AuthConfig) *HTTPAuth {
	m := make(map[string]config.APIClientKey, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		m[k.Key] = k
	}
	return &HTTPAuth{cfg: cfg, clients: m}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.Enabled {
			if required := requiredPermissionHTTP(r); required != "" {
				if err := a.checkAuth(r, required); err != nil {
					statusCode := http.StatusUnauthorized
					if errors.Is(err, errPermissionDenied) {
						statusCode = http.StatusForbidden
					}
					writeError(w, statusCode, err.Error())
					return
				}
			}
		}

		if err := a.checkRateLimit(r); err != nil {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) checkAuth(r *http.Request, required string) error {
	apiKey := strings.TrimSpace(r.Header.Get(a.apiKeyHeader()))
	extra := strings.TrimSpace(r.Header.Get(a.extraHeader()))
	if apiKey == "" || extra == "" {
		return fmt.Errorf("missing api key headers")
	}

	client, ok := a.clients[apiKey]
	if !ok {
		return fmt.Errorf("invalid api key")
	}
	if subtle.ConstantTimeCompare([]byte(client.Extra), []byte(extra)) != 1 {
		return fmt.Errorf("invalid extra header")
	}

	// An empty permissions list is allow-all.
	if len(client.Permissions) == 0 {
		return nil
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return nil
		}
	}
	return errPermissionDenied
}

// requiredPermissionHTTP returns the permission an endpoint demands, or ""
// for public endpoints. The booking form, the status page, the reference
// lists and the event stream are public; listings of all bookings and
// every mutation except form submission are admin surface.
func requiredPermissionHTTP(r *http.Request) string {
	path := r.URL.Path

	switch {
	case path == "/api/v1/bookings":
		if r.Method == http.MethodGet {
			return permManageBookings
		}
		return ""
	case strings.HasPrefix(path, "/api/v1/bookings/"):
		if r.Method == http.MethodGet {
			return ""
		}
		return permManageBookings
	case path == "/api/v1/stats" || path == "/api/v1/export":
		return permManageBookings
	case strings.HasPrefix(path, "/api/v1/brands"),
		strings.HasPrefix(path, "/api/v1/models"),
		strings.HasPrefix(path, "/api/v1/categories"),
		strings.HasPrefix(path, "/api/v1/problems"):
		return permManageCatalog
	case strings.HasPrefix(path, "/api/v1/technicians"):
		if r.Method == http.MethodGet {
			return ""
		}
		return permManageTechnicians
	case strings.HasPrefix(path, "/api/v1/gallery"):
		if r.Method == http.MethodGet {
			return ""
		}
		return permManageGallery
	}
	return ""
}

func (a *HTTPAuth) checkRateLimit(r *http.Request) error {
	if a.cfg.RateLimit.RPS <= 0 {
		return nil
	}

	lim := a.getLimiter(a.clientKey(r))
	if !lim.Allow() {
		return fmt.Errorf("rate limit exceeded")
	}
	return nil
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	if apiKey := strings.TrimSpace(r.Header.Get(a.apiKeyHeader())); apiKey != "" {
		return apiKey
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (a *HTTPAuth) getLimiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := a.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RPS), burst)
	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func (a *HTTPAuth) apiKeyHeader() string {
	if h := strings.TrimSpace(a.cfg.HeaderAPIKey); h != "" {
		return h
	}
	return "x-api-key"
}

func (a *HTTPAuth) extraHeader() string {
	if h := strings.TrimSpace(a.cfg.HeaderExtra); h != "" {
		return h
	}
	return "x-api-extra"
}
