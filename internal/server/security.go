package server

import (
	"crypto/subtle"
	"net"
	"net/http"
	"slices"
	"strings"

	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// AuthMiddleware requires the API key on everything outside PublicPaths.
// Failures are charged to the client in tracker.
func AuthMiddleware(apiKey string, trustedProxies []string, tracker *ClientTracker) func(http.Handler) http.Handler {
	want := []byte(apiKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(key), want) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r, trustedProxies)
			failures := tracker.RecordFailedAuth(ip)
			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
				"ip", ip,
				"path", r.URL.Path,
				"has_key", key != "",
				"failures_in_window", failures)
			http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
		})
	}
}

func isPublicPath(path string) bool {
	return slices.ContainsFunc(PublicPaths, func(p string) bool {
		return strings.HasPrefix(path, p)
	})
}

// RequestSizeLimitMiddleware caps request bodies at maxBytes
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware stamps securityHeaders on every response
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range securityHeaders {
				h.Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the peer address, or the last X-Forwarded-For hop when the
// peer is a trusted proxy.
func clientIP(r *http.Request, trustedProxies []string) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !slices.Contains(trustedProxies, peer) {
		return peer
	}
	fwd := r.Header.Get(HeaderForwardedFor)
	if fwd == "" {
		return peer
	}
	if i := strings.LastIndexByte(fwd, ','); i >= 0 {
		fwd = fwd[i+1:]
	}
	if hop := strings.TrimSpace(fwd); hop != "" {
		return hop
	}
	return peer
}
