//go:build staging

package staging

import (
	"net/http"
	"testing"
)

func TestHealthEndpoints(t *testing.T) {
	for _, path := range []string{"/healthz", "/readyz", "/version"} {
		t.Run(path, func(t *testing.T) {
			api.expect(t, http.StatusOK, http.MethodGet, path, nil, nil)
		})
	}
}
