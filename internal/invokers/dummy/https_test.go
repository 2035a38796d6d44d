package dummy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/invokers/internal/adapters/driven/transport"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/params"
)

func TestHTTPSInvoker(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		kind     domain.ResultKind
		category domain.ErrorCategory
	}{
		{"ok", http.StatusOK, domain.KindCompleted, ""},
		{"no content", http.StatusNoContent, domain.KindCompleted, ""},
		{"forbidden", http.StatusForbidden, domain.KindFailed, domain.CategoryRequestBuild},
		{"unavailable", http.StatusServiceUnavailable, domain.KindFailed, domain.CategoryResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			tr, err := transport.New(transport.Config{TLS: domain.TLSInsecure})
			require.NoError(t, err)
			inv, err := NewHTTPS(params.New(map[string]string{"url": server.URL, "emptyResponse": "true"}), tr)
			require.NoError(t, err)

			res := inv.Invoke(context.Background(), "", nil)
			require.Equal(t, tt.kind, res.Kind)
			if tt.kind == domain.KindFailed {
				assert.Equal(t, tt.category, res.Failure.Category)
				return
			}
			assert.Equal(t, "Dummy", res.Body.Name)
			assert.True(t, res.Empty)
		})
	}
}

func TestHTTPSInvoker_UntrustedCertificate(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tr, err := transport.New(transport.Config{TLS: domain.TLS12})
	require.NoError(t, err)
	inv, err := NewHTTPS(params.New(map[string]string{"url": server.URL}), tr)
	require.NoError(t, err)

	res := inv.Invoke(context.Background(), "", nil)
	require.Equal(t, domain.KindFailed, res.Kind)
	assert.Equal(t, domain.CategoryCrypto, res.Failure.Category)
}

func TestHTTPSInvoker_MissingURL(t *testing.T) {
	_, err := NewHTTPS(params.New(nil), nil)
	assert.ErrorIs(t, err, domain.ErrMissingParameter)
}
