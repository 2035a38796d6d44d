package transport

import (
	"context"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/failure"
)

func TestHTTP_Execute(t *testing.T) {
	t.Run("sends method headers query cookies and body", func(t *testing.T) {
		var got *http.Request
		var gotBody string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r
			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)
			w.Header().Set("X-Reply", "1")
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		tr, err := New(Config{})
		require.NoError(t, err)

		resp, err := tr.Execute(context.Background(), &driven.Request{
			Method:  http.MethodPost,
			URL:     srv.URL + "/check?fixed=1",
			Header:  http.Header{"PARTNER-API-KEY": {"secret"}},
			Query:   url.Values{"id": {"7"}},
			Body:    []byte(`{"national_id":1}`),
			Cookies: []*http.Cookie{{Name: "name", Value: "debtorsearch"}},
		})

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, `{"ok":true}`, resp.Body)
		assert.Equal(t, "1", resp.Header.Get("X-Reply"))

		require.NotNil(t, got)
		assert.Equal(t, http.MethodPost, got.Method)
		assert.Equal(t, "/check", got.URL.Path)
		assert.Equal(t, "1", got.URL.Query().Get("fixed"))
		assert.Equal(t, "7", got.URL.Query().Get("id"))
		assert.Equal(t, "secret", got.Header.Get("PARTNER-API-KEY"))
		c, err := got.Cookie("name")
		require.NoError(t, err)
		assert.Equal(t, "debtorsearch", c.Value)
		assert.Equal(t, `{"national_id":1}`, gotBody)
	})

	t.Run("defaults to GET", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
		}))
		defer srv.Close()

		tr, err := New(Config{})
		require.NoError(t, err)

		resp, err := tr.Execute(context.Background(), &driven.Request{URL: srv.URL})

		require.NoError(t, err)
		assert.Empty(t, resp.Body)
	})

	t.Run("bearer token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		}))
		defer srv.Close()

		tr, err := ForProfile(domain.Profile{BearerToken: "tok"})
		require.NoError(t, err)

		_, err = tr.Execute(context.Background(), &driven.Request{URL: srv.URL})
		require.NoError(t, err)
	})

	t.Run("invalid url is a request build error", func(t *testing.T) {
		tr, err := New(Config{})
		require.NoError(t, err)

		for _, u := range []string{"://bad", "ftp://host/x", "not a url"} {
			_, err = tr.Execute(context.Background(), &driven.Request{URL: u})
			assert.ErrorIs(t, err, failure.ErrRequestBuild, u)
		}
	})

	t.Run("connection refused is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		tr, err := New(Config{Timeout: time.Second})
		require.NoError(t, err)

		_, err = tr.Execute(context.Background(), &driven.Request{URL: addr})

		require.Error(t, err)
		assert.Equal(t, domain.CategoryNetwork, failure.FromTransport(err).Category())
	})

	t.Run("body over the cap is rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":"0123456789"}`))
		}))
		defer srv.Close()

		tr, err := New(Config{MaxBodySize: 8})
		require.NoError(t, err)

		_, err = tr.Execute(context.Background(), &driven.Request{URL: srv.URL})

		require.ErrorIs(t, err, ErrResponseTooLarge)
		assert.Equal(t, domain.CategoryResponse, failure.FromTransport(err).Category())
	})

	t.Run("body at the cap is kept", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"a":1}`))
		}))
		defer srv.Close()

		tr, err := New(Config{MaxBodySize: 7})
		require.NoError(t, err)

		resp, err := tr.Execute(context.Background(), &driven.Request{URL: srv.URL})

		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, resp.Body)
	})
}

func TestHTTP_TLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	t.Run("untrusted certificate is a crypto error", func(t *testing.T) {
		tr, err := New(Config{TLS: domain.TLS12})
		require.NoError(t, err)

		_, err = tr.Execute(context.Background(), &driven.Request{URL: srv.URL})

		require.Error(t, err)
		assert.Equal(t, domain.CategoryCrypto, failure.FromTransport(err).Category())
	})

	t.Run("ca bundle trusts server", func(t *testing.T) {
		caFile := filepath.Join(t.TempDir(), "ca.pem")
		data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
		require.NoError(t, os.WriteFile(caFile, data, 0o600))

		tr, err := New(Config{CAFile: caFile})
		require.NoError(t, err)

		resp, err := tr.Execute(context.Background(), &driven.Request{URL: srv.URL})

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("insecure profile skips verification", func(t *testing.T) {
		tr, err := New(Config{TLS: domain.TLSInsecure})
		require.NoError(t, err)

		_, err = tr.Execute(context.Background(), &driven.Request{URL: srv.URL})

		assert.NoError(t, err)
	})
}

func TestTLSConfig(t *testing.T) {
	t.Run("versions", func(t *testing.T) {
		cfg, err := TLSConfig(domain.TLSDefault, "")
		require.NoError(t, err)
		assert.Equal(t, uint16(0x0303), cfg.MinVersion)

		cfg, err = TLSConfig(domain.TLS13, "")
		require.NoError(t, err)
		assert.Equal(t, uint16(0x0304), cfg.MinVersion)
	})

	t.Run("trust material errors", func(t *testing.T) {
		_, err := TLSConfig("tls0.9", "")
		assert.ErrorIs(t, err, failure.ErrTrustMaterial)

		_, err = TLSConfig(domain.TLSDefault, filepath.Join(t.TempDir(), "missing.pem"))
		assert.ErrorIs(t, err, failure.ErrTrustMaterial)

		junk := filepath.Join(t.TempDir(), "junk.pem")
		require.NoError(t, os.WriteFile(junk, []byte("junk"), 0o600))
		_, err = TLSConfig(domain.TLSDefault, junk)
		assert.ErrorIs(t, err, failure.ErrTrustMaterial)
		assert.Equal(t, domain.CategoryCrypto, failure.FromTransport(err).Category())
	})
}
