package failure

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
)

func TestFromTransport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ErrorCategory
	}{
		{
			name: "unknown authority",
			err:  &url.Error{Op: "Get", URL: "https://x", Err: x509.UnknownAuthorityError{}},
			want: domain.CategoryCrypto,
		},
		{
			name: "hostname mismatch",
			err:  x509.HostnameError{Certificate: &x509.Certificate{}, Host: "x"},
			want: domain.CategoryCrypto,
		},
		{
			name: "trust material",
			err:  fmt.Errorf("loading ca bundle: %w", ErrTrustMaterial),
			want: domain.CategoryCrypto,
		},
		{
			name: "connection refused",
			err:  &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Err: errors.New("refused")}},
			want: domain.CategoryNetwork,
		},
		{
			name: "deadline",
			err:  fmt.Errorf("calling: %w", context.DeadlineExceeded),
			want: domain.CategoryNetwork,
		},
		{
			name: "canceled",
			err:  context.Canceled,
			want: domain.CategoryNetwork,
		},
		{
			name: "request build",
			err:  fmt.Errorf("parsing url: %w", ErrRequestBuild),
			want: domain.CategoryRequestBuild,
		},
		{
			name: "upstream unavailable",
			err:  fmt.Errorf("waiting for rate limiter: %w", ErrUnavailable),
			want: domain.CategoryNetwork,
		},
		{
			name: "unusable response",
			err:  fmt.Errorf("reading reply: %w", ErrBadResponse),
			want: domain.CategoryResponse,
		},
		{
			name: "anything else",
			err:  errors.New("strange"),
			want: domain.CategoryInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FromTransport(tt.err).Err()

			assert.Equal(t, tt.want, f.Category)
			assert.ErrorIs(t, f, tt.err)
		})
	}
}

func TestFromError(t *testing.T) {
	t.Run("keeps existing failure", func(t *testing.T) {
		orig := New(domain.CategoryResponseEmpty).Raw("empty").Err()

		f := FromError(fmt.Errorf("wrapped: %w", orig)).Err()

		assert.Equal(t, domain.CategoryResponseEmpty, f.Category)
		assert.Equal(t, "empty", f.Message)
	})

	t.Run("maps sentinels", func(t *testing.T) {
		cases := []struct {
			err  error
			want domain.ErrorCategory
		}{
			{fmt.Errorf("url: %w", domain.ErrMissingParameter), domain.CategoryMissingRequiredParameter},
			{fmt.Errorf("retryCount: %w", domain.ErrInvalidParameter), domain.CategoryMissingRequiredParameter},
			{fmt.Errorf("body: %w", convert.ErrMalformed), domain.CategoryDataConvert},
			{fmt.Errorf("token: %w", domain.ErrInvalidContinuation), domain.CategoryRequestParameterValidation},
			{errors.New("other"), domain.CategoryInternal},
		}
		for _, c := range cases {
			assert.Equal(t, c.want, FromError(c.err).Err().Category, c.err.Error())
		}
	})
}
