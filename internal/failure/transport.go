package failure

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"

	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
)

var (
	// ErrTrustMaterial marks errors loading certificates or building TLS
	// configuration. Transports wrap it so the failure is reported as CryptoError.
	ErrTrustMaterial = errors.New("failure: invalid trust material")

	// ErrRequestBuild marks a request that could not be constructed, such as
	// an unparsable URL. Reported as RequestBuildError.
	ErrRequestBuild = errors.New("failure: cannot build request")

	// ErrUnavailable marks an upstream that refuses service for now, such as
	// a long rate-limit backoff. Reported as NetworkError.
	ErrUnavailable = errors.New("failure: upstream unavailable")

	// ErrBadResponse marks a reply the transport refused to hand over, such
	// as an oversize body. Reported as ResponseError.
	ErrBadResponse = errors.New("failure: unusable response")
)

// FromTransport maps an error returned by a transport to a failure.
// TLS and certificate errors become CryptoError. Connection errors, timeouts
// and cancellations become NetworkError. Anything else is InternalError.
func FromTransport(err error) *Builder {
	var category domain.ErrorCategory
	switch {
	case errors.Is(err, ErrRequestBuild):
		category = domain.CategoryRequestBuild
	case errors.Is(err, ErrBadResponse):
		category = domain.CategoryResponse
	case IsCrypto(err):
		category = domain.CategoryCrypto
	case IsNetwork(err):
		category = domain.CategoryNetwork
	default:
		category = domain.CategoryInternal
	}
	return New(category).Raw(err.Error()).Cause(err)
}

// FromError maps a non-transport error to a failure.
// Existing failures are kept as they are.
func FromError(err error) *Builder {
	var f *domain.Failure
	if errors.As(err, &f) {
		return &Builder{f: *f}
	}

	switch {
	case errors.Is(err, domain.ErrMissingParameter), errors.Is(err, domain.ErrInvalidParameter):
		return New(domain.CategoryMissingRequiredParameter).Raw(err.Error()).Cause(err)
	case errors.Is(err, convert.ErrMalformed):
		return New(domain.CategoryDataConvert).Raw(err.Error()).Cause(err)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidContinuation):
		return New(domain.CategoryRequestParameterValidation).Raw(err.Error()).Cause(err)
	default:
		return FromTransport(err)
	}
}

// IsCrypto reports whether err is a TLS or certificate failure.
func IsCrypto(err error) bool {
	if errors.Is(err, ErrTrustMaterial) {
		return true
	}

	var (
		unknownAuthority x509.UnknownAuthorityError
		invalidCert      x509.CertificateInvalidError
		hostname         x509.HostnameError
		verification     *tls.CertificateVerificationError
		recordHeader     tls.RecordHeaderError
		alert            tls.AlertError
	)
	return errors.As(err, &unknownAuthority) ||
		errors.As(err, &invalidCert) ||
		errors.As(err, &hostname) ||
		errors.As(err, &verification) ||
		errors.As(err, &recordHeader) ||
		errors.As(err, &alert)
}

// IsNetwork reports whether err is a connection, timeout or cancellation failure.
func IsNetwork(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}

	var (
		netErr net.Error
		urlErr *url.Error
		opErr  *net.OpError
	)
	return errors.As(err, &netErr) || errors.As(err, &urlErr) || errors.As(err, &opErr)
}
