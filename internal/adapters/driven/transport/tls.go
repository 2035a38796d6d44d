package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/failure"
)

// TLSConfig builds the TLS configuration for a profile.
// caFile, when set, is a PEM bundle added to the system pool.
func TLSConfig(profile domain.TLSProfile, caFile string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	switch profile {
	case domain.TLSDefault, domain.TLS12:
	case domain.TLS13:
		cfg.MinVersion = tls.VersionTLS13
	case domain.TLSInsecure:
		cfg.InsecureSkipVerify = true //nolint:gosec // opt-in for test environments
	default:
		return nil, fmt.Errorf("unknown tls profile %q: %w", profile, failure.ErrTrustMaterial)
	}

	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("reading ca bundle %s: %w: %w", caFile, failure.ErrTrustMaterial, err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates in %s: %w", caFile, failure.ErrTrustMaterial)
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}
