package domain

// TLSProfile names a TLS configuration selected once per invoker.
type TLSProfile string

const (
	// TLSDefault uses the platform defaults (TLS 1.2 minimum).
	TLSDefault TLSProfile = ""
	// TLS12 pins TLS 1.2 as the minimum version.
	TLS12 TLSProfile = "tls1.2"
	// TLS13 pins TLS 1.3 as the minimum version.
	TLS13 TLSProfile = "tls1.3"
	// TLSInsecure skips certificate verification. Test environments only.
	TLSInsecure TLSProfile = "insecure"
)

// Profile is a configured invoker instance.
type Profile struct {
	// Name identifies the profile (e.g., "blacklist-prod").
	Name string

	// Type is the invoker type ID.
	Type string

	// Params holds the invoker parameters.
	Params map[string]string

	// TLS selects the TLS profile for outbound calls.
	TLS TLSProfile

	// CAFile is an optional PEM bundle added to the trust store.
	CAFile string

	// RateLimit caps outbound requests per second. Zero disables limiting.
	RateLimit float64

	// BearerToken, when set, is sent as an OAuth2 bearer token.
	BearerToken string
}
