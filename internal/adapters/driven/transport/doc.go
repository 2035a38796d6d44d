// Package transport implements driven.Transport over net/http.
//
// A transport is built once per invoker profile. TLS settings (minimum
// version, extra CA bundle, verification) are fixed at construction. Requests
// pass through a token-bucket rate limiter and, when configured, carry an
// OAuth2 bearer token.
package transport
