package transport

import "golang.org/x/oauth2"

// StaticToken returns a token source that always yields token as a bearer
// token.
func StaticToken(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}
