package continuation

import (
	"encoding/base64"
	"fmt"

	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
)

// EncodeToken serialises a continuation Document to an opaque URL-safe token.
func EncodeToken(doc domain.Document) (string, error) {
	text, err := convert.RenderDocument(doc)
	if err != nil {
		return "", fmt.Errorf("rendering continuation: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString([]byte(text)), nil
}

// DecodeToken parses a token produced by EncodeToken.
// An empty token yields nil.
func DecodeToken(token string) (*domain.Document, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decoding token: %w", domain.ErrInvalidContinuation)
	}
	doc, err := convert.ParseDocument(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", domain.ErrInvalidContinuation)
	}
	return &doc, nil
}
