package driven

import (
	"context"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

// Invoker translates one canonical request into a call against one external
// service. Each invoker type (blacklist, fedresurs, dummy, etc.) implements
// this interface.
type Invoker interface {
	// Type returns the invoker type identifier.
	Type() string

	// Invoke performs one synchronous call.
	// prior is the continuation returned by a previous Suspended result, or nil
	// on the first call of a chain. Invoke never sleeps: a requested delay is
	// returned to the caller inside a Suspended result.
	//
	// Calls for a single chain must be strictly sequential. Concurrent resumes
	// of the same continuation are a caller bug and are not detected.
	Invoke(ctx context.Context, rawInput string, prior *domain.Document) domain.Result
}
