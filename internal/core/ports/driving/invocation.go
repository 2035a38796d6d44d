package driving

import (
	"context"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

// InvocationService runs single invocations against configured profiles.
type InvocationService interface {
	// Invoke calls the profile's invoker once.
	// prior is the continuation from a previous Suspended result, or nil.
	// Returns an error only when the profile cannot be resolved; invocation
	// failures are reported inside the Result.
	Invoke(ctx context.Context, profile, rawInput string, prior *domain.Document) (domain.Result, error)

	// Profiles returns the configured profile names in sorted order.
	Profiles() []string
}
