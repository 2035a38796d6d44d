package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/invokers/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/services"
)

// setupTestServices wires in-memory services with dummy profiles and
// returns a cleanup function restoring the package state.
//
// Profiles:
//   - plain: completes at once
//   - delayed: suspends once for 5ms, then completes
//   - failing: always fails with InternalError
//   - echo: echoes its input
func setupTestServices() func() {
	config := memory.NewConfigStore()
	config.AddProfile(domain.Profile{Name: "plain", Type: "dummy"})
	config.AddProfile(domain.Profile{
		Name:   "delayed",
		Type:   "dummy",
		Params: map[string]string{"delay": "true", "retryCount": "1", "sleepTime": "5"},
	})
	config.AddProfile(domain.Profile{
		Name:   "failing",
		Type:   "dummy",
		Params: map[string]string{"error": "true"},
	})
	config.AddProfile(domain.Profile{Name: "echo", Type: "dummy-reply"})

	factory := services.NewBuiltinFactory(nil)
	svc := services.NewInvocationService(config, factory)

	configStore = config
	invocationService = svc
	invokerRegistry = services.NewInvokerRegistry(factory)
	dispatcher = services.NewDispatcher(
		domain.DispatcherConfig{Workers: 1, PollInterval: 5 * time.Millisecond},
		memory.NewPendingStore(),
		svc,
	)

	originalSleep := sleep
	var slept []time.Duration
	sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	sleptDurations = func() []time.Duration { return slept }

	return func() {
		configStore = nil
		invocationService = nil
		invokerRegistry = nil
		dispatcher = nil
		sleep = originalSleep
		sleptDurations = nil

		invokeInputFile = ""
		invokeContinuation = ""
		invokeJSON = false
		runInputFile = ""
		runMaxCalls = 100
		runJSON = false
		dispatchInputFile = ""
		dispatchJSON = false
		dispatchMetricsAddr = ""
		convertTo = "json"
		convertRoot = "Request"
		convertInputFile = ""
	}
}

// sleptDurations reports the waits requested by the run command.
var sleptDurations func() []time.Duration
