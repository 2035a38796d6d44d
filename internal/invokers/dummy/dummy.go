package dummy

import (
	"context"
	"math/rand/v2"

	"github.com/custodia-labs/invokers/internal/continuation"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/failure"
	"github.com/custodia-labs/invokers/internal/logger"
)

// TypeID is the delay-enabled dummy invoker type identifier.
const TypeID = "dummy"

const (
	paramDelay         = "delay"
	paramError         = "error"
	paramErrorRandom   = "error_random"
	paramEmptyResponse = "emptyResponse"

	resultRoot = "Dummy"
)

// Ensure Invoker implements the interface.
var _ driven.Invoker = (*Invoker)(nil)

// Invoker is the delay-enabled test invoker.
type Invoker struct {
	delay         bool
	fail          bool
	failRandom    bool
	emptyResponse bool
	manager       *continuation.Manager

	// roll returns a number in [0, 10). Zero triggers a random failure.
	roll func() int
}

// Metadata describes the invoker for the registry.
func Metadata() domain.InvokerType {
	return domain.InvokerType{
		ID:          TypeID,
		Name:        "Dummy",
		Description: "Test invoker with deferred retry and failure injection",
		InputFormat: domain.InputAny,
		ConfigKeys: []domain.ConfigKey{
			{Key: paramDelay, Description: "Suspend before answering", Default: "false"},
			{Key: continuation.RetryCountParam, Description: "Number of suspensions when delay is on"},
			{Key: continuation.SleepTimeParam, Description: "Fixed delay in milliseconds, random 1000-35000 when absent"},
			{Key: paramError, Description: "Always fail", Default: "false"},
			{Key: paramErrorRandom, Description: "Fail one call in ten", Default: "false"},
			{Key: paramEmptyResponse, Description: "Flag the result as empty", Default: "false"},
		},
		SupportsDelay: true,
	}
}

// New creates a dummy invoker. The transport is unused.
func New(p driven.Parameters, _ driven.Transport) (driven.Invoker, error) {
	inv, err := NewWithDelays(p, nil)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// NewWithDelays creates a dummy invoker drawing delays from delays when
// sleepTime is not configured. A nil provider uses the default random range.
func NewWithDelays(p driven.Parameters, delays driven.DelayProvider) (*Invoker, error) {
	inv := &Invoker{roll: func() int { return rand.IntN(10) }}

	flags := []struct {
		key string
		dst *bool
	}{
		{paramDelay, &inv.delay},
		{paramError, &inv.fail},
		{paramErrorRandom, &inv.failRandom},
		{paramEmptyResponse, &inv.emptyResponse},
	}
	for _, f := range flags {
		v, _, err := p.OptionalBoolean(f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	m, err := continuation.NewManager(p, delays)
	if err != nil {
		return nil, err
	}
	inv.manager = m
	return inv, nil
}

// Type returns the invoker type identifier.
func (i *Invoker) Type() string {
	return TypeID
}

// Invoke suspends while attempts remain, then completes or fails as configured.
func (i *Invoker) Invoke(_ context.Context, _ string, prior *domain.Document) domain.Result {
	if i.delay {
		state, err := i.manager.Begin(prior)
		if err != nil {
			logger.Error("dummy: cannot resolve attempt budget", "error", err)
			return failure.FromError(err).Build()
		}
		if d := i.manager.Next(state); d.Suspend {
			logger.Info("dummy: suspending",
				"delay_ms", d.Delay.Milliseconds(),
				"remaining", d.State.RemainingAttempts)
			return d.Result()
		}
	}

	if i.fail {
		return failure.New(domain.CategoryInternal).
			Raw("test failure").
			Describe("failure requested by the error parameter").
			Build()
	}
	if i.failRandom && i.roll() == 0 {
		return failure.New(domain.CategoryInternal).
			Raw("random test failure").
			Build()
	}

	return domain.Completed(domain.NewElement(resultRoot), i.emptyResponse)
}
