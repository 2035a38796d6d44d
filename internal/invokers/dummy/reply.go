package dummy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/invokers/internal/continuation"
	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/failure"
	"github.com/custodia-labs/invokers/internal/logger"
)

// ReplyTypeID is the echo invoker type identifier.
const ReplyTypeID = "dummy-reply"

const (
	paramDelayTime = "delayTime"

	replyRoot = "Reply"
)

// Ensure ReplyInvoker implements the interface.
var _ driven.Invoker = (*ReplyInvoker)(nil)

// ReplyInvoker echoes its input.
type ReplyInvoker struct {
	delay  bool
	delays driven.DelayProvider
}

// ReplyMetadata describes the echo invoker for the registry.
func ReplyMetadata() domain.InvokerType {
	return domain.InvokerType{
		ID:          ReplyTypeID,
		Name:        "Dummy Reply",
		Description: "Echo the input, optionally after one deferred retry",
		InputFormat: domain.InputAny,
		ConfigKeys: []domain.ConfigKey{
			{Key: paramDelay, Description: "Suspend once before answering", Default: "false"},
			{Key: paramDelayTime, Description: "Delay in milliseconds, random 1000-35000 when absent"},
		},
		SupportsDelay: true,
	}
}

// NewReply creates an echo invoker. The transport is unused.
func NewReply(p driven.Parameters, _ driven.Transport) (driven.Invoker, error) {
	delay, _, err := p.OptionalBoolean(paramDelay)
	if err != nil {
		return nil, err
	}

	var delays driven.DelayProvider = continuation.NewRandomDelay()
	if p.Exists(paramDelayTime) {
		ms, err := p.Integer(paramDelayTime)
		if err != nil {
			return nil, err
		}
		if ms < 0 {
			return nil, fmt.Errorf("%s: negative value %d: %w", paramDelayTime, ms, domain.ErrInvalidParameter)
		}
		delays = continuation.FixedDelay(time.Duration(ms) * time.Millisecond)
	}

	return &ReplyInvoker{delay: delay, delays: delays}, nil
}

// Type returns the invoker type identifier.
func (i *ReplyInvoker) Type() string {
	return ReplyTypeID
}

// Invoke returns rawInput as the result body. Input that parses as a
// document is returned as that document, anything else as the text of a
// Reply element.
func (i *ReplyInvoker) Invoke(_ context.Context, rawInput string, prior *domain.Document) domain.Result {
	if i.delay {
		if prior == nil {
			delay := i.delays.NextDelay()
			logger.Info("dummy-reply: suspending", "delay_ms", delay.Milliseconds())
			return continuation.Suspend(domain.ContinuationState{}, delay)
		}
		if _, err := continuation.Decode(*prior); err != nil {
			return failure.FromError(err).Build()
		}
	}

	if strings.TrimSpace(rawInput) == "" {
		return domain.Completed(domain.NewElement(replyRoot), true)
	}
	doc, err := convert.ParseDocument(rawInput)
	if err != nil {
		return domain.Completed(domain.NewText(replyRoot, rawInput), false)
	}
	return domain.Completed(doc, false)
}
