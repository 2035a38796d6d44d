package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/invokers/internal/continuation"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/core/ports/driving"
	"github.com/custodia-labs/invokers/internal/failure"
	"github.com/custodia-labs/invokers/internal/logger"
	"github.com/custodia-labs/invokers/internal/metrics"
)

// Ensure InvocationService implements the interface.
var _ driving.InvocationService = (*InvocationService)(nil)

// InvocationService runs single invocations against configured profiles.
// Invokers are built on first use and cached per profile.
//
// Every result passes through contract enforcement: a suspension returned
// after the attempt budget was exhausted, or carrying an unusable
// continuation, is rewritten to an InternalError failure.
type InvocationService struct {
	config  driven.ConfigStore
	factory driven.InvokerFactory

	mu       sync.Mutex
	invokers map[string]driven.Invoker
}

// NewInvocationService creates an invocation service.
func NewInvocationService(config driven.ConfigStore, factory driven.InvokerFactory) *InvocationService {
	return &InvocationService{
		config:   config,
		factory:  factory,
		invokers: make(map[string]driven.Invoker),
	}
}

// Invoke calls the profile's invoker once.
func (s *InvocationService) Invoke(
	ctx context.Context,
	profile, rawInput string,
	prior *domain.Document,
) (domain.Result, error) {
	p, err := s.config.Profile(profile)
	if err != nil {
		return domain.Result{}, fmt.Errorf("resolving profile %s: %w", profile, err)
	}

	inv, err := s.invoker(*p)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedType) {
			return domain.Result{}, err
		}
		res := domain.Failed(failure.FromError(err).Err())
		metrics.Observe(p.Type, res, 0)
		logger.Warn("invoker construction failed", "profile", profile, "type", p.Type, "error", err)
		return res, nil
	}

	logger.Debug("invoking", "profile", profile, "type", inv.Type(), "resume", prior != nil)

	start := time.Now()
	res := inv.Invoke(ctx, rawInput, prior)
	elapsed := time.Since(start)

	res = enforce(inv.Type(), prior, res)
	metrics.Observe(inv.Type(), res, elapsed)

	switch res.Kind {
	case domain.KindFailed:
		logger.Info("invocation failed",
			"profile", profile,
			"category", res.Failure.Category,
			"error", res.Failure.Error(),
			"elapsed", elapsed,
		)
	case domain.KindSuspended:
		logger.Debug("invocation suspended", "profile", profile, "delay", res.Delay())
	default:
		logger.Debug("invocation completed", "profile", profile, "empty", res.Empty, "elapsed", elapsed)
	}
	return res, nil
}

// Profiles returns the configured profile names in sorted order.
func (s *InvocationService) Profiles() []string {
	profiles, err := s.config.Profiles()
	if err != nil {
		logger.Warn("listing profiles", "error", err)
		return nil
	}
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

func (s *InvocationService) invoker(p domain.Profile) (driven.Invoker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inv, ok := s.invokers[p.Name]; ok {
		return inv, nil
	}
	inv, err := s.factory.Create(p)
	if err != nil {
		return nil, err
	}
	s.invokers[p.Name] = inv
	return inv, nil
}

// enforce rewrites results that break the invocation contract.
func enforce(invokerType string, prior *domain.Document, res domain.Result) domain.Result {
	switch res.Kind {
	case domain.KindFailed:
		if res.Failure == nil {
			return failure.New(domain.CategoryInternal).
				Raw("invoker returned a failure without details").
				Build()
		}
		return res
	case domain.KindSuspended:
		if err := checkSuspension(prior, res); err != nil {
			metrics.ContractViolationsTotal.WithLabelValues(invokerType).Inc()
			logger.Error("invocation contract violated", "type", invokerType, "error", err)
			return failure.New(domain.CategoryInternal).
				Raw(err.Error()).
				Cause(err).
				Build()
		}
	}
	return res
}

func checkSuspension(prior *domain.Document, res domain.Result) error {
	if prior != nil {
		state, err := continuation.Decode(*prior)
		if err == nil && state.Exhausted() {
			return fmt.Errorf("suspended after the attempt budget was exhausted: %w", domain.ErrContractViolation)
		}
	}
	if res.DelayMillis < 0 {
		return fmt.Errorf("negative delay %dms: %w", res.DelayMillis, domain.ErrContractViolation)
	}
	if _, err := continuation.Decode(res.Continuation); err != nil {
		return fmt.Errorf("unusable continuation (%v): %w", err, domain.ErrContractViolation)
	}
	return nil
}
