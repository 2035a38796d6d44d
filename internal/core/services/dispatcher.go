package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/core/ports/driving"
	"github.com/custodia-labs/invokers/internal/logger"
	"github.com/custodia-labs/invokers/internal/metrics"
)

// Ensure Dispatcher implements the interface.
var _ driving.Dispatcher = (*Dispatcher)(nil)

// Dispatcher drives suspended chains to a terminal result.
// Delays are honoured through due times in the store; nothing sleeps.
// A chain is never resumed twice concurrently.
type Dispatcher struct {
	config      domain.DispatcherConfig
	store       driven.PendingStore
	invocations driving.InvocationService
	now         func() time.Time

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
	inFlight  map[string]struct{}
	cancelled map[string]struct{}
	slots     chan struct{}
}

// NewDispatcher creates a dispatcher. Zero config values fall back to
// domain.DefaultDispatcherConfig.
func NewDispatcher(
	config domain.DispatcherConfig,
	store driven.PendingStore,
	invocations driving.InvocationService,
) *Dispatcher {
	defaults := domain.DefaultDispatcherConfig()
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = defaults.HistoryLimit
	}
	return &Dispatcher{
		config:      config,
		store:       store,
		invocations: invocations,
		now:         time.Now,
		inFlight:    make(map[string]struct{}),
		cancelled:   make(map[string]struct{}),
		slots:       make(chan struct{}, config.Workers),
	}
}

// Submit runs the first call of a new chain.
// A suspended chain is stored and picked up by the running loop.
func (d *Dispatcher) Submit(ctx context.Context, profile, rawInput string) (string, domain.Result, error) {
	p := &domain.PendingInvocation{
		ID:        uuid.NewString(),
		Profile:   profile,
		Input:     rawInput,
		CreatedAt: d.now(),
	}
	d.claim(p.ID)
	defer d.release(p.ID)

	res, err := d.step(ctx, p, nil)
	if err != nil {
		return "", domain.Result{}, err
	}
	return p.ID, res, nil
}

// Start begins polling for due chains.
// Blocks until the context is cancelled or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = true
	d.stopCh = make(chan struct{})
	stopCh := d.stopCh
	d.mu.Unlock()

	logger.Info("dispatcher started", "workers", d.config.Workers, "poll_interval", d.config.PollInterval)
	d.refreshGauge(ctx)
	return d.run(ctx, stopCh)
}

// Stop gracefully stops the loop and waits for running calls.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	close(d.stopCh)
	d.mu.Unlock()

	d.wg.Wait()
	return nil
}

// Pending returns all suspended chains.
func (d *Dispatcher) Pending(ctx context.Context) ([]domain.PendingInvocation, error) {
	return d.store.List(ctx)
}

// History returns recent call outcomes for a chain, most recent first.
func (d *Dispatcher) History(ctx context.Context, chainID string) ([]domain.InvocationOutcome, error) {
	return d.store.History(ctx, chainID, d.config.HistoryLimit)
}

// Cancel stops re-invoking a chain.
// A call already running completes, but its suspension is discarded.
func (d *Dispatcher) Cancel(ctx context.Context, chainID string) error {
	p, err := d.store.Get(ctx, chainID)
	if err != nil {
		return fmt.Errorf("loading chain %s: %w", chainID, err)
	}

	d.mu.Lock()
	_, running := d.inFlight[chainID]
	if running {
		d.cancelled[chainID] = struct{}{}
	}
	d.mu.Unlock()

	if p == nil && !running {
		return fmt.Errorf("chain %s: %w", chainID, domain.ErrNotFound)
	}
	if err := d.store.Delete(ctx, chainID); err != nil {
		return fmt.Errorf("deleting chain %s: %w", chainID, err)
	}
	d.refreshGauge(ctx)
	return nil
}

// run is the main dispatcher loop.
func (d *Dispatcher) run(ctx context.Context, stopCh chan struct{}) error {
	d.dispatchDue(ctx, stopCh)

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.wg.Wait()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			d.dispatchDue(ctx, stopCh)
		}
	}
}

// dispatchDue resumes chains whose delay has elapsed, bounded by the worker pool.
func (d *Dispatcher) dispatchDue(ctx context.Context, stopCh chan struct{}) {
	due, err := d.store.ListDue(ctx, d.now(), d.config.Workers*4)
	if err != nil {
		logger.Warn("dispatcher: listing due chains", "error", err)
		return
	}

	for i := range due {
		p := due[i]
		if !d.tryClaim(p.ID) {
			continue
		}

		select {
		case d.slots <- struct{}{}:
		case <-ctx.Done():
			d.release(p.ID)
			return
		case <-stopCh:
			d.release(p.ID)
			return
		}

		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			defer func() { <-d.slots }()
			defer d.release(p.ID)
			d.resume(ctx, &p)
		}()
	}
}

// resume runs one call of a stored chain.
func (d *Dispatcher) resume(ctx context.Context, p *domain.PendingInvocation) {
	prior, err := convert.ParseDocument(p.Continuation)
	if err != nil {
		logger.Error("dispatcher: dropping chain with unreadable continuation", "chain", p.ID, "error", err)
		d.drop(ctx, p.ID)
		return
	}

	if _, err := d.step(ctx, p, &prior); err != nil {
		logger.Error("dispatcher: dropping chain", "chain", p.ID, "profile", p.Profile, "error", err)
		d.drop(ctx, p.ID)
	}
}

// step performs one call and persists its effect on the chain.
func (d *Dispatcher) step(ctx context.Context, p *domain.PendingInvocation, prior *domain.Document) (domain.Result, error) {
	started := d.now()
	res, err := d.invocations.Invoke(ctx, p.Profile, p.Input, prior)
	if err != nil {
		return domain.Result{}, err
	}
	ended := d.now()
	p.Attempt++

	outcome := &domain.InvocationOutcome{
		ChainID:   p.ID,
		Profile:   p.Profile,
		Attempt:   p.Attempt,
		Kind:      res.Kind,
		Empty:     res.Empty,
		StartedAt: started,
		EndedAt:   ended,
	}
	switch res.Kind {
	case domain.KindFailed:
		if res.Failure != nil {
			outcome.Category = res.Failure.Category
			outcome.Message = res.Failure.Error()
		}
	case domain.KindCompleted:
		if body, renderErr := convert.RenderDocument(res.Body); renderErr == nil {
			outcome.Body = body
		}
	}
	if err := d.store.RecordOutcome(ctx, outcome); err != nil {
		logger.Warn("dispatcher: recording outcome", "chain", p.ID, "error", err)
	}

	if res.Kind == domain.KindSuspended && !d.isCancelled(p.ID) {
		text, renderErr := convert.RenderDocument(res.Continuation)
		if renderErr != nil {
			return domain.Result{}, fmt.Errorf("rendering continuation: %w", renderErr)
		}
		p.Continuation = text
		p.DueAt = ended.Add(res.Delay())
		if err := d.store.Save(ctx, p); err != nil {
			return domain.Result{}, fmt.Errorf("saving chain %s: %w", p.ID, err)
		}
		// Cancel may have deleted the row between the check and the save.
		if d.isCancelled(p.ID) {
			d.drop(ctx, p.ID)
			return res, nil
		}
		logger.Debug("chain suspended", "chain", p.ID, "attempt", p.Attempt, "due", p.DueAt)
	} else {
		if err := d.store.Delete(ctx, p.ID); err != nil {
			logger.Warn("dispatcher: deleting finished chain", "chain", p.ID, "error", err)
		}
		logger.Info("chain finished", "chain", p.ID, "profile", p.Profile, "kind", res.Kind, "attempts", p.Attempt)
	}

	if err := d.store.PruneHistory(ctx, d.config.HistoryLimit); err != nil {
		logger.Warn("dispatcher: pruning history", "error", err)
	}
	d.refreshGauge(ctx)
	return res, nil
}

func (d *Dispatcher) drop(ctx context.Context, id string) {
	if err := d.store.Delete(ctx, id); err != nil {
		logger.Warn("dispatcher: deleting chain", "chain", id, "error", err)
	}
	d.refreshGauge(ctx)
}

func (d *Dispatcher) claim(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight[id] = struct{}{}
}

func (d *Dispatcher) tryClaim(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.inFlight[id]; ok {
		return false
	}
	d.inFlight[id] = struct{}{}
	return true
}

func (d *Dispatcher) release(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inFlight, id)
	delete(d.cancelled, id)
}

func (d *Dispatcher) isCancelled(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.cancelled[id]
	return ok
}

func (d *Dispatcher) refreshGauge(ctx context.Context) {
	pending, err := d.store.List(ctx)
	if err != nil {
		return
	}
	metrics.PendingChains.Set(float64(len(pending)))
}
