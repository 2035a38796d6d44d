package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/invokers/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driving"
	"github.com/custodia-labs/invokers/internal/core/services"
	"github.com/custodia-labs/invokers/internal/logger"
	"github.com/custodia-labs/invokers/internal/metrics"
)

var (
	dispatchInputFile   string
	dispatchJSON        bool
	dispatchMetricsAddr string
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Background chain commands",
	Long: `Commands for the dispatcher, which stores suspended chains and resumes
them once their delay has elapsed. Chains survive restarts.`,
}

var dispatchSubmitCmd = &cobra.Command{
	Use:   "submit <profile> [input]",
	Short: "Start a chain",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDispatchSubmit,
}

var dispatchServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Resume due chains until interrupted",
	Long: `Polls for chains whose delay has elapsed and resumes them with a
bounded worker pool. Stops on SIGINT or SIGTERM after running calls finish.

Use --metrics-addr to expose Prometheus metrics on /metrics.`,
	Args: cobra.NoArgs,
	RunE: runDispatchServe,
}

var dispatchPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List suspended chains",
	Args:  cobra.NoArgs,
	RunE:  runDispatchPending,
}

var dispatchHistoryCmd = &cobra.Command{
	Use:   "history <chain-id>",
	Short: "Show recent calls of a chain",
	Args:  cobra.ExactArgs(1),
	RunE:  runDispatchHistory,
}

var dispatchCancelCmd = &cobra.Command{
	Use:   "cancel <chain-id>",
	Short: "Stop resuming a chain",
	Args:  cobra.ExactArgs(1),
	RunE:  runDispatchCancel,
}

func init() {
	dispatchSubmitCmd.Flags().StringVarP(&dispatchInputFile, "file", "f", "", "read input from file")
	dispatchSubmitCmd.Flags().BoolVar(&dispatchJSON, "json", false, "output result as JSON")
	dispatchPendingCmd.Flags().BoolVar(&dispatchJSON, "json", false, "output as JSON")
	dispatchHistoryCmd.Flags().BoolVar(&dispatchJSON, "json", false, "output as JSON")
	dispatchServeCmd.Flags().StringVar(&dispatchMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	dispatchCmd.AddCommand(dispatchSubmitCmd)
	dispatchCmd.AddCommand(dispatchServeCmd)
	dispatchCmd.AddCommand(dispatchPendingCmd)
	dispatchCmd.AddCommand(dispatchHistoryCmd)
	dispatchCmd.AddCommand(dispatchCancelCmd)
	rootCmd.AddCommand(dispatchCmd)
}

// openDispatcher returns the configured dispatcher and a cleanup function.
func openDispatcher() (driving.Dispatcher, func(), error) {
	if dispatcher != nil {
		return dispatcher, func() {}, nil
	}
	if invocationService == nil {
		return nil, nil, errors.New("invocation service not configured")
	}

	dir, err := dataDir()
	if err != nil {
		return nil, nil, err
	}
	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening dispatcher store: %w", err)
	}

	d := services.NewDispatcher(dispatcherConfig(), store.PendingStore(), invocationService)
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing dispatcher store", "error", err)
		}
	}
	return d, cleanup, nil
}

// dispatcherConfig reads [dispatcher] settings over the defaults.
func dispatcherConfig() domain.DispatcherConfig {
	cfg := domain.DefaultDispatcherConfig()
	if configStore == nil {
		return cfg
	}
	if n := configStore.GetInt("dispatcher.workers"); n > 0 {
		cfg.Workers = n
	}
	if d := configStore.GetDuration("dispatcher.poll_interval"); d > 0 {
		cfg.PollInterval = d
	}
	if n := configStore.GetInt("dispatcher.history_limit"); n > 0 {
		cfg.HistoryLimit = n
	}
	return cfg
}

func runDispatchSubmit(cmd *cobra.Command, args []string) error {
	d, cleanup, err := openDispatcher()
	if err != nil {
		return err
	}
	defer cleanup()

	input, err := readInput(cmd, args, dispatchInputFile)
	if err != nil {
		return err
	}

	id, res, err := d.Submit(cmd.Context(), args[0], input)
	if err != nil {
		return fmt.Errorf("submit failed: %w", err)
	}

	if dispatchJSON {
		return printResultJSON(cmd, id, res)
	}
	cmd.Printf("Chain: %s\n", id)
	if res.Kind == domain.KindSuspended {
		cmd.Printf("Suspended: resumes in %dms under \"dispatch serve\"\n", res.DelayMillis)
		return nil
	}
	printResult(cmd, res)
	return res.Err()
}

func runDispatchServe(cmd *cobra.Command, _ []string) error {
	d, cleanup, err := openDispatcher()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := dispatchMetricsAddr
	if addr == "" && configStore != nil {
		addr = configStore.GetString("metrics.addr")
	}

	logger.Section("dispatcher")
	g, ctx := errgroup.WithContext(ctx)
	if addr != "" {
		logger.Info("metrics listening", "addr", addr)
		g.Go(func() error {
			return metrics.NewServer(addr).Run(ctx)
		})
	}
	g.Go(func() error {
		err := d.Start(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		return d.Stop()
	})

	err = g.Wait()
	logger.Info("dispatcher stopped")
	return err
}

func runDispatchPending(cmd *cobra.Command, _ []string) error {
	d, cleanup, err := openDispatcher()
	if err != nil {
		return err
	}
	defer cleanup()

	pending, err := d.Pending(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing chains: %w", err)
	}

	if dispatchJSON {
		type view struct {
			ID      string    `json:"id"`
			Profile string    `json:"profile"`
			Attempt int       `json:"attempt"`
			DueAt   time.Time `json:"due_at"`
		}
		views := make([]view, len(pending))
		for i := range pending {
			views[i] = view{ID: pending[i].ID, Profile: pending[i].Profile, Attempt: pending[i].Attempt, DueAt: pending[i].DueAt}
		}
		return printJSON(cmd, views)
	}

	if len(pending) == 0 {
		cmd.Println("No suspended chains.")
		return nil
	}
	for i := range pending {
		p := &pending[i]
		cmd.Printf("%s  %s  attempt %d  due %s\n", p.ID, p.Profile, p.Attempt, p.DueAt.Local().Format(time.DateTime))
	}
	return nil
}

func runDispatchHistory(cmd *cobra.Command, args []string) error {
	d, cleanup, err := openDispatcher()
	if err != nil {
		return err
	}
	defer cleanup()

	history, err := d.History(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if dispatchJSON {
		type view struct {
			Attempt   int       `json:"attempt"`
			Kind      string    `json:"kind"`
			Category  string    `json:"category,omitempty"`
			Message   string    `json:"message,omitempty"`
			Empty     bool      `json:"empty,omitempty"`
			StartedAt time.Time `json:"started_at"`
			EndedAt   time.Time `json:"ended_at"`
		}
		views := make([]view, len(history))
		for i := range history {
			o := &history[i]
			views[i] = view{
				Attempt:   o.Attempt,
				Kind:      o.Kind.String(),
				Category:  string(o.Category),
				Message:   o.Message,
				Empty:     o.Empty,
				StartedAt: o.StartedAt,
				EndedAt:   o.EndedAt,
			}
		}
		return printJSON(cmd, views)
	}

	if len(history) == 0 {
		cmd.Println("No calls recorded.")
		return nil
	}
	for i := range history {
		o := &history[i]
		line := fmt.Sprintf("#%d  %s  %s", o.Attempt, o.StartedAt.Local().Format(time.DateTime), o.Kind)
		if o.Kind == domain.KindFailed {
			line += fmt.Sprintf("  %s", o.Message)
		}
		cmd.Println(line)
	}
	return nil
}

func runDispatchCancel(cmd *cobra.Command, args []string) error {
	d, cleanup, err := openDispatcher()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := d.Cancel(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no suspended chain %s", args[0])
		}
		return fmt.Errorf("cancel failed: %w", err)
	}
	cmd.Printf("Cancelled %s\n", args[0])
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
