package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/logger"
)

var (
	runInputFile string
	runMaxCalls  int
	runJSON      bool
)

// sleep waits for d or until ctx is done. Replaced in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var runCmd = &cobra.Command{
	Use:   "run <profile> [input]",
	Short: "Call a profile until the chain finishes",
	Long: `Calls the profile and, while the result is suspended, waits for the
requested delay and resumes with the continuation. Prints the terminal
result. Interrupting the command abandons the chain.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runInputFile, "file", "f", "", "read input from file")
	runCmd.Flags().IntVar(&runMaxCalls, "max-calls", 100, "give up after this many calls")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if invocationService == nil {
		return errors.New("invocation service not configured")
	}

	input, err := readInput(cmd, args, runInputFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	var prior *domain.Document
	for call := 1; ; call++ {
		res, err := invocationService.Invoke(ctx, args[0], input, prior)
		if err != nil {
			return fmt.Errorf("invoke failed: %w", err)
		}

		if res.IsTerminal() {
			if runJSON {
				if err := printResultJSON(cmd, "", res); err != nil {
					return err
				}
			} else {
				printResult(cmd, res)
			}
			return res.Err()
		}

		if call >= runMaxCalls {
			return fmt.Errorf("chain still suspended after %d calls", call)
		}

		logger.Info("waiting before resume", "profile", args[0], "call", call, "delay", res.Delay())
		if err := sleep(ctx, res.Delay()); err != nil {
			return fmt.Errorf("waiting to resume: %w", err)
		}
		next := res.Continuation
		prior = &next
	}
}
