package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/invokers/internal/continuation"
	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/failure"
	"github.com/custodia-labs/invokers/internal/logger"
)

var (
	invokeInputFile    string
	invokeContinuation string
	invokeJSON         bool
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <profile> [input]",
	Short: "Call a profile once",
	Long: `Calls the profile's invoker exactly once and prints the result.

A suspended result prints the requested delay and a continuation token.
Wait at least that long, then call again with --continuation to resume.
Use "run" to let the CLI wait and resume until the chain finishes.

Input is taken from the argument, from --file, or from stdin when the
argument is "-".`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInvoke,
}

func init() {
	invokeCmd.Flags().StringVarP(&invokeInputFile, "file", "f", "", "read input from file")
	invokeCmd.Flags().StringVarP(&invokeContinuation, "continuation", "c", "", "continuation token from a suspended result")
	invokeCmd.Flags().BoolVar(&invokeJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(invokeCmd)
}

func runInvoke(cmd *cobra.Command, args []string) error {
	if invocationService == nil {
		return errors.New("invocation service not configured")
	}

	input, err := readInput(cmd, args, invokeInputFile)
	if err != nil {
		return err
	}

	prior, err := continuation.DecodeToken(invokeContinuation)
	if err != nil {
		return failure.FromError(err).Err()
	}

	res, err := invocationService.Invoke(cmd.Context(), args[0], input, prior)
	if err != nil {
		return fmt.Errorf("invoke failed: %w", err)
	}

	if invokeJSON {
		if err := printResultJSON(cmd, "", res); err != nil {
			return err
		}
	} else {
		printResult(cmd, res)
	}
	return res.Err()
}

// readInput resolves the raw input from args, a file, or stdin.
func readInput(cmd *cobra.Command, args []string, path string) (string, error) {
	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading input file: %w", err)
		}
		return string(data), nil
	case len(args) < 2:
		return "", nil
	case args[1] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		return args[1], nil
	}
}

// resultView is the JSON shape of a result.
type resultView struct {
	ChainID      string `json:"chain_id,omitempty"`
	Kind         string `json:"kind"`
	Body         string `json:"body,omitempty"`
	Empty        bool   `json:"empty,omitempty"`
	DelayMillis  int64  `json:"delay_ms,omitempty"`
	Continuation string `json:"continuation,omitempty"`
	Category     string `json:"category,omitempty"`
	Message      string `json:"message,omitempty"`
	Source       string `json:"source,omitempty"`
}

func viewOf(res domain.Result) resultView {
	v := resultView{Kind: res.Kind.String()}
	switch res.Kind {
	case domain.KindCompleted:
		body, err := convert.RenderDocument(res.Body)
		if err != nil {
			v.Message = fmt.Sprintf("rendering result: %v", err)
		}
		v.Body = body
		v.Empty = res.Empty
	case domain.KindSuspended:
		v.DelayMillis = res.DelayMillis
		// Continuation documents always render.
		v.Continuation, _ = continuation.EncodeToken(res.Continuation)
	case domain.KindFailed:
		if res.Failure != nil {
			v.Category = string(res.Failure.Category)
			v.Message = res.Failure.Error()
			if src := res.Failure.Source; src != nil {
				v.Source = strings.TrimSpace(src.Code + " " + src.Detail)
			}
		}
	}
	return v
}

func printResultJSON(cmd *cobra.Command, chainID string, res domain.Result) error {
	v := viewOf(res)
	v.ChainID = chainID
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printResult(cmd *cobra.Command, res domain.Result) {
	v := viewOf(res)
	switch res.Kind {
	case domain.KindCompleted:
		if v.Empty {
			cmd.Println("Completed (no matching record)")
		} else {
			cmd.Println("Completed")
		}
		cmd.Println(v.Body)
	case domain.KindSuspended:
		cmd.Printf("Suspended: retry after %dms\n", v.DelayMillis)
		cmd.Printf("Continuation: %s\n", v.Continuation)
	case domain.KindFailed:
		cmd.Printf("Failed [%s]\n", v.Category)
		if logger.IsVerbose() {
			cmd.Printf("  %s\n", v.Message)
		}
		if v.Source != "" {
			cmd.Printf("  Upstream: %s\n", v.Source)
		}
	}
}
