package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types [type-id]",
	Short: "List invoker types",
	Long: `Lists the built-in invoker types. With a type ID, shows its
configuration keys; required keys are marked with *.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTypes,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List configured profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(profilesCmd)
}

func runTypes(cmd *cobra.Command, args []string) error {
	if invokerRegistry == nil {
		return errors.New("invoker registry not configured")
	}

	if len(args) == 1 {
		t, err := invokerRegistry.Get(args[0])
		if err != nil {
			return fmt.Errorf("unknown invoker type: %s", args[0])
		}
		cmd.Printf("%s - %s\n", t.ID, t.Name)
		cmd.Printf("  %s\n", t.Description)
		cmd.Printf("  Input: %s\n", t.InputFormat)
		if t.SupportsDelay {
			cmd.Println("  Supports delayed retry")
		}
		cmd.Println()
		cmd.Println("Configuration:")
		for _, k := range t.ConfigKeys {
			marker := " "
			if k.Required {
				marker = "*"
			}
			line := fmt.Sprintf("  %s %-14s %s", marker, k.Key, k.Description)
			if k.Default != "" {
				line += fmt.Sprintf(" (default %s)", k.Default)
			}
			cmd.Println(line)
		}
		return nil
	}

	for _, t := range invokerRegistry.List() {
		cmd.Printf("%-12s %s\n", t.ID, t.Description)
	}
	return nil
}

func runProfiles(cmd *cobra.Command, _ []string) error {
	if invocationService == nil {
		return errors.New("invocation service not configured")
	}

	names := invocationService.Profiles()
	if len(names) == 0 {
		cmd.Println("No profiles configured.")
		return nil
	}
	for _, name := range names {
		cmd.Println(name)
	}
	return nil
}
