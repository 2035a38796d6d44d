package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/invokers/internal/convert"
	"github.com/custodia-labs/invokers/internal/failure"
)

var (
	convertTo        string
	convertRoot      string
	convertInputFile string
)

var convertCmd = &cobra.Command{
	Use:   "convert [input]",
	Short: "Convert between document and JSON forms",
	Long: `Converts a document to its JSON wire form, or a JSON payload to a
document, with the rules invokers apply to request and response bodies.

Input is taken from the argument, from --file, or from stdin when the
argument is "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "json", "output form: json or document")
	convertCmd.Flags().StringVar(&convertRoot, "root", "Request", "root element name for --to document")
	convertCmd.Flags().StringVarP(&convertInputFile, "file", "f", "", "read input from file")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd, append([]string{""}, args...), convertInputFile)
	if err != nil {
		return err
	}

	switch convertTo {
	case "json":
		doc, err := convert.ParseDocument(input)
		if err != nil {
			return failure.FromError(err).Err()
		}
		data, err := convert.DocumentToJSON(doc)
		if err != nil {
			return failure.FromError(err).Err()
		}
		cmd.Println(string(data))
	case "document":
		doc, err := convert.JSONToDocument([]byte(input), convertRoot)
		if err != nil {
			return failure.FromError(err).Err()
		}
		text, err := convert.RenderDocument(doc)
		if err != nil {
			return failure.FromError(err).Err()
		}
		cmd.Println(text)
	default:
		return fmt.Errorf("unknown output form %q (want json or document)", convertTo)
	}
	return nil
}
