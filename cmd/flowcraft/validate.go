package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/flowcraft/internal/presentation/tui"
	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/serializer"
	"github.com/aretw0/flowcraft/pkg/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a flow document for missing fields and disconnected nodes",
	Long: `Reads a JSON or YAML flow document and reports every validation problem.
Exits with status 1 when the document is malformed or has problems.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		rich := !plain && !asJSON && tui.IsTerminal(os.Stdout)
		return runValidate(cmd.OutOrStdout(), args[0], asJSON, rich)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("json", false, "Print the errors as JSON")
	validateCmd.Flags().Bool("plain", false, "Disable terminal styling")
}

func runValidate(w io.Writer, path string, asJSON, rich bool) error {
	doc, err := serializer.ReadFile(path)
	if err != nil {
		return err
	}
	errs := validator.ValidateFlow(doc)
	logger.Debug("flow validated", "file", path, "nodes", len(doc.Nodes), "errors", len(errs))

	if asJSON {
		if errs == nil {
			errs = []domain.ValidationError{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(errs); err != nil {
			return err
		}
	} else {
		if err := tui.Render(w, tui.ValidationReport(filepath.Base(path), doc, errs), rich); err != nil {
			return err
		}
		if len(errs) == 0 {
			tui.Status(w, true, "Flow is valid")
		} else {
			tui.Status(w, false, fmt.Sprintf("%d problem(s)", len(errs)))
		}
	}

	if len(errs) > 0 {
		return errProblemsFound
	}
	return nil
}
