package main

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/flowcraft/pkg/serializer"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [file]",
	Short: "Create a flow document from a template",
	Long:  `Writes a starter flow document to file (format by extension) or prints it as JSON.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			return runListTemplates(cmd.Context(), cmd.OutOrStdout())
		}
		name, _ := cmd.Flags().GetString("template")
		out := ""
		if len(args) == 1 {
			out = args[0]
		}
		return runNew(cmd.Context(), cmd.OutOrStdout(), name, out)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringP("template", "t", defaultTemplate, "Template to start from")
	newCmd.Flags().Bool("list", false, "List the available templates")
}

func runListTemplates(ctx context.Context, w io.Writer) error {
	lib, err := templates()
	if err != nil {
		return err
	}
	names, err := lib.List(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}

func runNew(ctx context.Context, w io.Writer, template, out string) error {
	lib, err := templates()
	if err != nil {
		return err
	}
	doc, err := lib.Load(ctx, template)
	if err != nil {
		return fmt.Errorf("template %q: %w", template, err)
	}
	if out == "" {
		data, err := serializer.Encode(doc, serializer.FormatJSON)
		if err != nil {
			return err
		}
		return printDocument(w, data)
	}
	if err := serializer.WriteFile(out, doc); err != nil {
		return err
	}
	fmt.Fprintf(w, "Created %s from template %q\n", out, template)
	return nil
}
