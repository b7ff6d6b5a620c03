package main

import (
	"fmt"
	"io"

	"github.com/aretw0/flowcraft/internal/presentation/graph"
	"github.com/aretw0/flowcraft/pkg/serializer"
	"github.com/aretw0/flowcraft/pkg/validator"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the flow graph visualization",
	Long:  `Reads a flow document and outputs a Mermaid diagram (graph TD) of its nodes and edges.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		highlight, _ := cmd.Flags().GetBool("highlight-errors")
		return runGraph(cmd.OutOrStdout(), args[0], highlight)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("highlight-errors", false, "Style nodes that have validation errors")
}

func runGraph(w io.Writer, path string, highlight bool) error {
	doc, err := serializer.ReadFile(path)
	if err != nil {
		return err
	}
	var overlay *graph.GraphOverlay
	if highlight {
		overlay = graph.OverlayFromErrors(validator.ValidateFlow(doc))
	}
	_, err = fmt.Fprint(w, graph.GenerateMermaid(doc, overlay))
	return err
}
