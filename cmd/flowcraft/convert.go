package main

import (
	"fmt"
	"io"

	"github.com/aretw0/flowcraft/pkg/serializer"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> [out]",
	Short: "Convert a flow document between JSON and YAML",
	Long: `Reads a flow document and writes it in canonical form. The formats follow the file
extensions (.json, .yaml, .yml). Without an output file the document is printed in the
format given by --to.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := ""
		if len(args) == 2 {
			out = args[1]
		}
		to, _ := cmd.Flags().GetString("to")
		return runConvert(cmd.OutOrStdout(), args[0], out, to)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("to", "yaml", "Output format when printing: json or yaml")
}

func runConvert(w io.Writer, in, out, to string) error {
	doc, err := serializer.ReadFile(in)
	if err != nil {
		return err
	}
	if out != "" {
		if err := serializer.WriteFile(out, doc); err != nil {
			return err
		}
		logger.Info("flow converted", "from", in, "to", out)
		return nil
	}

	f, err := serializer.ParseFormat(to)
	if err != nil {
		return err
	}
	data, err := serializer.Encode(doc, f)
	if err != nil {
		return err
	}
	return printDocument(w, data)
}

// printDocument writes data followed by exactly one newline.
func printDocument(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] == '\n' {
		return nil
	}
	_, err := fmt.Fprintln(w)
	return err
}
