package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/flowcraft/internal/presentation/tui"
	"github.com/aretw0/flowcraft/pkg/adapters/loam"
	"github.com/aretw0/flowcraft/pkg/validator"
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse a directory of flow documents",
	Long: `A library is a directory of flow documents (.json, .yaml or Markdown with the flow
in its front matter), read through Loam. Flows are named after their file path without
extension.`,
}

var libraryListCmd = &cobra.Command{
	Use:   "list <dir>",
	Short: "List the flows of a library and their validation status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loam.Open(args[0])
		if err != nil {
			return err
		}
		return runLibraryList(cmd.Context(), cmd.OutOrStdout(), lib)
	},
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <dir> <name>",
	Short: "Show the validation report of one flow",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loam.Open(args[0])
		if err != nil {
			return err
		}
		plain, _ := cmd.Flags().GetBool("plain")
		return runLibraryShow(cmd.Context(), cmd.OutOrStdout(), lib, args[1], !plain && tui.IsTerminal(os.Stdout))
	},
}

var libraryWatchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-validate flows as their files change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loam.Open(args[0])
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runLibraryWatch(ctx, cmd.OutOrStdout(), lib)
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd, libraryShowCmd, libraryWatchCmd)
	libraryShowCmd.Flags().Bool("plain", false, "Disable terminal styling")
}

func runLibraryList(ctx context.Context, w io.Writer, lib *loam.Loader) error {
	names, err := lib.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		flow, err := lib.Get(ctx, name)
		if err != nil {
			tui.Status(w, false, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		errs := validator.ValidateFlow(flow.Doc)
		label := name
		if flow.Title != "" {
			label = fmt.Sprintf("%s (%s)", name, flow.Title)
		}
		if len(errs) == 0 {
			tui.Status(w, true, label)
		} else {
			tui.Status(w, false, fmt.Sprintf("%s: %d problem(s)", label, len(errs)))
		}
	}
	return nil
}

func runLibraryShow(ctx context.Context, w io.Writer, lib *loam.Loader, name string, rich bool) error {
	flow, err := lib.Get(ctx, name)
	if err != nil {
		return err
	}
	title := name
	if flow.Title != "" {
		title = flow.Title
	}
	report := tui.ValidationReport(title, flow.Doc, validator.ValidateFlow(flow.Doc))
	if flow.Description != "" {
		report += "\n---\n\n" + flow.Description + "\n"
	}
	return tui.Render(w, report, rich)
}

func runLibraryWatch(ctx context.Context, w io.Writer, lib *loam.Loader) error {
	changes, err := lib.Watch(ctx)
	if err != nil {
		return err
	}
	logger.Info("watching library for changes")
	for name := range changes {
		doc, err := lib.Load(ctx, name)
		if err != nil {
			tui.Status(w, false, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		errs := validator.ValidateFlow(doc)
		tui.Status(w, len(errs) == 0, fmt.Sprintf("%s changed: %d problem(s)", name, len(errs)))
	}
	return nil
}
