package main

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/flowcraft/pkg/ports"
	"github.com/aretw0/flowcraft/pkg/serializer"
	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage flows in the configured document store",
	Long:  `Lists, uploads, downloads and deletes flows in the memory, file or redis document store selected by the configuration or --storage.`,
}

// withStore runs fn against the configured document store.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, docs ports.DocumentStore) error) error {
	ctx := cmd.Context()
	docs, closeDocs, err := openDocumentStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDocs()
	return fn(ctx, docs)
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored flows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, docs ports.DocumentStore) error {
			return runStoreList(ctx, cmd.OutOrStdout(), docs)
		})
	},
}

var storePushCmd = &cobra.Command{
	Use:   "push <file> [name]",
	Short: "Upload a document file (name defaults to the configured flow name)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.Flow.Name
		if len(args) == 2 {
			name = args[1]
		}
		return withStore(cmd, func(ctx context.Context, docs ports.DocumentStore) error {
			return runStorePush(ctx, cmd.OutOrStdout(), docs, args[0], name)
		})
	},
}

var storePullCmd = &cobra.Command{
	Use:   "pull <name> [file]",
	Short: "Download a stored flow to a file, or print it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := ""
		if len(args) == 2 {
			out = args[1]
		}
		return withStore(cmd, func(ctx context.Context, docs ports.DocumentStore) error {
			return runStorePull(ctx, cmd.OutOrStdout(), docs, args[0], out)
		})
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored flow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, docs ports.DocumentStore) error {
			return docs.Delete(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeListCmd, storePushCmd, storePullCmd, storeDeleteCmd)
}

func runStoreList(ctx context.Context, w io.Writer, docs ports.DocumentStore) error {
	names, err := docs.List(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}

func runStorePush(ctx context.Context, w io.Writer, docs ports.DocumentStore, file, name string) error {
	doc, err := serializer.ReadFile(file)
	if err != nil {
		return err
	}
	if err := docs.Save(ctx, name, doc); err != nil {
		return err
	}
	fmt.Fprintf(w, "Stored %s as %q\n", file, name)
	return nil
}

func runStorePull(ctx context.Context, w io.Writer, docs ports.DocumentStore, name, out string) error {
	doc, err := docs.Load(ctx, name)
	if err != nil {
		return err
	}
	if out != "" {
		return serializer.WriteFile(out, doc)
	}
	data, err := serializer.Encode(doc, serializer.FormatJSON)
	if err != nil {
		return err
	}
	return printDocument(w, data)
}
