package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/iroquiz/internal/controller"
	"github.com/abhisek/iroquiz/internal/store"
)

// validateConcurrency caps parallel loads in `datasets validate`.
const validateConcurrency = 4

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage quiz datasets",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured and imported datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-24s  %-10s  %s\n", "Name", "Kind", "Source")
		fmt.Fprintln(out, strings.Repeat("─", 80))

		for _, d := range e.cfg.Catalog() {
			fmt.Fprintf(out, "%-24s  %-10s  %s\n", d.Label, "config", d.Source)
		}

		infos, err := e.store.ListDatasets(cmd.Context())
		if err != nil {
			return fmt.Errorf("list library: %w", err)
		}
		for _, info := range infos {
			fmt.Fprintf(out, "%-24s  %-10s  %s (%d records, from %s)\n",
				info.Name, "library", librarySource(info.Name), info.Records, info.Source)
		}

		fmt.Fprintf(out, "\n%d datasets\n", len(e.cfg.Catalog())+len(infos))
		return nil
	},
}

var datasetsValidateCmd = &cobra.Command{
	Use:   "validate SOURCE...",
	Short: "Load each source and report how many colors are playable",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		type result struct {
			entries int
			err     error
		}
		results := make([]result, len(args))

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(validateConcurrency)
		for i, src := range args {
			g.Go(func() error {
				ds, err := e.loader.Load(ctx, src)
				results[i] = result{entries: ds.Len(), err: err}
				return nil
			})
		}
		_ = g.Wait()

		out := cmd.OutOrStdout()
		failed := 0
		for i, src := range args {
			r := results[i]
			if r.err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s: %s\n", src, controller.LoadErrorMessage(r.err))
				continue
			}
			fmt.Fprintf(out, "✓ %s: %d colors\n", src, r.entries)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d sources failed", failed, len(args))
		}
		return nil
	},
}

var datasetsImportCmd = &cobra.Command{
	Use:   "import NAME SOURCE",
	Short: "Copy a dataset into the local library as db:NAME",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, src := args[0], args[1]
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		records, err := e.loader.Records(cmd.Context(), src)
		if err != nil {
			return fmt.Errorf("read %s: %w", src, err)
		}
		info, err := e.store.SaveDataset(cmd.Context(), name, src, records)
		if err != nil {
			return fmt.Errorf("import %s: %w", name, err)
		}
		e.loader.Invalidate(librarySource(name))

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records as %s\n", info.Records, librarySource(info.Name))
		return nil
	},
}

var datasetsRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Delete a dataset from the local library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.RemoveDataset(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no dataset named %q in the library", args[0])
			}
			return fmt.Errorf("remove %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", librarySource(args[0]))
		return nil
	},
}

func init() {
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsValidateCmd)
	datasetsCmd.AddCommand(datasetsImportCmd)
	datasetsCmd.AddCommand(datasetsRemoveCmd)
}
