package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/sysarch/internal/ansi"
	"github.com/papapumpkin/sysarch/internal/hierarchy"
	"github.com/papapumpkin/sysarch/internal/model"
	"github.com/papapumpkin/sysarch/internal/watch"
)

var showAssemblyCmd = &cobra.Command{
	Use:   "show-assembly",
	Short: "Show the containment tree of an assembly",
	Long: `Show the containment tree of an assembly.

A sub-assembly that already appears on the path from the root is shown as
a circular-reference placeholder and not expanded again. With --watch the
tree is redrawn whenever the database changes.`,
	Args: cobra.NoArgs,
	RunE: runShowAssembly,
}

func init() {
	showAssemblyCmd.Flags().Int64("assembly-id", 0, "assembly ID")
	showAssemblyCmd.Flags().Bool("watch", false, "redraw when the catalog changes")
	_ = showAssemblyCmd.MarkFlagRequired("assembly-id")
	rootCmd.AddCommand(showAssemblyCmd)
}

func runShowAssembly(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, _ := cmd.Flags().GetInt64("assembly-id")
	follow, _ := cmd.Flags().GetBool("watch")
	if !follow {
		return showTree(cmd, a, id)
	}

	w, err := watch.New(a.cfg.DBPath, a.cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	redraw := isTerminal(cmd.OutOrStdout())
	for {
		if redraw {
			fmt.Fprint(cmd.OutOrStdout(), ansi.ClearScreen)
		}
		if err := showTree(cmd, a, id); err != nil {
			a.ui.Err(err)
		}
		a.ui.Info("watching " + a.cfg.DBPath + " (ctrl+c to stop)")

		select {
		case <-cmd.Context().Done():
			return nil
		case _, ok := <-w.Changes:
			if !ok {
				return nil
			}
		}
	}
}

func showTree(cmd *cobra.Command, a *app, id int64) error {
	root, err := hierarchy.BuildTree(cmd.Context(), a.store, id)
	if err != nil {
		return err
	}
	if root == nil {
		return fmt.Errorf("assembly %d: %w", id, model.ErrNotFound)
	}
	return a.out.Tree(root)
}
