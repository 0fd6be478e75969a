package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/sysarch/internal/tui"
	"github.com/papapumpkin/sysarch/internal/watch"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse assemblies and their containment trees interactively",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := watch.New(a.cfg.DBPath, a.cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	return tui.Run(cmd.Context(), a.store, tui.Options{
		Path:    a.cfg.DBPath,
		Changes: w.Changes,
		Color:   a.cfg.Color,
	})
}
