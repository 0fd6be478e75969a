package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/sysarch/internal/render"
	"github.com/papapumpkin/sysarch/internal/store"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Initialize the database schema",
	Args:  cobra.NoArgs,
	RunE:  runInitDB,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show database location, size and row counts",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(initDBCmd, infoCmd)
}

func runInitDB(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	// Opening the store creates any missing tables.
	if a.out.Format() == render.Text {
		fmt.Fprintf(cmd.OutOrStdout(), "Database initialized at %s\n", a.cfg.DBPath)
		return nil
	}
	return writeInfo(cmd, a)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return writeInfo(cmd, a)
}

func writeInfo(cmd *cobra.Command, a *app) error {
	stats, err := a.store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	return a.out.Info(render.DBInfo{
		Path:   a.cfg.DBPath,
		Size:   fileSize(a.cfg.DBPath) + fileSize(a.cfg.DBPath+"-wal"),
		Tables: stats,
	}, store.Tables())
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}
