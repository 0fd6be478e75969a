package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/sysarch/internal/manifest"
)

var importCmd = &cobra.Command{
	Use:   "import <manifest.toml>",
	Short: "Create catalog entities from a TOML manifest",
	Long: `Create catalog entities from a TOML manifest.

Every assembly item and connector passes the same validation as the add
commands. Import stops at the first rejected entity; entities created
before it are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the hierarchy below an assembly as a TOML manifest",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().Int64("assembly-id", 0, "root assembly ID")
	exportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	_ = exportCmd.MarkFlagRequired("assembly-id")
	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := manifest.Apply(cmd.Context(), a.svc, m)
	if err != nil {
		return err
	}
	for _, s := range m.Systems {
		a.ui.Created("system", ids.Systems[s.Key], s.Name)
	}
	for _, as := range m.Assemblies {
		a.ui.Created("assembly", ids.Assemblies[as.Key], as.Name)
	}
	return a.out.Imported(args[0], ids, ids.Counts())
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, _ := cmd.Flags().GetInt64("assembly-id")
	m, err := manifest.Export(cmd.Context(), a.store, id)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return manifest.Write(cmd.OutOrStdout(), m)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := manifest.Write(f, m); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	a.ui.Success(fmt.Sprintf("exported assembly %d to %s", id, out))
	return nil
}
