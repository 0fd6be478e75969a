package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/sysarch/internal/hierarchy"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Audit the containment graph for cycles",
	Long: `Audit the containment graph of the whole catalog.

Reports root assemblies, nesting depth and independent assembly families,
and lists every item that closes a containment cycle. Exits non-zero when a
cycle is found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := hierarchy.Audit(cmd.Context(), a.store)
	if err != nil {
		return err
	}
	if err := a.out.Report(rep); err != nil {
		return err
	}
	if !rep.Healthy() {
		return fmt.Errorf("containment audit found %d cyclic item(s)", len(rep.CyclicItems))
	}
	return nil
}
