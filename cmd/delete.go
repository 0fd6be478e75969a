package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/sysarch/internal/catalog"
	"github.com/papapumpkin/sysarch/internal/model"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <kind> <id>",
	Short: "Delete a catalog entity",
	Long: `Delete a catalog entity.

Deleting a part removes its features and instances; deleting an assembly
removes its items and any instance of it inside other assemblies. Connectors
attached to removed features or items go with them. An assembly that is
still a system's overall assembly cannot be deleted.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: kindNames(),
	RunE:      runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func kindNames() []string {
	kinds := catalog.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

func runDelete(cmd *cobra.Command, args []string) error {
	kind, err := catalog.ParseKind(args[0])
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id %q is not an integer (kinds: %s)", model.ErrInvalidArgument, args[1], strings.Join(kindNames(), ", "))
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.svc.Delete(cmd.Context(), kind, id); err != nil {
		return err
	}
	a.ui.Deleted(string(kind), id)
	return nil
}
