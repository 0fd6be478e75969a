package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/sysarch/internal/connections"
	"github.com/papapumpkin/sysarch/internal/hierarchy"
)

var listPartsCmd = &cobra.Command{
	Use:   "list-parts",
	Short: "List the part instances of an assembly",
	Long: `List the part instances of an assembly.

Sub-assemblies are descended recursively unless --no-recursive is given;
nested parts are indented one level per sub-assembly.`,
	Args: cobra.NoArgs,
	RunE: runListParts,
}

var listConnectionsCmd = &cobra.Command{
	Use:   "list-connections",
	Short: "List the connectors touching a part, feature or assembly item",
	Args:  cobra.NoArgs,
	RunE:  runListConnections,
}

var listFeaturesCmd = &cobra.Command{
	Use:   "list-features",
	Short: "List the features of a part",
	Args:  cobra.NoArgs,
	RunE:  runListFeatures,
}

var whereUsedCmd = &cobra.Command{
	Use:   "where-used",
	Short: "List the assemblies that contain an assembly, directly or indirectly",
	Args:  cobra.NoArgs,
	RunE:  runWhereUsed,
}

func init() {
	listPartsCmd.Flags().Int64("assembly-id", 0, "assembly ID")
	listPartsCmd.Flags().Bool("no-recursive", false, "only show direct parts (not nested)")
	_ = listPartsCmd.MarkFlagRequired("assembly-id")

	f := listConnectionsCmd.Flags()
	f.Int64("part-id", 0, "part ID")
	f.Int64("feature-id", 0, "feature ID")
	f.Int64("item-id", 0, "assembly item ID")
	listConnectionsCmd.MarkFlagsOneRequired("part-id", "feature-id", "item-id")
	listConnectionsCmd.MarkFlagsMutuallyExclusive("part-id", "feature-id", "item-id")

	listFeaturesCmd.Flags().Int64("part-id", 0, "part ID")
	_ = listFeaturesCmd.MarkFlagRequired("part-id")

	whereUsedCmd.Flags().Int64("assembly-id", 0, "assembly ID")
	_ = whereUsedCmd.MarkFlagRequired("assembly-id")

	rootCmd.AddCommand(listPartsCmd, listConnectionsCmd, listFeaturesCmd, whereUsedCmd)
}

func runListParts(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, _ := cmd.Flags().GetInt64("assembly-id")
	noRecursive, _ := cmd.Flags().GetBool("no-recursive")
	recs, err := hierarchy.Flatten(cmd.Context(), a.store, id, !noRecursive)
	if err != nil {
		return err
	}
	return a.out.Occurrences(id, recs)
}

func runListConnections(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		recs    []connections.Record
		subject string
	)
	ctx := cmd.Context()
	switch {
	case cmd.Flags().Changed("feature-id"):
		id, _ := cmd.Flags().GetInt64("feature-id")
		subject = fmt.Sprintf("feature %d", id)
		recs, err = connections.ByFeature(ctx, a.store, id)
	case cmd.Flags().Changed("part-id"):
		id, _ := cmd.Flags().GetInt64("part-id")
		subject = fmt.Sprintf("part %d", id)
		recs, err = connections.ByPart(ctx, a.store, id)
	default:
		id, _ := cmd.Flags().GetInt64("item-id")
		subject = fmt.Sprintf("assembly item %d", id)
		recs, err = connections.ByAssemblyItem(ctx, a.store, id)
	}
	if err != nil {
		return err
	}
	return a.out.Connections(subject, recs)
}

func runListFeatures(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, _ := cmd.Flags().GetInt64("part-id")
	fs, err := a.store.FeaturesForPart(cmd.Context(), id)
	if err != nil {
		return err
	}
	return a.out.Features(id, fs)
}

func runWhereUsed(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, _ := cmd.Flags().GetInt64("assembly-id")
	users, err := hierarchy.WhereUsed(cmd.Context(), a.store, id)
	if err != nil {
		return err
	}
	return a.out.Assemblies(fmt.Sprintf("Assemblies containing assembly %d:", id), users)
}
