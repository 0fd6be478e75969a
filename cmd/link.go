package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/sysarch/internal/model"
)

var addAssemblyItemCmd = &cobra.Command{
	Use:   "add-assembly-item",
	Short: "Place a part or sub-assembly instance inside an assembly",
	Long: `Place a part or sub-assembly instance inside an assembly.

Exactly one of --part-id and --sub-assembly-id must be given. A sub-assembly
that already contains the target assembly, at any depth, is rejected.`,
	Args: cobra.NoArgs,
	RunE: runAddAssemblyItem,
}

var createConnectorCmd = &cobra.Command{
	Use:   "create-connector",
	Short: "Connect a feature on one instance to a feature on another",
	Long: `Connect a feature on one instance to a feature on another.

Each feature must belong to the part its assembly item instances.
Connector types: ` + model.ConnectorTypeList() + `.`,
	Args: cobra.NoArgs,
	RunE: runCreateConnector,
}

func init() {
	f := addAssemblyItemCmd.Flags()
	f.Int64("assembly-id", 0, "ID of the containing assembly")
	f.Int64("part-id", 0, "ID of the part to instance")
	f.Int64("sub-assembly-id", 0, "ID of the sub-assembly to instance")
	f.String("instance-name", "", "instance name, local to the containing assembly")
	_ = addAssemblyItemCmd.MarkFlagRequired("assembly-id")
	_ = addAssemblyItemCmd.MarkFlagRequired("instance-name")

	f = createConnectorCmd.Flags()
	f.String("type", "", "connector type: "+model.ConnectorTypeList())
	f.Int64("feature1-id", 0, "first feature ID")
	f.Int64("feature2-id", 0, "second feature ID")
	f.Int64("item1-id", 0, "first assembly item ID")
	f.Int64("item2-id", 0, "second assembly item ID")
	for _, name := range []string{"type", "feature1-id", "feature2-id", "item1-id", "item2-id"} {
		_ = createConnectorCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(addAssemblyItemCmd, createConnectorCmd)
}

func runAddAssemblyItem(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	assemblyID, _ := cmd.Flags().GetInt64("assembly-id")
	instance, _ := cmd.Flags().GetString("instance-name")
	id, err := a.svc.AddAssemblyItem(cmd.Context(), model.AssemblyItem{
		AssemblyID:    assemblyID,
		PartID:        optionalID(cmd, "part-id"),
		SubAssemblyID: optionalID(cmd, "sub-assembly-id"),
		InstanceName:  instance,
	})
	if err != nil {
		return err
	}
	return a.out.Created("assembly item", id)
}

func runCreateConnector(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	typ, _ := cmd.Flags().GetString("type")
	f1, _ := cmd.Flags().GetInt64("feature1-id")
	f2, _ := cmd.Flags().GetInt64("feature2-id")
	i1, _ := cmd.Flags().GetInt64("item1-id")
	i2, _ := cmd.Flags().GetInt64("item2-id")
	id, err := a.svc.AddConnector(cmd.Context(), model.Connector{
		Type:            model.ConnectorType(typ),
		Feature1ID:      f1,
		Feature2ID:      f2,
		AssemblyItem1ID: i1,
		AssemblyItem2ID: i2,
	})
	if err != nil {
		return err
	}
	return a.out.Created("connector", id)
}
