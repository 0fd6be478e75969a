package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/sysarch/internal/model"
)

var addSystemCmd = &cobra.Command{
	Use:   "add-system",
	Short: "Add a new system",
	Args:  cobra.NoArgs,
	RunE:  runAddSystem,
}

var addPartCmd = &cobra.Command{
	Use:   "add-part",
	Short: "Add a new part",
	Args:  cobra.NoArgs,
	RunE:  runAddPart,
}

var addFeatureCmd = &cobra.Command{
	Use:   "add-feature",
	Short: "Add a feature to a part",
	Args:  cobra.NoArgs,
	RunE:  runAddFeature,
}

var addAssemblyCmd = &cobra.Command{
	Use:   "add-assembly",
	Short: "Add a new assembly",
	Args:  cobra.NoArgs,
	RunE:  runAddAssembly,
}

func init() {
	addSystemCmd.Flags().String("name", "", "system name")
	addSystemCmd.Flags().Int64("overall-assembly-id", 0, "ID of the system's overall assembly")
	_ = addSystemCmd.MarkFlagRequired("name")

	addPartCmd.Flags().String("name", "", "part name")
	addPartCmd.Flags().String("file-location", "", "part file location")
	_ = addPartCmd.MarkFlagRequired("name")
	_ = addPartCmd.MarkFlagRequired("file-location")

	addFeatureCmd.Flags().Int64("part-id", 0, "ID of the owning part")
	addFeatureCmd.Flags().String("name", "", "feature name")
	_ = addFeatureCmd.MarkFlagRequired("part-id")
	_ = addFeatureCmd.MarkFlagRequired("name")

	addAssemblyCmd.Flags().String("name", "", "assembly name")
	addAssemblyCmd.Flags().String("file-location", "", "assembly file location")
	addAssemblyCmd.Flags().String("image", "", "assembly image path")
	addAssemblyCmd.Flags().Int64("system-id", 0, "ID of the system the assembly belongs to")
	addAssemblyCmd.Flags().Int64("parent-assembly-id", 0, "ID of the parent assembly (informational)")
	_ = addAssemblyCmd.MarkFlagRequired("name")
	_ = addAssemblyCmd.MarkFlagRequired("file-location")

	rootCmd.AddCommand(addSystemCmd, addPartCmd, addFeatureCmd, addAssemblyCmd)
}

func runAddSystem(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name, _ := cmd.Flags().GetString("name")
	id, err := a.svc.AddSystem(cmd.Context(), model.System{
		Name:              name,
		OverallAssemblyID: optionalID(cmd, "overall-assembly-id"),
	})
	if err != nil {
		return err
	}
	return a.out.Created("system", id)
}

func runAddPart(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name, _ := cmd.Flags().GetString("name")
	file, _ := cmd.Flags().GetString("file-location")
	id, err := a.svc.AddPart(cmd.Context(), model.Part{Name: name, FileLocation: file})
	if err != nil {
		return err
	}
	return a.out.Created("part", id)
}

func runAddFeature(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	partID, _ := cmd.Flags().GetInt64("part-id")
	name, _ := cmd.Flags().GetString("name")
	id, err := a.svc.AddFeature(cmd.Context(), model.Feature{Name: name, PartID: partID})
	if err != nil {
		return err
	}
	return a.out.Created("feature", id)
}

func runAddAssembly(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name, _ := cmd.Flags().GetString("name")
	file, _ := cmd.Flags().GetString("file-location")
	image, _ := cmd.Flags().GetString("image")
	id, err := a.svc.AddAssembly(cmd.Context(), model.Assembly{
		Name:             name,
		FileLocation:     file,
		Image:            image,
		SystemID:         optionalID(cmd, "system-id"),
		ParentAssemblyID: optionalID(cmd, "parent-assembly-id"),
	})
	if err != nil {
		return err
	}
	return a.out.Created("assembly", id)
}
