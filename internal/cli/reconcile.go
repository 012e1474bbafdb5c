package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bimshape/gis2bim/internal/engine"
)

var (
	reconcileFootprintFile string
	reconcileTargetFile    string
	reconcileOutputFile    string
	reconcileStyleFile     string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Copy footprint properties and styles onto an overlapping 3D model",
	Long: `Match the 2D footprints of one IFC file against the volumes of another
and enrich the volumes with the footprints' property sets and styles.

A volume matches a footprint when the volume's centroid lies strictly
inside the footprint's horizontal bounding box. The enriched target model
is written to the output file; the inputs are never modified.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()

		req := &engine.ReconcileRequest{
			FootprintFile: reconcileFootprintFile,
			TargetFile:    reconcileTargetFile,
			OutputFile:    reconcileOutputFile,
			StyleFile:     reconcileStyleFile,
		}

		result, err := eng.Reconcile(req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Reconciled %d of %s against %s",
			result.MatchedSources,
			PrintCount(result.SourceRecords, "footprint", "footprints"),
			PrintCount(result.TargetRecords, "volume", "volumes")))
		PrintLabelValue("Output", result.OutputFile)
		PrintLabelValue("Matches", fmt.Sprintf("%d", result.TotalMatches))
		PrintLabelValue("Property sets copied", fmt.Sprintf("%d", result.PropertySetsCopied))
		PrintLabelValue("Styled", fmt.Sprintf("%d (using %s)",
			result.Styled, PrintCount(result.StylesLoaded, "style rule", "style rules")))
		PrintLabelValue("Elapsed", result.Elapsed.String())

		if len(result.UnmatchedSources) > 0 {
			PrintWarning(fmt.Sprintf("%s had no overlapping volume:",
				PrintCount(len(result.UnmatchedSources), "footprint", "footprints")))
			PrintList(result.UnmatchedSources, 1)
		}
		printWarnings(result.Warnings)
		return nil
	},
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileFootprintFile, "input-footprint-file", "f", "", "IFC file with the 2D footprints")
	reconcileCmd.Flags().StringVarP(&reconcileTargetFile, "input-target-file", "v", "", "IFC file with the 3D volumes")
	reconcileCmd.Flags().StringVarP(&reconcileOutputFile, "output-file", "o", "", "Enriched IFC file to write")
	reconcileCmd.Flags().StringVarP(&reconcileStyleFile, "style-file", "s", "", "JSON style configuration")

	_ = reconcileCmd.MarkFlagRequired("input-footprint-file")
	_ = reconcileCmd.MarkFlagRequired("input-target-file")
	_ = reconcileCmd.MarkFlagRequired("output-file")
	_ = reconcileCmd.MarkFlagRequired("style-file")
}
