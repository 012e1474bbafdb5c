package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bimshape/gis2bim/internal/engine"
)

var (
	convertInputFolder  string
	convertOutputFile   string
	convertStyleFile    string
	convertPointSize    float64
	convertLineRadius   float64
	convertPolygonDepth float64
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a folder of shapefiles into a styled IFC model",
	Long: `Read every shapefile in the input folder and write one IFC file of
volume elements.

Points become cubes, lines become swept-disk solids, and polygons become
extruded slabs. Each element carries its feature's attribute table as a
property set, and the style configuration maps attribute values to surface
colors.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()

		req := &engine.ConvertRequest{
			InputFolder:  convertInputFolder,
			OutputFile:   convertOutputFile,
			StyleFile:    convertStyleFile,
			PointSize:    convertPointSize,
			LineRadius:   convertLineRadius,
			PolygonDepth: convertPolygonDepth,
		}

		result, err := eng.Convert(req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Converted %s from %s",
			PrintCount(result.Features, "feature", "features"),
			PrintCount(result.Shapefiles, "shapefile", "shapefiles")))
		PrintLabelValue("Output", result.OutputFile)
		PrintLabelValue("Styled", fmt.Sprintf("%d of %d (using %s)",
			result.Styled, result.Features,
			PrintCount(result.StylesLoaded, "style rule", "style rules")))
		PrintLabelValue("Elapsed", result.Elapsed.String())

		printWarnings(result.Warnings)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertInputFolder, "input-folder", "i", "", "Folder containing the shapefiles to convert")
	convertCmd.Flags().StringVarP(&convertOutputFile, "output-file", "o", "", "IFC file to write (.gz enables compression)")
	convertCmd.Flags().StringVarP(&convertStyleFile, "style-file", "s", "", "JSON style configuration")
	convertCmd.Flags().Float64Var(&convertPointSize, "point-size", engine.DefaultPointSize, "Cube edge length for point features")
	convertCmd.Flags().Float64Var(&convertLineRadius, "line-radius", engine.DefaultLineRadius, "Swept-disk radius for line features")
	convertCmd.Flags().Float64Var(&convertPolygonDepth, "polygon-depth", engine.DefaultPolygonDepth, "Extrusion depth for polygon features")

	_ = convertCmd.MarkFlagRequired("input-folder")
	_ = convertCmd.MarkFlagRequired("output-file")
	_ = convertCmd.MarkFlagRequired("style-file")
}
