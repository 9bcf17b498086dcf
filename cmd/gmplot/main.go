// gmplot is the file-level companion tool for the GMPLib packages: it
// combines exported figure files into composites and inspects merged
// parameter files without a notebook session.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cstarkjp/GMPLib/src/compose"
	"github.com/cstarkjp/GMPLib/src/gmlog"
	"github.com/cstarkjp/GMPLib/src/params"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "gmplot",
	Short: "Figure combination and parameter inspection for GMPLib",
}

var (
	combineSrcs    []string
	combineType    string
	combineLayout  string
	combineSpacing int
	combineAlign   bool
	combineOut     string
	combineOutDir  string
)

var combineCmd = &cobra.Command{
	Use:   "combine [image names...]",
	Short: "Combine named figure files into one composite",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		layout := compose.Vertical
		switch combineLayout {
		case "vertical", "v":
		case "horizontal", "h":
			layout = compose.Horizontal
		default:
			return fmt.Errorf("unknown layout %q (want vertical or horizontal)", combineLayout)
		}
		_, sources, err := compose.FetchImages(combineSrcs...)
		if err != nil {
			return err
		}
		return compose.Combine(compose.Options{
			OutName:    combineOut,
			Bundle:     args,
			Sources:    sources,
			FileType:   combineType,
			Spacing:    combineSpacing,
			OutDir:     combineOutDir,
			AlignRight: combineAlign,
		}, layout)
	},
}

var paramsFormat string

var paramsCmd = &cobra.Command{
	Use:   "params [files...]",
	Short: "Print the merged view of parameter files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := params.Load(args...)
		if err != nil {
			return err
		}
		switch paramsFormat {
		case "json":
			om := orderedmap.New()
			for _, name := range store.GroupNames() {
				om.Set(name, store.Group(name))
			}
			b, err := json.MarshalIndent(om, "", "    ")
			if err != nil {
				return err
			}
			fmt.Println(string(b))
		case "yaml":
			merged := map[string]params.Group{}
			for _, name := range store.GroupNames() {
				merged[name] = store.Group(name)
			}
			b, err := yaml.Marshal(merged)
			if err != nil {
				return err
			}
			fmt.Print(string(b))
		default:
			return fmt.Errorf("unknown format %q (want json or yaml)", paramsFormat)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gmplot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gmplot " + version)
	},
}

func init() {
	combineCmd.Flags().StringSliceVar(&combineSrcs, "src", []string{"."}, "source directories to scan for figure files")
	combineCmd.Flags().StringVar(&combineType, "type", "png", "file type: png, jpg, jpeg, or pdf")
	combineCmd.Flags().StringVar(&combineLayout, "layout", "vertical", "arrangement: vertical or horizontal")
	combineCmd.Flags().IntVar(&combineSpacing, "spacing", 20, "gap between images (pixels or points)")
	combineCmd.Flags().BoolVar(&combineAlign, "align-right", false, "align narrow images right (vertical) or short images bottom (horizontal)")
	combineCmd.Flags().StringVar(&combineOut, "out", "combined", "output name without extension")
	combineCmd.Flags().StringVar(&combineOutDir, "out-dir", ".", "output directory")

	paramsCmd.Flags().StringVar(&paramsFormat, "format", "json", "output format: json or yaml")

	rootCmd.AddCommand(combineCmd, paramsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		gmlog.Errorf("%v", err)
		os.Exit(1)
	}
}
