package cmd

import (
	"github.com/slimsuite/numtfinder/internal/numtfinder"
	"github.com/spf13/cobra"
)

// coverageCmd rebuilds the mtDNA coverage profile from a saved fragment table
var coverageCmd = &cobra.Command{
	Use:                        "coverage",
	Short:                      "Rebuild the mtDNA coverage profile from a saved fragment table",
	Run:                        numtfinder.CoverageCmd,
	SuggestionsMinimumDistance: 3,
	Long: `Project the fragments of a saved fragment table back onto the mtDNA
reference and rebuild the per-position coverage depth table, without
re-running blastn.`,
	Aliases: []string{"depth"},
}

// set flags
func init() {
	coverageCmd.Flags().StringP("fragin", "i", "", "NUMT fragment table from an earlier search (required)")
	coverageCmd.Flags().StringP("mtdna", "m", "", "mitochondrial reference genome FASTA (required)")
	coverageCmd.Flags().StringP("basefile", "b", "", "output file prefix (default: derived from the fragment table)")
	coverageCmd.Flags().StringP("profile", "p", "", profileHelp)
	coverageCmd.Flags().Bool("summarise", true, "whether to log a summary of each input FASTA")

	rootCmd.AddCommand(coverageCmd)
}
