package cmd

import (
	"github.com/slimsuite/numtfinder/internal/numtfinder"
	"github.com/spf13/cobra"
)

// blocksCmd re-merges NUMT blocks from a saved fragment table
var blocksCmd = &cobra.Command{
	Use:                        "blocks",
	Short:                      "Re-merge NUMT blocks from a saved fragment table",
	Run:                        numtfinder.BlocksCmd,
	SuggestionsMinimumDistance: 3,
	Long: `Rebuild the NUMT block table from a fragment table saved by an earlier
search, so the merge distance and strandedness can change without
re-running blastn.`,
	Aliases: []string{"merge"},
}

// set flags
func init() {
	blocksCmd.Flags().StringP("fragin", "i", "", "NUMT fragment table from an earlier search (required)")
	blocksCmd.Flags().StringP("basefile", "b", "", "output file prefix (default: derived from the fragment table)")
	blocksCmd.Flags().String("seqin", "", "genome assembly FASTA, needed for block fasta output")
	blocksCmd.Flags().Int("fragmerge", 8000, "max gap (bp) between fragments merged into a NUMT block")
	blocksCmd.Flags().Bool("stranded", false, "whether to only merge fragments on the same strand")
	blocksCmd.Flags().Bool("blockfas", false, "whether to save NUMT block region sequences to fasta")
	blocksCmd.Flags().StringP("fasdir", "d", "numtfasta", "directory for fasta output")
	blocksCmd.Flags().Bool("summarise", true, "whether to log a summary of each input FASTA")

	rootCmd.AddCommand(blocksCmd)
}
