package cmd

import (
	"github.com/slimsuite/numtfinder/internal/numtfinder"
	"github.com/spf13/cobra"
)

var (
	excludeHelp = `comma separated assembly sequences whose hits are dropped from all output.
Sequences detected as mtDNA self-hits are added to this list.`

	profileHelp = `coverage profile format: bedgraph, csv or binary.
Append +lz4 or +zst to compress, eg "bedgraph+lz4". Empty for none.`
)

// searchCmd runs the full NUMT search pipeline against an assembly
var searchCmd = &cobra.Command{
	Use:                        "search",
	Short:                      "Search a genome assembly for NUMT fragments and blocks",
	Run:                        numtfinder.SearchCmd,
	SuggestionsMinimumDistance: 2,
	Long: `Search a genome assembly for nuclear copies of mitochondrial DNA (NUMTs).

A circular mtDNA reference is doubled so alignments can run through the
origin, then blasted against the assembly with blastn. Overlapping local
hits are reduced to a unique fragment set, assembly sequences that are
themselves mtDNA copies are dropped, nearby fragments are merged into
NUMT blocks and every fragment is projected onto the mtDNA to build a
coverage profile.`,
	Aliases: []string{"run", "find"},
}

// set flags
func init() {
	searchCmd.Flags().StringP("mtdna", "m", "", "mitochondrial reference genome FASTA (required)")
	searchCmd.Flags().StringP("seqin", "i", "", "genome assembly FASTA to search (required)")
	searchCmd.Flags().StringP("basefile", "b", "", "output file prefix (default: assembly name + .numtfinder)")
	searchCmd.Flags().Bool("circle", true, "whether the mtDNA reference is circular")
	searchCmd.Flags().Float64("blaste", 1e-4, "blastn evalue cutoff for the NUMT search")
	searchCmd.Flags().Int("forks", 0, "number of assembly shards to search in parallel")
	searchCmd.Flags().Int("minfraglen", 0, "minimum local alignment length for a NUMT fragment")
	searchCmd.Flags().Int("fragmerge", 8000, "max gap (bp) between fragments merged into a NUMT block")
	searchCmd.Flags().Bool("stranded", false, "whether to only merge fragments on the same strand")
	searchCmd.Flags().Float64("mtmaxcov", 99, "mtDNA coverage (%) at which a sequence counts as a self-hit")
	searchCmd.Flags().Float64("mtmaxid", 99, "identity (%) at which a covering sequence counts as a self-hit")
	searchCmd.Flags().Bool("mtexclude", true, "whether to drop sequences detected as mtDNA self-hits")
	searchCmd.Flags().StringP("exclude", "x", "", excludeHelp)
	searchCmd.Flags().Bool("keepblast", true, "whether to keep the raw blastn hit table for later runs")
	searchCmd.Flags().BoolP("force", "f", false, "whether to regenerate cached query and search files")
	searchCmd.Flags().Bool("summarise", true, "whether to log a summary of each input FASTA")
	searchCmd.Flags().Bool("fragfas", false, "whether to save NUMT fragment sequences to fasta")
	searchCmd.Flags().Bool("fragrevcomp", true, "whether reverse strand fragments are flipped to mtDNA orientation")
	searchCmd.Flags().Bool("blockfas", true, "whether to save NUMT block region sequences to fasta")
	searchCmd.Flags().StringP("fasdir", "d", "numtfasta", "directory for fasta output")
	searchCmd.Flags().Bool("gff", true, "whether to save NUMT fragments to GFF")
	searchCmd.Flags().StringP("profile", "p", "", profileHelp)

	rootCmd.AddCommand(searchCmd)
}
