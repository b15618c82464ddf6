package numtfinder

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slimsuite/numtfinder/config"
)

// Flags contains parsed cobra flags like "mtdna", "seqin", "basefile",
// etc that drive a single run.
type Flags struct {
	// the mitochondrial reference genome FASTA
	mtDNA string

	// the genome assembly FASTA searched for NUMTs
	seqIn string

	// an existing fragment table re-processed by blocks and coverage
	fragIn string

	// the prefix for every output file
	basefile string

	// assembly sequences whose hits are always dropped
	exclude []string

	// whether to keep the raw blastn hit table for later runs
	keepBlast bool

	// whether to regenerate cached query and search files
	force bool

	// whether to log a summary of each input FASTA
	summarise bool

	// whether to write fragment sequences to fasta, and whether reverse
	// strand fragments are flipped to mtDNA orientation
	fragFas     bool
	fragRevComp bool

	// whether to write block region sequences to fasta
	blockFas bool

	// whether to write the fragment GFF
	gff bool

	// the directory for fasta output
	fasDir string

	// the coverage profile format, empty for none
	profile string

	// whether to log per-sequence detail
	verbose bool
}

// inputParser contains methods for parsing flags from the input &cobra.Command
type inputParser struct{}

// NewFlags makes a new flags object manually. for testing
func NewFlags(mtDNA, seqIn, fragIn, basefile, fasDir, profile string, fragFas, blockFas bool) (*Flags, config.Config) {
	if fragFas || blockFas {
		if err := os.MkdirAll(fasDir, 0755); err != nil {
			stderr.Fatal(err)
		}
	}

	return &Flags{
		mtDNA:       mtDNA,
		seqIn:       seqIn,
		fragIn:      fragIn,
		basefile:    basefile,
		keepBlast:   true,
		summarise:   true,
		fragFas:     fragFas,
		fragRevComp: true,
		blockFas:    blockFas,
		gff:         true,
		fasDir:      fasDir,
		profile:     profile,
	}, config.New()
}

// parseSearchFlags gathers the search command's flags and settings for
// a full pipeline run.
func parseSearchFlags(cmd *cobra.Command) (*Flags, config.Config) {
	var err error
	fs := &Flags{} // parsed flags
	p := inputParser{}
	c := config.New()

	if fs.mtDNA, err = cmd.Flags().GetString("mtdna"); err != nil || fs.mtDNA == "" {
		stderr.Fatal("no mtDNA reference passed: set --mtdna")
	}
	if fs.seqIn, err = cmd.Flags().GetString("seqin"); err != nil || fs.seqIn == "" {
		stderr.Fatal("no genome assembly passed: set --seqin")
	}
	if fs.basefile, err = cmd.Flags().GetString("basefile"); err != nil || fs.basefile == "" {
		fs.basefile = p.guessBasefile(fs.seqIn)
	}

	excludeFlag, _ := cmd.Flags().GetString("exclude")
	fs.exclude = p.getExcluded(excludeFlag)

	fs.keepBlast, _ = cmd.Flags().GetBool("keepblast")
	fs.force, _ = cmd.Flags().GetBool("force")
	fs.summarise, _ = cmd.Flags().GetBool("summarise")
	fs.fragFas, _ = cmd.Flags().GetBool("fragfas")
	fs.fragRevComp, _ = cmd.Flags().GetBool("fragrevcomp")
	fs.blockFas, _ = cmd.Flags().GetBool("blockfas")
	fs.gff, _ = cmd.Flags().GetBool("gff")
	fs.fasDir, _ = cmd.Flags().GetString("fasdir")
	fs.profile, _ = cmd.Flags().GetString("profile")
	fs.verbose = viper.GetBool("verbose")

	if fs.profile != "" {
		if err := validProfileFormat(fs.profile); err != nil {
			stderr.Fatal(err)
		}
	}

	p.parseConfigFlags(cmd, &c)
	if err := c.Validate(); err != nil {
		stderr.Fatal(err)
	}

	if fs.fragFas || fs.blockFas {
		if err := os.MkdirAll(fs.fasDir, 0755); err != nil {
			stderr.Fatalf("failed to create fasta output directory %s: %v", fs.fasDir, err)
		}
	}

	return fs, c
}

// parseBlocksFlags gathers the blocks command's flags for re-merging an
// existing fragment table.
func parseBlocksFlags(cmd *cobra.Command) (*Flags, config.Config) {
	var err error
	fs := &Flags{} // parsed flags
	p := inputParser{}
	c := config.New()

	if fs.fragIn, err = cmd.Flags().GetString("fragin"); err != nil || fs.fragIn == "" {
		stderr.Fatal("no fragment table passed: set --fragin")
	}
	if fs.basefile, err = cmd.Flags().GetString("basefile"); err != nil || fs.basefile == "" {
		fs.basefile = p.fragBasefile(fs.fragIn)
	}

	fs.seqIn, _ = cmd.Flags().GetString("seqin")
	fs.blockFas, _ = cmd.Flags().GetBool("blockfas")
	fs.fasDir, _ = cmd.Flags().GetString("fasdir")
	fs.summarise, _ = cmd.Flags().GetBool("summarise")
	fs.verbose = viper.GetBool("verbose")

	if fs.blockFas && fs.seqIn == "" {
		stderr.Fatal("block fasta output needs the assembly: set --seqin or --blockfas=false")
	}

	p.parseConfigFlags(cmd, &c)
	if err := c.Validate(); err != nil {
		stderr.Fatal(err)
	}

	if fs.blockFas {
		if err := os.MkdirAll(fs.fasDir, 0755); err != nil {
			stderr.Fatalf("failed to create fasta output directory %s: %v", fs.fasDir, err)
		}
	}

	return fs, c
}

// parseCoverageFlags gathers the coverage command's flags for rebuilding
// the mtDNA depth profile from an existing fragment table.
func parseCoverageFlags(cmd *cobra.Command) *Flags {
	var err error
	fs := &Flags{} // parsed flags
	p := inputParser{}

	if fs.fragIn, err = cmd.Flags().GetString("fragin"); err != nil || fs.fragIn == "" {
		stderr.Fatal("no fragment table passed: set --fragin")
	}
	if fs.mtDNA, err = cmd.Flags().GetString("mtdna"); err != nil || fs.mtDNA == "" {
		stderr.Fatal("no mtDNA reference passed: set --mtdna")
	}
	if fs.basefile, err = cmd.Flags().GetString("basefile"); err != nil || fs.basefile == "" {
		fs.basefile = p.fragBasefile(fs.fragIn)
	}

	fs.summarise, _ = cmd.Flags().GetBool("summarise")
	fs.profile, _ = cmd.Flags().GetString("profile")
	fs.verbose = viper.GetBool("verbose")

	if fs.profile != "" {
		if err := validProfileFormat(fs.profile); err != nil {
			stderr.Fatal(err)
		}
	}

	return fs
}

// parseConfigFlags overlays pipeline flags the user set explicitly onto
// the settings backed config. Flags win over the settings file.
func (p *inputParser) parseConfigFlags(cmd *cobra.Command, c *config.Config) {
	fs := cmd.Flags()

	if fs.Changed("circle") {
		c.Circle, _ = fs.GetBool("circle")
	}
	if fs.Changed("blaste") {
		c.Search.Evalue, _ = fs.GetFloat64("blaste")
	}
	if fs.Changed("forks") {
		c.Search.Forks, _ = fs.GetInt("forks")
	}
	if fs.Changed("minfraglen") {
		c.Search.MinFragLen, _ = fs.GetInt("minfraglen")
	}
	if fs.Changed("fragmerge") {
		c.Merge.FragMerge, _ = fs.GetInt("fragmerge")
	}
	if fs.Changed("stranded") {
		c.Merge.Stranded, _ = fs.GetBool("stranded")
	}
	if fs.Changed("mtmaxcov") {
		c.SelfHit.MaxCov, _ = fs.GetFloat64("mtmaxcov")
	}
	if fs.Changed("mtmaxid") {
		c.SelfHit.MaxID, _ = fs.GetFloat64("mtmaxid")
	}
	if fs.Changed("mtexclude") {
		c.SelfHit.Exclude, _ = fs.GetBool("mtexclude")
	}
}

// getExcluded splits the comma separated exclude flag into sequence
// names. Names are kept case-sensitive.
func (p *inputParser) getExcluded(excludeFlag string) []string {
	var names []string
	for _, n := range strings.Split(excludeFlag, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// guessBasefile derives the output prefix from the assembly filename.
func (p *inputParser) guessBasefile(seqIn string) string {
	base := filepath.Base(seqIn)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".numtfinder"
}

// fragBasefile derives the output prefix from a fragment table name.
func (p *inputParser) fragBasefile(fragIn string) string {
	if strings.HasSuffix(fragIn, ".numtfrag.tdt") {
		return strings.TrimSuffix(fragIn, ".numtfrag.tdt")
	}
	return strings.TrimSuffix(fragIn, filepath.Ext(fragIn))
}
