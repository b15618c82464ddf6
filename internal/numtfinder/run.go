package numtfinder

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	set "gopkg.in/fatih/set.v0"

	"github.com/slimsuite/numtfinder/config"
)

// SearchCmd takes a cobra command (with its flags) and runs Search
func SearchCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseSearchFlags(cmd)
	if err := Search(flags, conf); err != nil {
		stderr.Fatal(err)
	}
}

// BlocksCmd takes a cobra command (with its flags) and runs Blocks
func BlocksCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseBlocksFlags(cmd)
	if err := Blocks(flags, conf); err != nil {
		stderr.Fatal(err)
	}
}

// CoverageCmd takes a cobra command (with its flags) and runs Coverage
func CoverageCmd(cmd *cobra.Command, args []string) {
	if err := Coverage(parseCoverageFlags(cmd)); err != nil {
		stderr.Fatal(err)
	}
}

// Search runs the whole NUMT pipeline: prepare the mtDNA query, blast it
// against the assembly, reduce the hits to a unique fragment set, drop
// mtDNA self-hits, merge fragments into blocks, profile mtDNA coverage
// and write every output.
func Search(flags *Flags, conf config.Config) error {
	ctx := context.Background()

	query, mtLen, mtName, err := mtQuery(flags.mtDNA, conf.Circle, flags.force, flags.summarise)
	if err != nil {
		return err
	}

	assembly, err := readFasta(flags.seqIn)
	if err != nil {
		return err
	}
	if flags.summarise {
		summarise(flags.seqIn, assembly)
	}

	hits, err := searchNUMTs(ctx, assembly, searchOpts{
		query:     query,
		subject:   flags.seqIn,
		out:       flags.basefile + ".blast.tsv",
		evalue:    conf.Search.Evalue,
		forks:     conf.Search.Forks,
		keepBlast: flags.keepBlast,
		force:     flags.force,
	})
	if err != nil {
		return err
	}
	stderr.Printf("%d local hits from the NUMT search", len(hits))

	unique, err := uniquify(hits, conf.Search.MinFragLen)
	if err != nil {
		return err
	}
	stderr.Printf("%d unique non-overlapping NUMT hits", len(unique))

	frags := makeFragments(unique, newProjector(mtLen, conf.Circle))

	excluded := set.New(set.NonThreadSafe)
	for _, name := range flags.exclude {
		excluded.Add(name)
	}
	frags, _ = selfHitFilter(frags, conf.SelfHit, conf.Merge.FragMerge, mtLen, excluded)
	frags = sortFragments(frags)
	if len(frags) == 0 {
		stderr.Printf("no NUMT fragments retained")
	}
	if flags.verbose {
		logFragCounts(frags)
	}

	blocks := mergeBlocks(frags, conf.Merge.FragMerge, conf.Merge.Stranded)
	depth, err := coverageProfile(frags, mtLen)
	if err != nil {
		return err
	}

	return writeOutputs(flags, frags, blocks, depth, mtName, assembly, excluded)
}

// Blocks rebuilds the NUMT block table from a saved fragment table,
// letting the merge distance and strandedness change without a fresh
// blastn search.
func Blocks(flags *Flags, conf config.Config) error {
	frags, err := readFragTable(flags.fragIn)
	if err != nil {
		return err
	}
	if flags.verbose {
		logFragCounts(frags)
	}

	blocks := mergeBlocks(frags, conf.Merge.FragMerge, conf.Merge.Stranded)

	blockPath := flags.basefile + ".numtblock.tdt"
	if err := writeBlockTable(blockPath, blocks); err != nil {
		return err
	}
	stderr.Printf("NUMT block table saved to %s", blockPath)

	if flags.blockFas {
		assembly, err := readFasta(flags.seqIn)
		if err != nil {
			return err
		}
		if flags.summarise {
			summarise(flags.seqIn, assembly)
		}
		seqByName := make(map[string]string, len(assembly))
		for _, s := range assembly {
			seqByName[s.name] = s.seq
		}
		seqs, err := blockFasta(blocks, seqByName)
		if err != nil {
			return err
		}
		if len(seqs) > 0 {
			fasPath := filepath.Join(flags.fasDir, filepath.Base(flags.basefile)+".numtblock.fasta")
			if err := writeFasta(fasPath, seqs); err != nil {
				return err
			}
			stderr.Printf("%d NUMT block sequences saved to %s", len(seqs), fasPath)
		}
	}

	writeSummary(frags, blocks)
	return nil
}

// Coverage rebuilds the mtDNA depth profile from a saved fragment table.
func Coverage(flags *Flags) error {
	frags, err := readFragTable(flags.fragIn)
	if err != nil {
		return err
	}

	mtseqs, err := readFasta(flags.mtDNA)
	if err != nil {
		return err
	}
	if len(mtseqs) > 1 {
		stderr.Printf("%d sequences in mtDNA FASTA %s: using the first sequence only", len(mtseqs), flags.mtDNA)
	}
	if flags.summarise {
		summarise(flags.mtDNA, mtseqs)
	}
	mtLen, mtName := len(mtseqs[0].seq), mtseqs[0].name

	depth, err := coverageProfile(frags, mtLen)
	if err != nil {
		return err
	}

	covPath := flags.basefile + ".coverage.tdt"
	if err := writeCoverageTable(covPath, depth); err != nil {
		return err
	}
	stderr.Printf("mtDNA coverage table saved to %s", covPath)
	coverageSummary(depth)

	if flags.profile != "" {
		profilePath := flags.basefile + ".coverage." + profileExt(flags.profile)
		if err := writeProfile(profilePath, flags.profile, mtName, depth); err != nil {
			return err
		}
		stderr.Printf("mtDNA coverage profile saved to %s", profilePath)
	}

	return nil
}

// logFragCounts logs the retained fragment count per assembly sequence.
func logFragCounts(frags []fragment) {
	counts := map[string]int{}
	var order []string
	for _, f := range frags {
		if counts[f.seqName] == 0 {
			order = append(order, f.seqName)
		}
		counts[f.seqName]++
	}
	sort.Strings(order)
	for _, s := range order {
		stderr.Printf("%s: %d NUMT fragments", s, counts[s])
	}
}
