package numtfinder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	set "gopkg.in/fatih/set.v0"
)

// fragHeader and blockHeader are the delimited table columns.
var (
	fragHeader  = []string{"SeqName", "Start", "End", "Strand", "BitScore", "Expect", "Length", "Identity", "mtStart", "mtEnd"}
	blockHeader = []string{"SeqName", "Start", "End", "Strand", "BitScore", "Expect", "Length", "Identity", "mtFrag", "FragNum", "FragLen", "FragGaps"}
)

// formatNum renders scores and evalues the way blastn reports them.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeFragTable saves the fragment table. Row order is the fragment
// sort order, so row number equals fragment num.
func writeFragTable(path string, frags []fragment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create fragment table %s: %v", path, err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, strings.Join(fragHeader, "\t"))
	for _, fr := range frags {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			fr.seqName, fr.start, fr.end, fr.strand(),
			formatNum(fr.bitScore), formatNum(fr.expect),
			fr.length, fr.identity, fr.mtStart, fr.mtEnd)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write fragment table %s: %v", path, err)
	}
	return f.Close()
}

// readFragTable loads a fragment table written by writeFragTable,
// re-assigning fragment nums from the sorted row order.
func readFragTable(path string) ([]fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fragment table %s: %v", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, fmt.Errorf("fragment table %s is empty", path)
	}
	if got := sc.Text(); got != strings.Join(fragHeader, "\t") {
		return nil, fmt.Errorf("unexpected fragment table header in %s: %q", path, got)
	}

	var frags []fragment
	line := 1
	for sc.Scan() {
		line++
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		cols := strings.Split(sc.Text(), "\t")
		if len(cols) != len(fragHeader) {
			return nil, fmt.Errorf("malformed row on line %d of %s: %d columns", line, path, len(cols))
		}
		if cols[3] != plusStrand && cols[3] != minusStrand {
			return nil, fmt.Errorf("malformed strand %q on line %d of %s", cols[3], line, path)
		}

		var convErr error
		toInt := func(s string) int {
			v, err := strconv.Atoi(s)
			if err != nil && convErr == nil {
				convErr = err
			}
			return v
		}
		toFloat := func(s string) float64 {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil && convErr == nil {
				convErr = err
			}
			return v
		}
		fr := fragment{
			seqName:  cols[0],
			start:    toInt(cols[1]),
			end:      toInt(cols[2]),
			forward:  cols[3] == plusStrand,
			bitScore: toFloat(cols[4]),
			expect:   toFloat(cols[5]),
			length:   toInt(cols[6]),
			identity: toInt(cols[7]),
			mtStart:  toInt(cols[8]),
			mtEnd:    toInt(cols[9]),
		}
		if convErr != nil {
			return nil, fmt.Errorf("malformed row on line %d of %s: %v", line, path, convErr)
		}
		frags = append(frags, fr)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fragment table %s: %v", path, err)
	}

	stderr.Printf("%d NUMT fragments loaded from %s", len(frags), path)
	return sortFragments(frags), nil
}

// writeBlockTable saves the merged block table.
func writeBlockTable(path string, blocks []block) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create block table %s: %v", path, err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, strings.Join(blockHeader, "\t"))
	for _, b := range blocks {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\t%d\t%d\t%s\t%d\t%d\t%d\n",
			b.seqName, b.start, b.end, b.strand,
			formatNum(b.bitScore), formatNum(b.expect),
			b.length, b.identity, b.mtFrag, b.fragNum, b.fragLen, b.fragGaps)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write block table %s: %v", path, err)
	}
	return f.Close()
}

// writeCoverageTable saves per-position mtDNA depth as Pos/Depth rows.
func writeCoverageTable(path string, depth []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create coverage table %s: %v", path, err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "Pos\tDepth")
	for i, d := range depth {
		fmt.Fprintf(w, "%d\t%d\n", i+1, d)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write coverage table %s: %v", path, err)
	}
	return f.Close()
}

// writeFragGFF saves the fragments as GFF2 features in assembly space,
// with the fragment num and mtDNA span as attributes.
func writeFragGFF(path string, frags []fragment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create GFF %s: %v", path, err)
	}

	w := gff.NewWriter(f, fastaWidth, true)
	for _, fr := range frags {
		score := fr.bitScore
		strand := seq.Plus
		if !fr.forward {
			strand = seq.Minus
		}
		gf := &gff.Feature{
			SeqName:    fr.seqName,
			Source:     "numtfinder",
			Feature:    "numt_fragment",
			FeatStart:  fr.start - 1,
			FeatEnd:    fr.end,
			FeatScore:  &score,
			FeatStrand: strand,
			FeatFrame:  gff.NoFrame,
			FeatAttributes: gff.Attributes{
				{Tag: "Frag", Value: strconv.Itoa(fr.num)},
				{Tag: "mt", Value: fmt.Sprintf(`"%d-%d"`, fr.mtStart, fr.mtEnd)},
			},
		}
		if _, err := w.Write(gf); err != nil {
			f.Close()
			return fmt.Errorf("failed to write GFF %s: %v", path, err)
		}
	}
	return f.Close()
}

// fragFasta extracts each fragment's assembly subsequence. With revComp,
// reverse strand fragments are flipped to read in mtDNA orientation.
func fragFasta(frags []fragment, seqByName map[string]string, revComp bool) ([]fastaSeq, error) {
	var seqs []fastaSeq
	for _, f := range frags {
		src, ok := seqByName[f.seqName]
		if !ok {
			return nil, fmt.Errorf("fragment sequence %s not in assembly", f.seqName)
		}
		if f.end > len(src) {
			return nil, fmt.Errorf("fragment %s:%d-%d runs past the %d bp sequence", f.seqName, f.start, f.end, len(src))
		}
		sub := src[f.start-1 : f.end]
		if revComp && !f.forward {
			sub = reverseComplement(sub)
		}
		seqs = append(seqs, fastaSeq{
			name: fmt.Sprintf("%s.%d-%d", f.seqName, f.start, f.end),
			desc: fmt.Sprintf("strand %s; mt:%d-%d", f.strand(), f.mtStart, f.mtEnd),
			seq:  sub,
		})
	}
	return seqs, nil
}

// blockFasta extracts each block's full assembly region, gaps included,
// always on the forward strand.
func blockFasta(blocks []block, seqByName map[string]string) ([]fastaSeq, error) {
	var seqs []fastaSeq
	for _, b := range blocks {
		src, ok := seqByName[b.seqName]
		if !ok {
			return nil, fmt.Errorf("block sequence %s not in assembly", b.seqName)
		}
		if b.end > len(src) {
			return nil, fmt.Errorf("block %s:%d-%d runs past the %d bp sequence", b.seqName, b.start, b.end, len(src))
		}
		seqs = append(seqs, fastaSeq{
			name: fmt.Sprintf("%s.%d-%d", b.seqName, b.start, b.end),
			desc: fmt.Sprintf("strand %s; frags %d", b.strand, b.fragNum),
			seq:  src[b.start-1 : b.end],
		})
	}
	return seqs, nil
}

// writeExclusions lists the excluded sequence names, one per line.
func writeExclusions(path string, excluded set.Interface) error {
	names := make([]string, 0, excluded.Size())
	for _, v := range excluded.List() {
		names = append(names, v.(string))
	}
	sort.Strings(names)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create exclusion list %s: %v", path, err)
	}
	for _, n := range names {
		fmt.Fprintln(f, n)
	}
	return f.Close()
}

// writeSummary prints per-sequence NUMT counts to stdout.
func writeSummary(frags []fragment, blocks []block) {
	fragCount := map[string]int{}
	blockCount := map[string]int{}
	var order []string
	for _, f := range frags {
		if _, seen := fragCount[f.seqName]; !seen {
			order = append(order, f.seqName)
		}
		fragCount[f.seqName]++
	}
	for _, b := range blocks {
		blockCount[b.seqName]++
	}
	sort.Strings(order)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintf(w, "sequence\tfragments\tblocks\n")
	for _, s := range order {
		fmt.Fprintf(w, "%s\t%d\t%d\n", s, fragCount[s], blockCount[s])
	}
	fmt.Fprintf(w, "total\t%d\t%d\n", len(frags), len(blocks))
	w.Flush()
}

// writeOutputs saves every run artifact next to the basefile prefix and
// prints the console summary.
func writeOutputs(flags *Flags, frags []fragment, blocks []block, depth []int, mtName string, assembly []fastaSeq, excluded set.Interface) error {
	fragPath := flags.basefile + ".numtfrag.tdt"
	if err := writeFragTable(fragPath, frags); err != nil {
		return err
	}
	stderr.Printf("NUMT fragment table saved to %s", fragPath)

	blockPath := flags.basefile + ".numtblock.tdt"
	if err := writeBlockTable(blockPath, blocks); err != nil {
		return err
	}
	stderr.Printf("NUMT block table saved to %s", blockPath)

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

	if flags.gff {
		gffPath := flags.basefile + ".numtfrag.gff"
		if err := writeFragGFF(gffPath, frags); err != nil {
			return err
		}
		stderr.Printf("NUMT fragment GFF saved to %s", gffPath)
	}

	if excluded.Size() > 0 {
		exclPath := flags.basefile + ".exclude.txt"
		if err := writeExclusions(exclPath, excluded); err != nil {
			return err
		}
		stderr.Printf("%d excluded sequences listed in %s", excluded.Size(), exclPath)
	}

	if flags.fragFas || flags.blockFas {
		seqByName := make(map[string]string, len(assembly))
		for _, s := range assembly {
			seqByName[s.name] = s.seq
		}
		base := filepath.Base(flags.basefile)
		if flags.fragFas {
			seqs, err := fragFasta(frags, seqByName, flags.fragRevComp)
			if err != nil {
				return err
			}
			if len(seqs) > 0 {
				fasPath := filepath.Join(flags.fasDir, base+".numtfrag.fasta")
				if err := writeFasta(fasPath, seqs); err != nil {
					return err
				}
				stderr.Printf("%d NUMT fragment sequences saved to %s", len(seqs), fasPath)
			}
		}
		if flags.blockFas {
			seqs, err := blockFasta(blocks, seqByName)
			if err != nil {
				return err
			}
			if len(seqs) > 0 {
				fasPath := filepath.Join(flags.fasDir, base+".numtblock.fasta")
				if err := writeFasta(fasPath, seqs); err != nil {
					return err
				}
				stderr.Printf("%d NUMT block sequences saved to %s", len(seqs), fasPath)
			}
		}
	}

	writeSummary(frags, blocks)
	return nil
}
