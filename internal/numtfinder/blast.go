package numtfinder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"
)

// blastOutfmt is the tabular column layout requested from blastn and
// expected back by parseHits.
const blastOutfmt = "7 sseqid qstart qend sstart send bitscore evalue length nident"

// hit is a single blastn local alignment of the mtDNA query against an
// assembly (subject) sequence.
type hit struct {
	// seqName is the assembly sequence name
	seqName string

	// start and end are 1-based assembly coordinates, start <= end
	start int
	end   int

	// forward is false when blastn reported the subject right to left
	forward bool

	// bitScore of the local alignment
	bitScore float64

	// expect is the alignment evalue
	expect float64

	// length is the aligned length, gaps included
	length int

	// identity is the count of identical aligned bases
	identity int

	// mtStart and mtEnd are query coordinates on the (possibly doubled) mtDNA
	mtStart int
	mtEnd   int
}

// blastExec is one blastn invocation of the mtDNA query against one
// assembly FASTA.
type blastExec struct {
	// query is the path of the mtDNA query FASTA
	query string

	// subject is the path of the assembly FASTA searched for NUMTs
	subject string

	// out is the path the tabular hit table is written to
	out string

	// evalue cutoff passed to blastn
	evalue float64
}

// run calls the external blastn binary, writing hits to b.out.
func (b *blastExec) run(ctx context.Context) error {
	// https://www.ncbi.nlm.nih.gov/books/NBK279682/
	blastCmd := exec.CommandContext(ctx, "blastn",
		"-task", "blastn",
		"-query", b.query,
		"-subject", b.subject,
		"-out", b.out,
		"-outfmt", blastOutfmt,
		"-evalue", strconv.FormatFloat(b.evalue, 'g', -1, 64),
	)

	// execute BLAST and wait on it to finish
	if output, err := blastCmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to execute blastn against %s: %v: %s", b.subject, err, string(output))
	}

	return nil
}

// parseHits reads a blastn tabular hit table into hits. Subject
// coordinates arriving right to left are flipped onto the forward strand;
// query coordinates stay in doubled-mtDNA space for projection later.
func parseHits(path string) ([]hit, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blastn output %s: %v", path, err)
	}

	var hits []hit
	for i, line := range strings.Split(string(file), "\n") {
		// comment lines start with a #
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Fields(line)
		if len(cols) < 9 {
			return nil, fmt.Errorf("malformed hit on line %d of %s: %q", i+1, path, line)
		}

		mtStart, err1 := strconv.Atoi(cols[1])
		mtEnd, err2 := strconv.Atoi(cols[2])
		subjectStart, err3 := strconv.Atoi(cols[3])
		subjectEnd, err4 := strconv.Atoi(cols[4])
		bitScore, err5 := strconv.ParseFloat(cols[5], 64)
		expect, err6 := strconv.ParseFloat(cols[6], 64)
		length, err7 := strconv.Atoi(cols[7])
		identity, err8 := strconv.Atoi(cols[8])
		for _, convErr := range []error{err1, err2, err3, err4, err5, err6, err7, err8} {
			if convErr != nil {
				return nil, fmt.Errorf("malformed hit on line %d of %s: %v", i+1, path, convErr)
			}
		}

		// flip if blast is reading the subject right to left
		forward := true
		if subjectStart > subjectEnd {
			subjectStart, subjectEnd = subjectEnd, subjectStart
			forward = false
		}

		hits = append(hits, hit{
			seqName:  cols[0],
			start:    subjectStart,
			end:      subjectEnd,
			forward:  forward,
			bitScore: bitScore,
			expect:   expect,
			length:   length,
			identity: identity,
			mtStart:  mtStart,
			mtEnd:    mtEnd,
		})
	}

	return hits, nil
}

// searchOpts configures one NUMT search.
type searchOpts struct {
	// query is the mtDNA query FASTA, doubled when the mtDNA is circular
	query string

	// subject is the assembly FASTA searched for NUMTs
	subject string

	// out is the cached raw hit table, <basefile>.blast.tsv
	out string

	// evalue cutoff for blastn
	evalue float64

	// forks is the number of assembly shards searched concurrently
	forks int

	// keepBlast keeps the raw hit table after parsing
	keepBlast bool

	// force re-runs the search even when a cached hit table exists
	force bool
}

// searchNUMTs runs the blastn NUMT search and returns the parsed hits.
// An existing raw hit table is reused unless force is set; the table is
// kept afterwards unless keepBlast is false.
func searchNUMTs(ctx context.Context, assembly []fastaSeq, opts searchOpts) ([]hit, error) {
	if _, err := os.Stat(opts.out); err == nil && !opts.force {
		stderr.Printf("using existing NUMT search results %s (force=F)", opts.out)
		return parseHits(opts.out)
	}

	if _, err := exec.LookPath("blastn"); err != nil {
		return nil, fmt.Errorf("failed to find blastn in PATH: %v", err)
	}

	forks := opts.forks
	if forks > len(assembly) {
		forks = len(assembly)
	}
	if forks > 1 {
		if err := searchSharded(ctx, assembly, opts, forks); err != nil {
			return nil, err
		}
	} else {
		stderr.Printf("blasting %s against %s", opts.query, opts.subject)
		b := &blastExec{query: opts.query, subject: opts.subject, out: opts.out, evalue: opts.evalue}
		if err := b.run(ctx); err != nil {
			return nil, err
		}
	}

	hits, err := parseHits(opts.out)
	if err != nil {
		return nil, err
	}
	if !opts.keepBlast {
		os.Remove(opts.out)
	}

	return hits, nil
}

// searchSharded splits the assembly round-robin into forks chunk FASTAs,
// blasts the chunks concurrently and concatenates their hit tables, in
// chunk order, into opts.out.
func searchSharded(ctx context.Context, assembly []fastaSeq, opts searchOpts, forks int) error {
	dir, err := os.MkdirTemp("", "numtsearch")
	if err != nil {
		return fmt.Errorf("failed to create shard directory: %v", err)
	}
	defer os.RemoveAll(dir)

	chunks := make([][]fastaSeq, forks)
	for i, s := range assembly {
		chunks[i%forks] = append(chunks[i%forks], s)
	}

	execs := make([]*blastExec, forks)
	for i, chunk := range chunks {
		subject := filepath.Join(dir, fmt.Sprintf("chunk%d.fasta", i))
		if err := writeFasta(subject, chunk); err != nil {
			return err
		}
		execs[i] = &blastExec{
			query:   opts.query,
			subject: subject,
			out:     filepath.Join(dir, fmt.Sprintf("chunk%d.tsv", i)),
			evalue:  opts.evalue,
		}
	}

	stderr.Printf("blasting %s against %s in %d forks", opts.query, opts.subject, forks)
	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := pbs.AddBar(int64(forks),
		mpb.PrependDecorators(
			decor.Name("searched shards: "),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Name(""), " done"),
		),
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, b := range execs {
		b := b
		g.Go(func() error {
			if err := b.run(ctx); err != nil {
				return err
			}
			bar.Increment()
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		bar.Abort(true)
	}
	pbs.Wait()
	if err != nil {
		return err
	}

	out, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", opts.out, err)
	}
	defer out.Close()
	for _, b := range execs {
		part, err := os.ReadFile(b.out)
		if err != nil {
			return fmt.Errorf("failed to read shard output %s: %v", b.out, err)
		}
		if _, err := out.Write(part); err != nil {
			return fmt.Errorf("failed to write %s: %v", opts.out, err)
		}
	}

	return nil
}
