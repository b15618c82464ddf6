package numtfinder

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// fastaWidth is the line width of all FASTA output.
const fastaWidth = 60

// fastaSeq is a single DNA record read from a FASTA file.
type fastaSeq struct {
	// name is the record identifier, the first word of the header
	name string

	// desc is the rest of the header line
	desc string

	// seq is the uppercased sequence
	seq string
}

// readFasta reads every sequence of a FASTA file into memory.
func readFasta(path string) ([]fastaSeq, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FASTA file %s: %v", path, err)
	}
	defer in.Close()

	r := fasta.NewReader(in, linear.NewSeq("", nil, alphabet.DNA))
	sc := seqio.NewScanner(r)

	var seqs []fastaSeq
	for sc.Next() {
		next := sc.Seq().(*linear.Seq)
		seqs = append(seqs, fastaSeq{
			name: next.ID,
			desc: next.Desc,
			seq:  strings.ToUpper(next.Seq.String()),
		})
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("failed to read FASTA file %s: %v", path, err)
	}
	if len(seqs) == 0 {
		return nil, fmt.Errorf("no sequences in FASTA file %s", path)
	}

	return seqs, nil
}

// writeFasta writes records to a FASTA file, wrapped to fastaWidth columns.
func writeFasta(path string, seqs []fastaSeq) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create FASTA file %s: %v", path, err)
	}
	defer out.Close()

	w := fasta.NewWriter(out, fastaWidth)
	for _, s := range seqs {
		rec := linear.NewSeq(s.name, alphabet.BytesToLetters([]byte(s.seq)), alphabet.DNA)
		rec.Desc = s.desc
		if _, err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write %s to FASTA file %s: %v", s.name, path, err)
		}
	}

	return nil
}

// summarise logs the number, total length and length range of the
// sequences read from a FASTA file.
func summarise(path string, seqs []fastaSeq) {
	lens := make([]float64, len(seqs))
	for i, s := range seqs {
		lens[i] = float64(len(s.seq))
	}

	total := floats.Sum(lens)
	stderr.Printf(
		"%s: %d sequences; %.0f bp total; %.0f bp min; %.0f bp max; %.1f bp mean",
		path, len(seqs), total, floats.Min(lens), floats.Max(lens), stat.Mean(lens, nil),
	)
}

// reverseComplement returns the reverse complement of a sequence.
// Ambiguity codes other than N come back as N.
func reverseComplement(seq string) string {
	seq = strings.ToUpper(seq)

	revCompMap := map[rune]byte{
		'A': 'T',
		'T': 'A',
		'G': 'C',
		'C': 'G',
		'N': 'N',
	}

	var revCompBuffer bytes.Buffer
	for _, c := range seq {
		b, ok := revCompMap[c]
		if !ok {
			b = 'N'
		}
		revCompBuffer.WriteByte(b)
	}

	revCompBytes := revCompBuffer.Bytes()
	for i := 0; i < len(revCompBytes)/2; i++ {
		j := len(revCompBytes) - i - 1
		revCompBytes[i], revCompBytes[j] = revCompBytes[j], revCompBytes[i]
	}

	return string(revCompBytes)
}
