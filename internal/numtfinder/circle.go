package numtfinder

import (
	"os"
	"path/filepath"
	"strings"
)

// mtQuery prepares the mtDNA search query. A circular reference is
// doubled so local alignments can run through the origin, and the
// doubled copy is cached as <mtbase>2X.fasta for later runs. A linear
// reference is used as-is. Returns the query path, the true mtDNA
// length and the mtDNA sequence name.
func mtQuery(mtPath string, circle, force, logSummary bool) (string, int, string, error) {
	seqs, err := readFasta(mtPath)
	if err != nil {
		return "", 0, "", err
	}
	if len(seqs) > 1 {
		stderr.Printf("%d sequences in mtDNA FASTA %s: using the first sequence only", len(seqs), mtPath)
	}
	if logSummary {
		summarise(mtPath, seqs)
	}

	mt := seqs[0]
	if !circle {
		return mtPath, len(mt.seq), mt.name, nil
	}

	base := strings.TrimSuffix(filepath.Base(mtPath), filepath.Ext(mtPath))
	query := base + "2X.fasta"
	if _, err := os.Stat(query); err == nil && !force {
		stderr.Printf("using existing doubled mtDNA query %s (force=F)", query)
		return query, len(mt.seq), mt.name, nil
	}

	doubled := fastaSeq{
		name: mt.name + "2X",
		desc: mt.desc,
		seq:  mt.seq + mt.seq,
	}
	if err := writeFasta(query, []fastaSeq{doubled}); err != nil {
		return "", 0, "", err
	}
	stderr.Printf("doubled mtDNA query saved to %s", query)

	return query, len(mt.seq), mt.name, nil
}
