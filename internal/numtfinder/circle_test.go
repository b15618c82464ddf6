package numtfinder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdirTemp moves into a fresh working directory for tests that write
// the doubled query next to the run.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return tmp
}

func Test_mtQuery(t *testing.T) {
	tmp := chdirTemp(t)

	mtPath := filepath.Join(tmp, "mito.fasta")
	if err := writeFasta(mtPath, []fastaSeq{{name: "mtGenome", seq: "ACGTACGTACGTACGTACGT"}}); err != nil {
		t.Fatal(err)
	}

	query, mtLen, mtName, err := mtQuery(mtPath, true, false, false)
	if err != nil {
		t.Fatalf("mtQuery() error = %v", err)
	}

	if query != "mito2X.fasta" {
		t.Errorf("mtQuery() query = %q, want mito2X.fasta", query)
	}
	if mtLen != 20 || mtName != "mtGenome" {
		t.Errorf("mtQuery() = (%d, %q), want (20, mtGenome)", mtLen, mtName)
	}

	doubled, err := readFasta(query)
	if err != nil {
		t.Fatalf("failed to read the doubled query: %v", err)
	}
	if len(doubled) != 1 || doubled[0].name != "mtGenome2X" {
		t.Fatalf("doubled query = %v, want one mtGenome2X record", doubled)
	}
	if want := strings.Repeat("ACGTACGTACGTACGTACGT", 2); doubled[0].seq != want {
		t.Errorf("doubled sequence = %q, want the mtDNA twice", doubled[0].seq)
	}
}

// an existing doubled query is reused unless force is set
func Test_mtQuery_cache(t *testing.T) {
	tmp := chdirTemp(t)

	mtPath := filepath.Join(tmp, "mito.fasta")
	if err := writeFasta(mtPath, []fastaSeq{{name: "mtGenome", seq: "ACGTACGTACGTACGTACGT"}}); err != nil {
		t.Fatal(err)
	}
	if err := writeFasta("mito2X.fasta", []fastaSeq{{name: "sentinel", seq: "AAAA"}}); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := mtQuery(mtPath, true, false, false); err != nil {
		t.Fatalf("mtQuery() error = %v", err)
	}
	got, err := readFasta("mito2X.fasta")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].name != "sentinel" {
		t.Error("cached doubled query was rebuilt without force")
	}

	if _, _, _, err := mtQuery(mtPath, true, true, false); err != nil {
		t.Fatalf("mtQuery() with force error = %v", err)
	}
	got, err = readFasta("mito2X.fasta")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].name != "mtGenome2X" {
		t.Error("force did not rebuild the doubled query")
	}
}

// a linear reference is used as-is, with no doubled copy
func Test_mtQuery_linear(t *testing.T) {
	tmp := chdirTemp(t)

	mtPath := filepath.Join(tmp, "mito.fasta")
	if err := writeFasta(mtPath, []fastaSeq{{name: "mtGenome", seq: "ACGTACGTACGTACGTACGT"}}); err != nil {
		t.Fatal(err)
	}

	query, mtLen, _, err := mtQuery(mtPath, false, false, false)
	if err != nil {
		t.Fatalf("mtQuery() error = %v", err)
	}
	if query != mtPath || mtLen != 20 {
		t.Errorf("mtQuery() = (%q, %d), want the reference itself and 20", query, mtLen)
	}
	if _, err := os.Stat("mito2X.fasta"); !os.IsNotExist(err) {
		t.Error("a doubled query was written for a linear reference")
	}
}

// a multi-sequence mtDNA reference falls back to its first sequence
func Test_mtQuery_multi(t *testing.T) {
	tmp := chdirTemp(t)

	mtPath := filepath.Join(tmp, "mito.fasta")
	seqs := []fastaSeq{{name: "chrM", seq: "ACGTACGT"}, {name: "scaffold1", seq: "TTTT"}}
	if err := writeFasta(mtPath, seqs); err != nil {
		t.Fatal(err)
	}

	query, mtLen, mtName, err := mtQuery(mtPath, true, false, false)
	if err != nil {
		t.Fatalf("mtQuery() error = %v", err)
	}
	if mtLen != 8 || mtName != "chrM" {
		t.Errorf("mtQuery() = (%d, %q), want the first sequence (8, chrM)", mtLen, mtName)
	}

	doubled, err := readFasta(query)
	if err != nil {
		t.Fatal(err)
	}
	if len(doubled) != 1 || doubled[0].seq != "ACGTACGTACGTACGT" {
		t.Errorf("doubled query = %v, want only the first sequence doubled", doubled)
	}
}
