package numtfinder

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func Test_validProfileFormat(t *testing.T) {
	tests := []struct {
		name   string
		format string
		valid  bool
	}{
		{"bedgraph", "bedgraph", true},
		{"csv", "csv", true},
		{"binary", "binary", true},
		{"bedgraph lz4", "bedgraph+lz4", true},
		{"csv zst", "csv+zst", true},
		{"binary lz4", "binary+lz4", true},
		{"unknown format", "wiggle", false},
		{"unknown zip", "bedgraph+gz", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validProfileFormat(tt.format); (err == nil) != tt.valid {
				t.Errorf("validProfileFormat(%q) error = %v, want valid = %v", tt.format, err, tt.valid)
			}
		})
	}
}

func Test_profileExt(t *testing.T) {
	if got := profileExt("bedgraph+lz4"); got != "bedgraph.lz4" {
		t.Errorf("profileExt() = %q, want bedgraph.lz4", got)
	}
	if got := profileExt("csv"); got != "csv" {
		t.Errorf("profileExt() = %q, want csv", got)
	}
}

// zero-depth runs are dropped and each step is a 0-based half-open span
func Test_writeProfile_bedgraph(t *testing.T) {
	depth := []int{0, 0, 2, 2, 1, 0}
	path := filepath.Join(t.TempDir(), "cov.bedgraph")

	if err := writeProfile(path, "bedgraph", "mtGenome", depth); err != nil {
		t.Fatalf("writeProfile() error = %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "mtGenome\t2\t4\t2\nmtGenome\t4\t5\t1\n"
	if string(raw) != want {
		t.Errorf("bedgraph profile = %q, want %q", string(raw), want)
	}
}

// a run that reaches the last position is still flushed
func Test_writeProfile_bedgraphTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cov.bedgraph")

	if err := writeProfile(path, "bedgraph", "mt", []int{0, 3, 3}); err != nil {
		t.Fatalf("writeProfile() error = %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(raw), "mt\t1\t3\t3\n"; got != want {
		t.Errorf("bedgraph profile = %q, want %q", got, want)
	}
}

func Test_writeProfile_csv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cov.csv")

	if err := writeProfile(path, "csv", "mtGenome", []int{1, 2, 3}); err != nil {
		t.Fatalf("writeProfile() error = %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(raw), "mtGenome,3,1 2 3\n"; got != want {
		t.Errorf("csv profile = %q, want %q", got, want)
	}
}

func Test_writeProfile_binary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cov.binary")

	if err := writeProfile(path, "binary", "mtGenome", []int{5, 0, 7}); err != nil {
		t.Fatalf("writeProfile() error = %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// version + length + checksum + 3 int32 values
	if want := 1 + 4 + 4 + 12; len(raw) != want {
		t.Fatalf("binary profile is %d bytes, want %d", len(raw), want)
	}
	if raw[0] != profileVersion {
		t.Errorf("binary profile version = %d, want %d", raw[0], profileVersion)
	}
	if length := binary.LittleEndian.Uint32(raw[1:5]); length != 3 {
		t.Errorf("binary profile length = %d, want 3", length)
	}
	if v := int32(binary.LittleEndian.Uint32(raw[9:13])); v != 5 {
		t.Errorf("first binary profile value = %d, want 5", v)
	}
	if v := int32(binary.LittleEndian.Uint32(raw[17:21])); v != 7 {
		t.Errorf("last binary profile value = %d, want 7", v)
	}
}

func Test_writeProfile_compressed(t *testing.T) {
	depth := make([]int, 500)
	for i := range depth {
		depth[i] = 1
	}
	for _, format := range []string{"csv+lz4", "csv+zst", "binary+zst"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cov."+profileExt(format))
			if err := writeProfile(path, format, "mtGenome", depth); err != nil {
				t.Fatalf("writeProfile(%q) error = %v", format, err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Size() == 0 {
				t.Errorf("compressed profile %s is empty", path)
			}
		})
	}
}
