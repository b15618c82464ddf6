package numtfinder

import "testing"

// every aligned mtDNA base lands in the profile exactly once per fragment
func Test_coverageProfile(t *testing.T) {
	frags := []fragment{
		{seqName: "chr1", mtStart: 1, mtEnd: 100},
		{seqName: "chr1", mtStart: 51, mtEnd: 150},
		{seqName: "chr2", mtStart: 980, mtEnd: 30},
	}

	depth, err := coverageProfile(frags, 1000)
	if err != nil {
		t.Fatalf("coverageProfile() error = %v", err)
	}

	total := 0
	for _, d := range depth {
		total += d
	}
	if want := 100 + 100 + 51; total != want {
		t.Errorf("coverageProfile() total depth = %d, want %d", total, want)
	}

	if depth[0] != 2 {
		t.Errorf("depth at position 1 = %d, want 2", depth[0])
	}
	if depth[100] != 1 {
		t.Errorf("depth at position 101 = %d, want 1", depth[100])
	}
	if depth[979] != 1 || depth[999] != 1 {
		t.Errorf("wrap depth at positions 980 and 1000 = %d, %d, want 1, 1", depth[979], depth[999])
	}
	if depth[200] != 0 {
		t.Errorf("depth at position 201 = %d, want 0", depth[200])
	}
}

func Test_coverageProfile_outOfRange(t *testing.T) {
	frags := []fragment{{seqName: "chr1", start: 1, end: 2000, mtStart: 1, mtEnd: 2000}}
	if _, err := coverageProfile(frags, 1000); err == nil {
		t.Error("coverageProfile() accepted a fragment past the mtDNA end")
	}
}

func Test_coverageProfile_empty(t *testing.T) {
	depth, err := coverageProfile(nil, 100)
	if err != nil {
		t.Fatalf("coverageProfile() error = %v", err)
	}
	if len(depth) != 100 {
		t.Fatalf("coverageProfile() length = %d, want 100", len(depth))
	}
	for i, d := range depth {
		if d != 0 {
			t.Fatalf("depth at position %d = %d, want 0", i+1, d)
		}
	}
}
