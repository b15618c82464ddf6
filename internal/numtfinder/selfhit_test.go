package numtfinder

import (
	"math"
	"strings"
	"testing"

	set "gopkg.in/fatih/set.v0"

	"github.com/slimsuite/numtfinder/config"
)

func Test_selfHitFilter(t *testing.T) {
	conf := config.SelfHitConfig{MaxCov: 99, MaxID: 99, Exclude: true}

	// mtChr is a complete mtDNA copy, chr1 carries an ordinary NUMT
	frags := []fragment{
		{seqName: "mtChr", start: 1, end: 1000, forward: true, length: 1000, identity: 1000, mtStart: 1, mtEnd: 1000},
		{seqName: "chr1", start: 100, end: 200, forward: true, length: 101, identity: 95, mtStart: 1, mtEnd: 101},
	}

	excluded := set.New(set.NonThreadSafe)
	kept, warnings := selfHitFilter(frags, conf, 8000, 1000, excluded)

	if len(kept) != 1 || kept[0].seqName != "chr1" {
		t.Errorf("selfHitFilter() kept %v, want only the chr1 fragment", kept)
	}
	if !excluded.Has("mtChr") {
		t.Error("mtChr missing from the exclusion set")
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func Test_selfHitFilter_thresholds(t *testing.T) {
	type args struct {
		identity int
		maxID    float64
	}
	tests := []struct {
		name     string
		args     args
		excluded bool
	}{
		{"identity above the threshold", args{996, 99}, true},
		{"identity at the threshold", args{990, 99}, true},
		{"identity below the threshold", args{950, 99}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := config.SelfHitConfig{MaxCov: 99, MaxID: tt.args.maxID, Exclude: true}
			frags := []fragment{
				{seqName: "mtChr", start: 1, end: 1000, forward: true, length: 1000, identity: tt.args.identity, mtStart: 1, mtEnd: 1000},
			}
			excluded := set.New(set.NonThreadSafe)
			kept, _ := selfHitFilter(frags, conf, 8000, 1000, excluded)
			if gotExcluded := len(kept) == 0; gotExcluded != tt.excluded {
				t.Errorf("identity %d with mtmaxid %.0f: excluded = %v, want %v",
					tt.args.identity, tt.args.maxID, gotExcluded, tt.excluded)
			}
		})
	}
}

// with mtexclude off a self-hit is reported but its fragments stay
func Test_selfHitFilter_keep(t *testing.T) {
	conf := config.SelfHitConfig{MaxCov: 99, MaxID: 99, Exclude: false}
	frags := []fragment{
		{seqName: "mtChr", start: 1, end: 1000, forward: true, length: 1000, identity: 1000, mtStart: 1, mtEnd: 1000},
	}

	excluded := set.New(set.NonThreadSafe)
	kept, _ := selfHitFilter(frags, conf, 8000, 1000, excluded)

	if len(kept) != 1 {
		t.Error("selfHitFilter() dropped the self-hit with mtexclude off")
	}
	if excluded.Size() != 0 {
		t.Error("exclusion set updated with mtexclude off")
	}
}

// explicitly excluded sequences are dropped no matter their hits
func Test_selfHitFilter_explicit(t *testing.T) {
	conf := config.SelfHitConfig{MaxCov: 99, MaxID: 99, Exclude: true}
	frags := []fragment{
		{seqName: "chr1", start: 100, end: 200, forward: true, length: 101, identity: 95, mtStart: 1, mtEnd: 101},
	}

	excluded := set.New(set.NonThreadSafe)
	excluded.Add("chr1")
	kept, _ := selfHitFilter(frags, conf, 8000, 1000, excluded)

	if len(kept) != 0 {
		t.Errorf("selfHitFilter() kept %v, want none from an explicitly excluded sequence", kept)
	}
}

// a self-hit sequence whose fragments sit in more than one assembly
// region likely carries real NUMTs next to the mtDNA copy
func Test_selfHitFilter_warning(t *testing.T) {
	conf := config.SelfHitConfig{MaxCov: 99, MaxID: 99, Exclude: true}
	frags := []fragment{
		{seqName: "mtChr", start: 1, end: 600, forward: true, length: 600, identity: 600, mtStart: 1, mtEnd: 600},
		{seqName: "mtChr", start: 20000, end: 20400, forward: true, length: 400, identity: 400, mtStart: 601, mtEnd: 1000},
	}

	excluded := set.New(set.NonThreadSafe)
	_, warnings := selfHitFilter(frags, conf, 8000, 1000, excluded)

	if len(warnings) != 1 || !strings.Contains(warnings[0], "mtChr") {
		t.Errorf("selfHitFilter() warnings = %v, want one naming mtChr", warnings)
	}
}

// wrap-spanning fragments contribute both pieces to mtDNA coverage
func Test_referenceCoverage(t *testing.T) {
	frags := []fragment{{seqName: "mtChr", mtStart: 980, mtEnd: 30}}
	if got := referenceCoverage(frags, 1000); math.Abs(got-5.1) > 1e-9 {
		t.Errorf("referenceCoverage() = %.3f, want 5.1", got)
	}
}

// overlapping intervals only count once toward coverage
func Test_referenceCoverage_union(t *testing.T) {
	frags := []fragment{
		{seqName: "mtChr", mtStart: 1, mtEnd: 600},
		{seqName: "mtChr", mtStart: 401, mtEnd: 800},
	}
	if got := referenceCoverage(frags, 1000); math.Abs(got-80) > 1e-9 {
		t.Errorf("referenceCoverage() = %.3f, want 80", got)
	}
}
