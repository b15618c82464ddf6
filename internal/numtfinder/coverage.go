package numtfinder

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// coverageProfile counts, for every true mtDNA position, the NUMT
// fragments covering it. A fragment spanning the circularization
// breakpoint contributes two pieces split at the origin; the fragment
// itself stays whole. depth[i] holds the depth at 1-based position i+1.
func coverageProfile(frags []fragment, mtLen int) ([]int, error) {
	depth := make([]int, mtLen)
	add := func(start, end int) {
		for i := start; i <= end; i++ {
			depth[i-1]++
		}
	}
	for _, f := range frags {
		if f.mtStart < 1 || f.mtStart > mtLen || f.mtEnd < 1 || f.mtEnd > mtLen {
			return nil, fmt.Errorf("fragment %s:%d-%d maps to mt:%d-%d, outside the %d bp mtDNA", f.seqName, f.start, f.end, f.mtStart, f.mtEnd, mtLen)
		}
		if f.wraps() {
			add(f.mtStart, mtLen)
			add(1, f.mtEnd)
		} else {
			add(f.mtStart, f.mtEnd)
		}
	}
	return depth, nil
}

// coverageSummary logs depth statistics and how much of the mtDNA has
// NUMT coverage.
func coverageSummary(depth []int) {
	if len(depth) == 0 {
		return
	}
	vals := make([]float64, len(depth))
	covered := 0
	for i, d := range depth {
		vals[i] = float64(d)
		if d > 0 {
			covered++
		}
	}
	stderr.Printf(
		"mtDNA NUMT coverage: %.2f mean depth; %.0f max depth; %d of %d positions covered (%.1f%%)",
		stat.Mean(vals, nil), floats.Max(vals), covered, len(depth), 100*float64(covered)/float64(len(depth)),
	)
}
