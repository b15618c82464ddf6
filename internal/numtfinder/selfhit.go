package numtfinder

import (
	"fmt"
	"sort"

	set "gopkg.in/fatih/set.v0"

	"github.com/slimsuite/numtfinder/config"
)

// selfHitFilter drops fragments from assembly sequences that are
// themselves (near-)complete mtDNA copies. A sequence is a self-hit when
// its fragments cover at least conf.MaxCov percent of the mtDNA at
// conf.MaxID percent identity or better; with conf.Exclude it joins the
// exclusion set. Fragments on excluded sequences, the explicitly listed
// ones included, are dropped from the returned pool. The exclusion set is
// updated in place. Returned warnings flag excluded sequences carrying
// fragments beyond the self-hit region.
func selfHitFilter(frags []fragment, conf config.SelfHitConfig, mergeGap, mtLen int, excluded set.Interface) ([]fragment, []string) {
	bySeq := map[string][]fragment{}
	var order []string
	for _, f := range frags {
		if _, ok := bySeq[f.seqName]; !ok {
			order = append(order, f.seqName)
		}
		bySeq[f.seqName] = append(bySeq[f.seqName], f)
	}
	sort.Strings(order)

	var warnings []string
	for _, seq := range order {
		group := bySeq[seq]
		cov := referenceCoverage(group, mtLen)
		ident := groupIdentity(group)
		if cov < conf.MaxCov || ident < conf.MaxID {
			continue
		}

		stderr.Printf("%s covers %.1f%% of the mtDNA at %.1f%% identity: mtDNA self-hit", seq, cov, ident)
		if !conf.Exclude {
			stderr.Printf("%s kept in NUMT output (mtexclude=F)", seq)
			continue
		}
		excluded.Add(seq)
		if regions := assemblyRegions(group, mergeGap); regions > 1 {
			w := fmt.Sprintf(
				"excluded self-hit sequence %s carries %d separate NUMT regions: likely an mtDNA plus NUMT sequence",
				seq, regions,
			)
			warnings = append(warnings, w)
			stderr.Printf("WARNING: %s", w)
		}
	}

	kept := make([]fragment, 0, len(frags))
	droppedFrom := set.New(set.NonThreadSafe)
	dropped := 0
	for _, f := range frags {
		if excluded.Has(f.seqName) {
			droppedFrom.Add(f.seqName)
			dropped++
			continue
		}
		kept = append(kept, f)
	}
	if dropped > 0 {
		stderr.Printf("dropped %d NUMT fragments from %d excluded sequences", dropped, droppedFrom.Size())
	}

	return kept, warnings
}

// referenceCoverage is the percentage of the mtDNA spanned by the union
// of the fragments' mtDNA intervals. Wrap-spanning intervals count as two
// pieces, split at the origin.
func referenceCoverage(frags []fragment, mtLen int) float64 {
	type span struct{ start, end int }
	var spans []span
	for _, f := range frags {
		if f.wraps() {
			spans = append(spans, span{f.mtStart, mtLen}, span{1, f.mtEnd})
		} else {
			spans = append(spans, span{f.mtStart, f.mtEnd})
		}
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end < spans[j].end
	})

	covered, end := 0, 0
	for _, s := range spans {
		if s.start > end {
			covered += s.end - s.start + 1
			end = s.end
		} else if s.end > end {
			covered += s.end - end
			end = s.end
		}
	}

	return 100 * float64(covered) / float64(mtLen)
}

// groupIdentity is the identity percentage of a group of fragments,
// identical bases over aligned length.
func groupIdentity(frags []fragment) float64 {
	var identity, length int
	for _, f := range frags {
		identity += f.identity
		length += f.length
	}
	if length == 0 {
		return 0
	}

	return 100 * float64(identity) / float64(length)
}

// assemblyRegions counts the regions left after merging a sequence's
// fragments in assembly space with the block merge distance. A self-hit
// sequence collapsing to a single region is a plain mtDNA copy; more than
// one region means extra NUMTs elsewhere on the sequence.
func assemblyRegions(frags []fragment, mergeGap int) int {
	if len(frags) == 0 {
		return 0
	}
	sorted := make([]fragment, len(frags))
	copy(sorted, frags)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	regions, end := 1, sorted[0].end
	for _, f := range sorted[1:] {
		if f.start-end > mergeGap {
			regions++
		}
		if f.end > end {
			end = f.end
		}
	}

	return regions
}
