package numtfinder

import "sort"

// fragment is a retained, non-overlapping NUMT hit on the assembly with
// its mtDNA location folded back onto the true circular coordinates.
type fragment struct {
	// num is the 1-based row number in the final sorted fragment table.
	// Blocks cite their member fragments by num.
	num int

	// seqName is the assembly sequence carrying the fragment
	seqName string

	// start and end are 1-based assembly coordinates, start <= end
	start int
	end   int

	// forward is false for hits on the reverse strand
	forward bool

	// alignment metrics carried over from the NUMT search
	bitScore float64
	expect   float64
	length   int
	identity int

	// mtStart and mtEnd locate the fragment on the true mtDNA circle;
	// mtEnd < mtStart signals a hit spanning the circularization breakpoint
	mtStart int
	mtEnd   int
}

// strand renders the fragment's strand marker.
func (f fragment) strand() string {
	if f.forward {
		return plusStrand
	}
	return minusStrand
}

// wraps reports whether the fragment crosses the circular origin.
func (f fragment) wraps() bool { return f.mtEnd < f.mtStart }

// span is the assembly-space length of the fragment.
func (f fragment) span() int { return f.end - f.start + 1 }

// makeFragments turns unique hits into fragments, folding their mtDNA
// coordinates back onto the circle. The hits themselves are not mutated.
func makeFragments(hits []hit, proj projector) []fragment {
	frags := make([]fragment, 0, len(hits))
	wrapped := 0
	for _, h := range hits {
		mtStart, mtEnd, wraps := proj.span(h.mtStart, h.mtEnd)
		if wraps {
			wrapped++
		}
		frags = append(frags, fragment{
			seqName:  h.seqName,
			start:    h.start,
			end:      h.end,
			forward:  h.forward,
			bitScore: h.bitScore,
			expect:   h.expect,
			length:   h.length,
			identity: h.identity,
			mtStart:  mtStart,
			mtEnd:    mtEnd,
		})
	}
	if wrapped > 0 {
		stderr.Printf("%d NUMT fragments span the circularization breakpoint", wrapped)
	}

	return frags
}

// sortFragments orders the fragment table by (SeqName, Start, End, Strand)
// and assigns each fragment its 1-based num.
func sortFragments(frags []fragment) []fragment {
	sort.SliceStable(frags, func(i, j int) bool {
		a, b := frags[i], frags[j]
		if a.seqName != b.seqName {
			return a.seqName < b.seqName
		}
		if a.start != b.start {
			return a.start < b.start
		}
		if a.end != b.end {
			return a.end < b.end
		}
		return a.strand() < b.strand()
	})
	for i := range frags {
		frags[i].num = i + 1
	}

	return frags
}
