package numtfinder

import (
	"strconv"
)

// block is a run of NUMT fragments on one assembly sequence merged by
// proximity. Fields accumulate over the member fragments.
type block struct {
	// seqName is the assembly sequence carrying the block
	seqName string

	// start and end are 1-based assembly coordinates spanning all members
	start int
	end   int

	// strand is +, - or +/- when unstranded merging mixed both
	strand string

	// bitScore, length and identity sum over the member fragments
	bitScore float64
	length   int
	identity int

	// expect is the best (smallest) member evalue
	expect float64

	// mtFrag cites the member fragment nums in merge order, | separated
	mtFrag string

	// fragNum is the member count
	fragNum int

	// fragLen is the summed assembly span of the members
	fragLen int

	// fragGaps is the summed gap length between consecutive members
	fragGaps int
}

// mergeBlocks sweeps the sorted fragment table and merges fragments on
// the same sequence into blocks wherever the gap between the open
// block's end and the next fragment's start is within maxGap. With
// stranded set a fragment only joins a block still on exactly its own
// strand; otherwise mixing is allowed and marked +/-. Fragments must
// arrive sorted by (seqName, start, end, strand) with nums assigned.
func mergeBlocks(frags []fragment, maxGap int, stranded bool) []block {
	var blocks []block
	var cur block
	open := false
	for _, f := range frags {
		merge := open && cur.seqName == f.seqName && f.start-cur.end <= maxGap
		if stranded {
			merge = merge && cur.strand == f.strand()
		}
		if !merge {
			if open {
				blocks = append(blocks, cur)
			}
			cur = newBlock(f)
			open = true
			continue
		}

		cur.fragGaps += f.start - cur.end - 1
		cur.end = f.end
		cur.bitScore += f.bitScore
		cur.length += f.length
		cur.identity += f.identity
		if f.expect < cur.expect {
			cur.expect = f.expect
		}
		cur.mtFrag += "|" + strconv.Itoa(f.num)
		cur.fragNum++
		cur.fragLen += f.span()
		if cur.strand != f.strand() {
			cur.strand = mixedStrand
		}
	}
	if open {
		blocks = append(blocks, cur)
	}

	if len(frags) > 0 {
		stderr.Printf("merged %d NUMT fragments within %d bp into %d blocks", len(frags), maxGap, len(blocks))
	}

	return blocks
}

// newBlock opens a block around a single fragment.
func newBlock(f fragment) block {
	return block{
		seqName:  f.seqName,
		start:    f.start,
		end:      f.end,
		strand:   f.strand(),
		bitScore: f.bitScore,
		length:   f.length,
		identity: f.identity,
		expect:   f.expect,
		mtFrag:   strconv.Itoa(f.num),
		fragNum:  1,
		fragLen:  f.span(),
	}
}
