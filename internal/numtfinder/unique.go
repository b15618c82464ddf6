package numtfinder

import (
	"sort"

	"github.com/biogo/store/interval"
)

// hitInterval adapts an accepted hit's assembly interval to the interval
// tree. Coordinates are half-open in the tree.
type hitInterval struct {
	start, end int
	uid        uintptr
}

func (i hitInterval) Overlap(b interval.IntRange) bool {
	// half-open interval indexing
	return i.end > b.Start && i.start < b.End
}

func (i hitInterval) ID() uintptr { return i.uid }

func (i hitInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.start, End: i.end}
}

// uniquify reduces hits to a maximal subset with no pairwise overlap in
// assembly coordinates on the same sequence. Hits are visited in
// descending order of identical aligned bases, ties kept in input order;
// a hit is rejected when it overlaps an already accepted hit by one or
// more positions. Hits aligned over fewer than minLen bases are dropped
// before the sort. Zero hits in means zero hits out, not an error.
func uniquify(hits []hit, minLen int) ([]hit, error) {
	kept := make([]hit, 0, len(hits))
	for _, h := range hits {
		if h.length >= minLen {
			kept = append(kept, h)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].identity > kept[j].identity })

	trees := map[string]*interval.IntTree{}
	unique := make([]hit, 0, len(kept))
	for _, h := range kept {
		tree, ok := trees[h.seqName]
		if !ok {
			tree = &interval.IntTree{}
			trees[h.seqName] = tree
		}

		iv := hitInterval{start: h.start, end: h.end + 1, uid: uintptr(len(unique))}
		if len(tree.Get(iv)) > 0 {
			continue
		}
		if err := tree.Insert(iv, false); err != nil {
			return nil, err
		}
		unique = append(unique, h)
	}

	return unique, nil
}
