// Package numtfinder locates nuclear-mitochondrial DNA fragments (NUMTs)
// in a genome assembly. A doubled copy of the mitochondrial reference is
// aligned against the assembly with blastn, the local hits are reduced to
// a unique non-overlapping fragment set, mtDNA coordinates are folded back
// onto the circle, sequences that are themselves mtDNA copies are filtered
// out, and the remaining fragments are merged into NUMT blocks and
// projected into a per-position coverage profile.
package numtfinder

import (
	"log"
	"os"
)

// stderr is for logging to the stderr stream
var stderr = log.New(os.Stderr, "", 0)

// strand markers used in fragment and block tables
const (
	plusStrand  = "+"
	minusStrand = "-"
	mixedStrand = "+/-"
)
