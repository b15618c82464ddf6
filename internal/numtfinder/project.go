package numtfinder

// projector folds coordinates expressed on the doubled mtDNA back onto
// the true circular coordinate space. All modular arithmetic between the
// two spaces lives here.
type projector struct {
	// length is the true (non-doubled) mtDNA length
	length int

	// circular is false for linear references, making projection identity
	circular bool
}

func newProjector(length int, circular bool) projector {
	return projector{length: length, circular: circular}
}

// position maps a doubled-space coordinate in (1, 2L] onto (1, L].
func (p projector) position(c int) int {
	if !p.circular || c <= p.length {
		return c
	}
	return (c-1)%p.length + 1
}

// span projects both ends of a doubled-space interval and reports whether
// the projected interval wraps across the circular origin (end < start).
func (p projector) span(start, end int) (int, int, bool) {
	ps, pe := p.position(start), p.position(end)
	return ps, pe, pe < ps
}
