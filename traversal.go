package hgi

// Span is a run of N samples on row Y at columns X0, X0+DX, ... that are
// stored contiguously in a pyramid level starting at index Offset.
type Span struct {
	Y, X0, DX, N int
	Offset       int
}

// Traversal fixes the order in which pixels are stored in each pyramid level.
//
// Level 0 holds the base grid (rows and columns at multiples of 2^levels).
// Level i+1 refines the grid from spacing step=2^(levels-i) to substep=step/2:
// first the rows y ≡ substep (mod step) with every substep column (diamond
// centres), then the rows y ≡ 0 (mod step) with the columns
// x ≡ substep (mod step) (edge midpoints). Together the levels cover every
// pixel exactly once.
type Traversal struct {
	Width, Height, Levels int
}

func NewTraversal(width, height, levels int) Traversal {
	return Traversal{Width: width, Height: height, Levels: levels}
}

// Spans returns the row runs of a pyramid level in storage order.
func (t Traversal) Spans(level int) []Span {
	if level < 0 || level > t.Levels || t.Width <= 0 || t.Height <= 0 {
		return nil
	}

	var spans []Span
	off := 0
	add := func(y, x0, dx int) {
		n := runLength(t.Width, x0, dx)
		if n == 0 {
			return
		}
		spans = append(spans, Span{Y: y, X0: x0, DX: dx, N: n, Offset: off})
		off += n
	}

	if level == 0 {
		step := 1 << t.Levels
		for y := 0; y < t.Height; y += step {
			add(y, 0, step)
		}
		return spans
	}

	step := 1 << (t.Levels - level + 1)
	sub := step >> 1
	for y := sub; y < t.Height; y += step {
		add(y, 0, sub)
	}
	for y := 0; y < t.Height; y += step {
		add(y, sub, step)
	}
	return spans
}

// Len is the exact number of samples stored in a pyramid level.
func (t Traversal) Len(level int) int {
	return int(t.size(level))
}

// size is Len computed in uint64, so it cannot overflow for any u32 dimensions.
func (t Traversal) size(level int) uint64 {
	if level < 0 || level > t.Levels || t.Width <= 0 || t.Height <= 0 {
		return 0
	}
	runs := func(n, start, step int) uint64 { return uint64(runLength(n, start, step)) }
	if level == 0 {
		step := 1 << t.Levels
		return runs(t.Height, 0, step) * runs(t.Width, 0, step)
	}

	step := 1 << (t.Levels - level + 1)
	sub := step >> 1
	centres := runs(t.Height, sub, step) * runs(t.Width, 0, sub)
	edges := runs(t.Height, 0, step) * runs(t.Width, sub, step)
	return centres + edges
}

// Visit calls fn for every coordinate of a pyramid level in storage order.
func (t Traversal) Visit(level int, fn func(x, y int)) {
	for _, s := range t.Spans(level) {
		x := s.X0
		for i := 0; i < s.N; i++ {
			fn(x, s.Y)
			x += s.DX
		}
	}
}

// runLength counts start, start+step, ... below n.
func runLength(n, start, step int) int {
	if start >= n {
		return 0
	}
	return (n - start + step - 1) / step
}

// splitSpans cuts spans into at most parts contiguous groups of similar sample count.
func splitSpans(spans []Span, parts int) [][]Span {
	if len(spans) == 0 {
		return nil
	}
	parts = max(min(parts, len(spans)), 1)

	last := spans[len(spans)-1]
	total := last.Offset + last.N
	per := (total + parts - 1) / parts

	groups := make([][]Span, 0, parts)
	start := 0
	for i, s := range spans {
		if s.Offset+s.N-spans[start].Offset >= per || i == len(spans)-1 {
			groups = append(groups, spans[start:i+1])
			start = i + 1
		}
	}
	return groups
}
