package contour

import (
	"sort"

	"glyph-ocr/internal/glyph"
	"glyph-ocr/pkg/geometry"
)

// Options controls the restart and cleanup heuristics of the tracer.
type Options struct {
	// MinLength: a finished path is kept only if it has more points than this.
	MinLength int `json:"min_length"`
	// MaxRestarts: tracing stops at this many dead ends.
	MaxRestarts int `json:"max_restarts"`
	// DropShortest: number of shortest kept paths removed when tracing stops
	// on MaxRestarts.
	DropShortest int `json:"drop_shortest"`
}

// DefaultOptions returns the heuristics the classifier was trained with.
func DefaultOptions() Options {
	return Options{
		MinLength:    10,
		MaxRestarts:  4,
		DropShortest: 2,
	}
}

type state int

const (
	stateTracing state = iota
	stateDeadEnd
	stateDone
)

// Trace walks the ink pixels (value glyph.Ink) of a skeletonized mask with
// the default options.
func Trace(m *glyph.Mask) (Set, error) {
	return TraceWithOptions(m, DefaultOptions())
}

// TraceWithOptions walks the ink pixels of m greedily:
//
//   - start at the first ink pixel in row-major order;
//   - step to the ink neighbour (3x3, clipped) not yet on the current path
//     with the smallest row, ties going to the largest column;
//   - on a dead end keep the path if it is long enough, mark its pixels
//     visited and restart at the next unvisited ink pixel;
//   - after MaxRestarts dead ends stop and remove the DropShortest shortest
//     kept paths.
//
// Paths may run over pixels of earlier paths; only restarts skip them.
func TraceWithOptions(m *glyph.Mask, opts Options) (Set, error) {
	t := newTracer(m, opts)
	if len(t.ink) == 0 {
		return nil, &EmptyGlyphError{Rows: m.Rows, Cols: m.Cols}
	}

	t.begin(t.ink[0])
	t.cursor = 1

	st := stateTracing
	for st != stateDone {
		switch st {
		case stateTracing:
			if next, ok := t.step(); ok {
				t.push(next)
			} else {
				st = stateDeadEnd
			}
		case stateDeadEnd:
			st = t.deadEnd()
		}
	}
	return t.accepted, nil
}

type tracer struct {
	mask *glyph.Mask
	opts Options
	ink  []geometry.Pixel

	// cursor indexes ink; everything before it is visited.
	cursor int

	visited   []bool
	inCurrent []bool

	current  Contour
	accepted Set
	restarts int
}

func newTracer(m *glyph.Mask, opts Options) *tracer {
	return &tracer{
		mask:      m,
		opts:      opts,
		ink:       m.InkPixels(),
		visited:   make([]bool, m.Rows*m.Cols),
		inCurrent: make([]bool, m.Rows*m.Cols),
	}
}

func (t *tracer) index(p geometry.Pixel) int {
	return p.Row*t.mask.Cols + p.Col
}

func (t *tracer) begin(p geometry.Pixel) {
	t.current = Contour{}
	t.push(p)
}

func (t *tracer) push(p geometry.Pixel) {
	t.current = append(t.current, p)
	t.inCurrent[t.index(p)] = true
}

// step returns the next pixel of the current path. Rows are scanned top to
// bottom and columns right to left, so the first hit minimizes (row, -col).
func (t *tracer) step() (geometry.Pixel, bool) {
	cur := t.current[len(t.current)-1]
	minRow := max(0, cur.Row-1)
	maxRow := min(t.mask.Rows-1, cur.Row+1)
	minCol := max(0, cur.Col-1)
	maxCol := min(t.mask.Cols-1, cur.Col+1)

	for r := minRow; r <= maxRow; r++ {
		for c := maxCol; c >= minCol; c-- {
			if !t.mask.IsInk(r, c) || t.inCurrent[r*t.mask.Cols+c] {
				continue
			}
			return geometry.Pixel{Row: r, Col: c}, true
		}
	}
	return geometry.Pixel{}, false
}

func (t *tracer) deadEnd() state {
	t.restarts++
	if t.restarts >= t.opts.MaxRestarts {
		t.dropShortest()
		return stateDone
	}

	if len(t.current) > t.opts.MinLength {
		t.accepted = append(t.accepted, t.current)
	}
	for _, p := range t.current {
		i := t.index(p)
		t.visited[i] = true
		t.inCurrent[i] = false
	}

	start, ok := t.nextUnvisited()
	if !ok {
		return stateDone
	}
	t.begin(start)
	return stateTracing
}

func (t *tracer) nextUnvisited() (geometry.Pixel, bool) {
	for ; t.cursor < len(t.ink); t.cursor++ {
		p := t.ink[t.cursor]
		if !t.visited[t.index(p)] {
			return p, true
		}
	}
	return geometry.Pixel{}, false
}

// dropShortest removes the DropShortest shortest accepted paths. Among equal
// lengths the earliest accepted goes first.
func (t *tracer) dropShortest() {
	n := min(t.opts.DropShortest, len(t.accepted))
	if n <= 0 {
		return
	}

	order := make([]int, len(t.accepted))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(t.accepted[order[a]]) < len(t.accepted[order[b]])
	})

	drop := make(map[int]bool, n)
	for _, i := range order[:n] {
		drop[i] = true
	}

	kept := t.accepted[:0:0]
	for i, c := range t.accepted {
		if !drop[i] {
			kept = append(kept, c)
		}
	}
	t.accepted = kept
}
