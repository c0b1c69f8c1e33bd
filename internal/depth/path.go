package depth

import (
	"strings"
)

// Point is a pixel-space coordinate.
type Point struct {
	X float64
	Y float64
}

// PathOp is a path drawing command.
type PathOp byte

const (
	MoveTo PathOp = 'M'
	LineTo PathOp = 'L'
	// QuadTo draws a quadratic curve through control point C to P.
	QuadTo    PathOp = 'Q'
	ClosePath PathOp = 'Z'
)

// PathCommand is a single absolute path command.
type PathCommand struct {
	Op PathOp
	C  Point
	P  Point
}

// Path is a sequence of absolute drawing commands.
type Path []PathCommand

func (p Path) moveTo(x, y float64) Path {
	return append(p, PathCommand{Op: MoveTo, P: Point{x, y}})
}

func (p Path) lineTo(x, y float64) Path {
	return append(p, PathCommand{Op: LineTo, P: Point{x, y}})
}

func (p Path) quadTo(cx, cy, x, y float64) Path {
	return append(p, PathCommand{Op: QuadTo, C: Point{cx, cy}, P: Point{x, y}})
}

func (p Path) close() Path {
	return append(p, PathCommand{Op: ClosePath})
}

// String renders the path as SVG path data.
func (p Path) String() string {
	var sb strings.Builder
	for i, c := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(byte(c.Op))
		switch c.Op {
		case MoveTo, LineTo:
			sb.WriteString(formatCoord(c.P.X))
			sb.WriteByte(',')
			sb.WriteString(formatCoord(c.P.Y))
		case QuadTo:
			sb.WriteString(formatCoord(c.C.X))
			sb.WriteByte(',')
			sb.WriteString(formatCoord(c.C.Y))
			sb.WriteByte(' ')
			sb.WriteString(formatCoord(c.P.X))
			sb.WriteByte(',')
			sb.WriteString(formatCoord(c.P.Y))
		}
	}
	return sb.String()
}

// Transformed returns the path translated by (tx, ty) after scaling the
// horizontal axis by sx.
func (p Path) Transformed(tx, ty, sx float64) Path {
	out := make(Path, len(p))
	for i, c := range p {
		out[i] = PathCommand{
			Op: c.Op,
			C:  Point{X: c.C.X*sx + tx, Y: c.C.Y + ty},
			P:  Point{X: c.P.X*sx + tx, Y: c.P.Y + ty},
		}
	}
	return out
}

// Polylines flattens the path into connected point runs, approximating
// each curve with the given number of segments.
func (p Path) Polylines(curveSegments int) [][]Point {
	if curveSegments < 1 {
		curveSegments = 1
	}

	var (
		lines [][]Point
		cur   []Point
		start Point
		pen   Point
	)
	flush := func() {
		if len(cur) > 1 {
			lines = append(lines, cur)
		}
		cur = nil
	}

	for _, c := range p {
		switch c.Op {
		case MoveTo:
			flush()
			start, pen = c.P, c.P
			cur = []Point{pen}
		case LineTo:
			if cur == nil {
				cur = []Point{pen}
			}
			pen = c.P
			cur = append(cur, pen)
		case QuadTo:
			if cur == nil {
				cur = []Point{pen}
			}
			for i := 1; i <= curveSegments; i++ {
				t := float64(i) / float64(curveSegments)
				u := 1 - t
				cur = append(cur, Point{
					X: u*u*pen.X + 2*u*t*c.C.X + t*t*c.P.X,
					Y: u*u*pen.Y + 2*u*t*c.C.Y + t*t*c.P.Y,
				})
			}
			pen = c.P
		case ClosePath:
			if cur != nil {
				cur = append(cur, start)
			}
			pen = start
			flush()
		}
	}
	flush()
	return lines
}
