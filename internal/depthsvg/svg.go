// Package depthsvg writes a depth.Scene as a standalone SVG document.
package depthsvg

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/wandb/depthchart/internal/depth"
)

const (
	fontFamily    = "Inter, Arial, sans-serif"
	fontSize      = 12
	tickLength    = 4
	labelOffset   = 4
	indicatorSize = 6
)

// Write renders scene to w.
func Write(w io.Writer, scene depth.Scene) error {
	var svg bytes.Buffer

	fmt.Fprintf(&svg, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(scene.Width), num(scene.Height), num(scene.Width), num(scene.Height))

	if !scene.Empty {
		writeDefs(&svg, scene.Defs)
		writeArea(&svg, scene.Area)
		if scene.Marker.Visible {
			m := scene.Marker
			fmt.Fprintf(&svg, `  <line class="current" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-dasharray="4 2"/>`+"\n",
				num(m.X), num(m.Y1), num(m.X), num(m.Y2), attr(m.Stroke))
		}
		writeAxis(&svg, scene.Axis)
		writeBrush(&svg, scene.Brush)
	}

	svg.WriteString("</svg>\n")

	if _, err := w.Write(svg.Bytes()); err != nil {
		return fmt.Errorf("depthsvg: write: %w", err)
	}
	return nil
}

func writeDefs(svg *bytes.Buffer, defs depth.Defs) {
	svg.WriteString("  <defs>\n")

	fmt.Fprintf(svg, `    <linearGradient id="%s" x1="0" y1="0" x2="1" y2="0">`+"\n", attr(defs.SelectionGradientID))
	for _, stop := range defs.SelectionStops {
		fmt.Fprintf(svg, `      <stop offset="%s" stop-color="%s" stop-opacity="%s"/>`+"\n",
			num(stop.Offset), attr(stop.Color), num(stop.Opacity))
	}
	svg.WriteString("    </linearGradient>\n")

	writeClip(svg, defs.AreaClipID, defs.AreaClip)
	writeClip(svg, defs.BrushClipID, defs.BrushClip)

	svg.WriteString("  </defs>\n")
}

func writeClip(svg *bytes.Buffer, id string, r depth.Rect) {
	fmt.Fprintf(svg, `    <clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`+"\n",
		attr(id), num(r.X), num(r.Y), num(r.Width), num(r.Height))
}

func writeArea(svg *bytes.Buffer, a depth.Area) {
	if len(a.Path) == 0 {
		return
	}
	fmt.Fprintf(svg, `  <path class="area" d="%s" fill="%s" fill-opacity="%s" stroke="%s" clip-path="url(#%s)"/>`+"\n",
		a.Path.String(), attr(a.Fill), num(a.Opacity), attr(a.Stroke), attr(a.ClipID))
}

func writeAxis(svg *bytes.Buffer, axis depth.Axis) {
	fmt.Fprintf(svg, `  <g class="axis" stroke="%s" fill="%s" font-family="%s" font-size="%d">`+"\n",
		attr(axis.Color), attr(axis.Color), fontFamily, fontSize)
	fmt.Fprintf(svg, `    <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
		num(axis.X1), num(axis.Y), num(axis.X2), num(axis.Y))
	for _, tick := range axis.Ticks {
		fmt.Fprintf(svg, `    <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
			num(tick.X), num(axis.Y), num(tick.X), num(axis.Y+tickLength))
		fmt.Fprintf(svg, `    <text x="%s" y="%s" stroke="none" text-anchor="middle" dominant-baseline="hanging">%s</text>`+"\n",
			num(tick.X), num(axis.Y+tickLength+2), html.EscapeString(tick.Label))
	}
	svg.WriteString("  </g>\n")
}

func writeBrush(svg *bytes.Buffer, b depth.Brush) {
	display := ""
	if !b.Visible() {
		display = ` display="none"`
	}
	fmt.Fprintf(svg, `  <g class="brush" clip-path="url(#%s)"%s>`+"\n", attr(b.ClipID), display)
	if b.Visible() {
		s := b.Selection
		fmt.Fprintf(svg, `    <rect class="selection" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(s.X), num(s.Y), num(s.Width), num(s.Height), attr(b.Fill))
		writeHandle(svg, b.West)
		writeHandle(svg, b.East)
	}
	svg.WriteString("  </g>\n")

	// Indicators sit outside the clip so they stay visible at the edges.
	for _, h := range []depth.Handle{b.West, b.East} {
		if b.Visible() && h.Indicator.Visible {
			writeIndicator(svg, h)
		}
	}
}

func writeHandle(svg *bytes.Buffer, h depth.Handle) {
	if !h.InView {
		return
	}
	fmt.Fprintf(svg, `    <g class="handle handle--%s" transform="%s">`+"\n", attr(h.Side), h.Transform())
	fmt.Fprintf(svg, `      <path d="%s" stroke="%s" stroke-width="1.5" fill="%s"/>`+"\n",
		h.Path.String(), attr(h.Stroke), attr(h.Fill))
	svg.WriteString("    </g>\n")

	if !h.ShowLabel || h.Label == "" {
		return
	}
	anchor, dx := "end", -float64(labelOffset)
	if h.ScaleX < 0 {
		anchor, dx = "start", float64(labelOffset)
	}
	fmt.Fprintf(svg, `    <text class="handle-label" x="%s" y="%s" fill="%s" font-family="%s" font-size="%d" text-anchor="%s" dominant-baseline="hanging">%s</text>`+"\n",
		num(h.X+dx), num(h.Y), attr(h.Stroke), fontFamily, fontSize, anchor, html.EscapeString(h.Label))
}

// writeIndicator draws an arrow at the chart edge pointing towards the
// off-screen handle.
func writeIndicator(svg *bytes.Buffer, h depth.Handle) {
	ind := h.Indicator
	dir := -1.0
	if h.X > ind.X {
		dir = 1
	}
	tip := ind.X
	base := ind.X - dir*indicatorSize
	fmt.Fprintf(svg, `  <polygon class="indicator indicator--%s" points="%s,%s %s,%s %s,%s" fill="%s"/>`+"\n",
		attr(h.Side),
		num(tip), num(ind.Y),
		num(base), num(ind.Y-indicatorSize/2),
		num(base), num(ind.Y+indicatorSize/2),
		attr(h.Stroke))
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = trimZeros(s)
	if s == "-0" {
		return "0"
	}
	return s
}

func trimZeros(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}

func attr(s string) string {
	return html.EscapeString(s)
}
