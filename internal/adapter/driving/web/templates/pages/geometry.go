// Package pages renders the comment panel popup.
package pages

import (
	"math"
	"strconv"
	"strings"

	vm "github.com/ericfisherdev/commentpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/commentpanel/internal/application"
)

// Title is the document title of the popup page.
const Title = "Comment Panel"

func viewBox(g application.ChartGeometry) string {
	return "0 0 " + num(g.Width) + " " + num(g.Height)
}

func reportedNote(s vm.StatsViewModel) string {
	return strconv.Itoa(s.Total) + " of " + strconv.Itoa(*s.ReportedTotal) + " comments analyzed"
}

// DonutPath returns an SVG path for the ring segment between angles a0 and a1
// (radians). A full turn is drawn as two half arcs since a single arc with
// identical endpoints renders nothing.
func DonutPath(c application.Point, r, ir, a0, a1 float64) string {
	if a1-a0 >= 2*math.Pi-1e-9 {
		mid := a0 + math.Pi
		return DonutPath(c, r, ir, a0, mid) + " " + DonutPath(c, r, ir, mid, a1)
	}

	large := "0"
	if a1-a0 > math.Pi {
		large = "1"
	}

	ox0, oy0 := polar(c, r, a0)
	ox1, oy1 := polar(c, r, a1)
	ix1, iy1 := polar(c, ir, a1)
	ix0, iy0 := polar(c, ir, a0)

	var b strings.Builder
	b.WriteString("M" + num(ox0) + "," + num(oy0))
	b.WriteString(" A" + num(r) + "," + num(r) + " 0 " + large + ",1 " + num(ox1) + "," + num(oy1))
	b.WriteString(" L" + num(ix1) + "," + num(iy1))
	b.WriteString(" A" + num(ir) + "," + num(ir) + " 0 " + large + ",0 " + num(ix0) + "," + num(iy0))
	b.WriteString(" Z")
	return b.String()
}

// PolylinePoints formats points for an SVG polyline.
func PolylinePoints(points []application.Point) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, num(p.X)+","+num(p.Y))
	}
	return strings.Join(parts, " ")
}

func polar(c application.Point, r, angle float64) (float64, float64) {
	return c.X + r*math.Cos(angle), c.Y + r*math.Sin(angle)
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}
