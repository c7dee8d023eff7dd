package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fogleman/gg"
)

// ChartKind selects the chart drawn by RenderChartPNG.
type ChartKind string

const (
	ChartBar ChartKind = "bar"
	ChartPie ChartKind = "pie"
)

const (
	chartWidth  = 500
	chartHeight = 300
	barColor    = "#3B82F6"
)

// pieColors cycle through slices in distribution order.
var pieColors = []string{
	"#3B82F6", "#22C55E", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#64748B",
}

// ParseChartKind accepts "bar" and "pie".
func ParseChartKind(s string) (ChartKind, error) {
	switch ChartKind(s) {
	case ChartBar, ChartPie:
		return ChartKind(s), nil
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

// RenderChartPNG draws the type distribution as a PNG, sorted like the PDF
// report. An empty distribution renders a "No data" placeholder.
func RenderChartPNG(w io.Writer, kind ChartKind, dist map[string]int) error {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()
	dc.SetHexColor("#111827")

	items := SortedDistribution(dist)
	switch {
	case len(items) == 0:
		dc.DrawStringAnchored("No data", chartWidth/2, chartHeight/2, 0.5, 0.5)
	case kind == ChartBar:
		drawBars(dc, items)
	case kind == ChartPie:
		drawPie(dc, items)
	default:
		return fmt.Errorf("unknown chart kind %q", kind)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func drawBars(dc *gg.Context, items []TypeCount) {
	const left, right, top, bottom = 50.0, 20.0, 20.0, 80.0
	plotW := chartWidth - left - right
	plotH := chartHeight - top - bottom

	maxCount := 0
	for _, it := range items {
		maxCount = max(maxCount, it.Count)
	}
	if maxCount == 0 {
		maxCount = 1
	}

	// axes
	dc.SetLineWidth(1)
	dc.DrawLine(left, top, left, top+plotH)
	dc.DrawLine(left, top+plotH, left+plotW, top+plotH)
	dc.Stroke()
	dc.DrawStringAnchored(strconv.Itoa(maxCount), left-6, top, 1, 0.5)
	dc.DrawStringAnchored("0", left-6, top+plotH, 1, 0.5)
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), 14, top+plotH/2)
	dc.DrawStringAnchored("Count", 14, top+plotH/2, 0.5, 0.5)
	dc.Pop()

	slot := plotW / float64(len(items))
	barW := slot * 0.7
	for i, it := range items {
		h := plotH * float64(it.Count) / float64(maxCount)
		x := left + slot*float64(i) + (slot-barW)/2
		dc.SetHexColor(barColor)
		dc.DrawRectangle(x, top+plotH-h, barW, h)
		dc.Fill()

		// labels slant down-left from the tick, ending under the bar
		cx := x + barW/2
		dc.SetHexColor("#111827")
		dc.Push()
		dc.RotateAbout(gg.Radians(-35), cx, top+plotH+6)
		dc.DrawStringAnchored(it.Label, cx, top+plotH+6, 1, 1)
		dc.Pop()
	}
}

func drawPie(dc *gg.Context, items []TypeCount) {
	total := 0
	for _, it := range items {
		total += it.Count
	}
	if total == 0 {
		dc.DrawStringAnchored("No data", chartWidth/2, chartHeight/2, 0.5, 0.5)
		return
	}
	cx, cy := float64(chartWidth)/2, float64(chartHeight)/2
	r := float64(chartHeight)/2 - 40

	angle := -math.Pi / 2
	for i, it := range items {
		frac := float64(it.Count) / float64(total)
		sweep := frac * 2 * math.Pi
		dc.SetHexColor(pieColors[i%len(pieColors)])
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, r, angle, angle+sweep)
		dc.ClosePath()
		dc.Fill()

		mid := angle + sweep/2
		dc.SetHexColor("#111827")
		dc.DrawStringAnchored(fmt.Sprintf("%.0f%%", frac*100),
			cx+math.Cos(mid)*r*0.6, cy+math.Sin(mid)*r*0.6, 0.5, 0.5)
		ax := 0.0
		if math.Cos(mid) < 0 {
			ax = 1
		}
		dc.DrawStringAnchored(it.Label, cx+math.Cos(mid)*(r+8), cy+math.Sin(mid)*(r+8), ax, 0.5)
		angle += sweep
	}
}
