package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/petrilab/petriscope/chart"
)

// ChartPanel draws one dual-series rolling chart.
type ChartPanel struct {
	renderer *Renderer
	title    string
	x, y     int32
	width    int32
	height   int32
}

// NewChartPanel creates a chart panel at the given position.
func NewChartPanel(title string, x, y, width, height int32) *ChartPanel {
	return &ChartPanel{
		renderer: NewRenderer(),
		title:    title,
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
}

// Draw renders the chart from the buffer's current window.
func (c *ChartPanel) Draw(buf *chart.Buffer) {
	r := c.renderer
	padding := r.Theme.Padding

	r.DrawPanel(c.x, c.y, c.width, c.height)
	rl.DrawText(c.title, c.x+padding, c.y+padding, r.Theme.HeaderFontSize, r.Theme.SectionHeader)

	labelA, labelB := buf.Labels()
	legendY := c.y + padding + 2
	legendX := c.x + c.width - padding - rl.MeasureText(labelB, r.Theme.FontSize)
	rl.DrawText(labelB, legendX, legendY, r.Theme.FontSize, r.Theme.PhagocyteColor)
	legendX -= rl.MeasureText(labelA, r.Theme.FontSize) + 12
	rl.DrawText(labelA, legendX, legendY, r.Theme.FontSize, r.Theme.BacteriaColor)

	plotX := c.x + padding
	plotY := c.y + padding + r.Theme.LineHeight + 6
	plotW := c.width - padding*2
	plotH := c.height - (plotY - c.y) - padding - r.Theme.LineHeight

	// Horizontal grid lines at quarter intervals.
	for i := int32(0); i <= 4; i++ {
		gy := plotY + plotH*i/4
		rl.DrawLine(plotX, gy, plotX+plotW, gy, r.Theme.GridColor)
	}

	a, b := buf.Series()
	if len(a) < 2 {
		rl.DrawText("waiting for data", plotX+plotW/2-50, plotY+plotH/2, r.Theme.FontSize, rl.Gray)
		return
	}

	min, max := buf.Bounds()
	if max == min {
		max = min + 1
	}

	c.drawSeries(a, min, max, plotX, plotY, plotW, plotH, r.Theme.BacteriaColor)
	c.drawSeries(b, min, max, plotX, plotY, plotW, plotH, r.Theme.PhagocyteColor)

	// Axis labels: value range on the left, generation range below.
	rl.DrawText(fmt.Sprintf("%.1f", max), plotX+2, plotY, 10, rl.Gray)
	rl.DrawText(fmt.Sprintf("%.1f", min), plotX+2, plotY+plotH-10, 10, rl.Gray)

	genLabel := fmt.Sprintf("gen %d - %d", a[0].Generation, a[len(a)-1].Generation)
	rl.DrawText(genLabel, plotX, plotY+plotH+4, 10, rl.Gray)
}

func (c *ChartPanel) drawSeries(points []chart.Point, min, max float64, plotX, plotY, plotW, plotH int32, color rl.Color) {
	n := len(points)
	span := max - min

	prev := c.plotPoint(points[0], 0, n, min, span, plotX, plotY, plotW, plotH)
	for i := 1; i < n; i++ {
		cur := c.plotPoint(points[i], i, n, min, span, plotX, plotY, plotW, plotH)
		rl.DrawLineEx(prev, cur, 1.5, color)
		prev = cur
	}
}

func (c *ChartPanel) plotPoint(p chart.Point, i, n int, min, span float64, plotX, plotY, plotW, plotH int32) rl.Vector2 {
	x := float32(plotX) + float32(i)/float32(n-1)*float32(plotW)
	norm := (p.Value - min) / span
	y := float32(plotY) + float32(plotH) - float32(norm)*float32(plotH)
	return rl.Vector2{X: x, Y: y}
}
