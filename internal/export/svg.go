package export

import (
	"fmt"
	"strings"
)

// Curve is one line of a light-curve plot.
type Curve struct {
	Name   string
	Values []float64
	Stroke string
}

// LightCurveSVG plots each curve against xs on shared axes. Marker
// indices into the first curve are drawn as small circles.
func LightCurveSVG(xs []float64, curves []Curve, markers []int, width, height int) string {
	if len(xs) < 2 || len(curves) == 0 {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	for _, x := range xs {
		minX = min(minX, x)
		maxX = max(maxX, x)
	}
	minY, maxY := curves[0].Values[0], curves[0].Values[0]
	for _, c := range curves {
		for _, v := range c.Values {
			minY = min(minY, v)
			maxY = max(maxY, v)
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	px := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	py := func(y float64) float64 { return float64(height) - (y-minY)/rangeY*float64(height) }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for ci, c := range curves {
		n := min(len(c.Values), len(xs))
		if n < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, c.Stroke))
		for i := 0; i < n; i++ {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(xs[i]), py(c.Values[i])))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(xs[i]), py(c.Values[i])))
			}
		}
		sb.WriteString("\"/>\n")
		if c.Name != "" {
			sb.WriteString(fmt.Sprintf(`<text x="6" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16+14*ci, c.Stroke, c.Name))
		}
	}

	first := curves[0].Values
	for _, k := range markers {
		if k < 0 || k >= len(first) || k >= len(xs) {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ff3030"/>
`, px(xs[k]), py(first[k])))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
