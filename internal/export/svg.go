package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gbsim/internal/analysis"
)

// ProfileToSVG draws energy against separation as a single path, with a
// dashed line at zero energy when it lies inside the plotted range.
// Non-finite samples are skipped.
func ProfileToSVG(prof *analysis.Profile, width, height int, strokeColor string) string {
	points := prof.Finite()
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].Distance, points[0].Distance
	minY, maxY := points[0].Energy, points[0].Energy
	for _, p := range points {
		if p.Distance < minX {
			minX = p.Distance
		}
		if p.Distance > maxX {
			maxX = p.Distance
		}
		if p.Energy < minY {
			minY = p.Energy
		}
		if p.Energy > maxY {
			maxY = p.Energy
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	toX := func(d float64) float64 { return (d - minX) / rangeX * float64(width) }
	toY := func(u float64) float64 { return float64(height) - (u-minY)/rangeY*float64(height) }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if minY < 0 && maxY > 0 {
		y := toY(0)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-dasharray="4 4"/>
`, y, width, y))
	}

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, p := range points {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", toX(p.Distance), toY(p.Energy)))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", toX(p.Distance), toY(p.Energy)))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
