package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline squeezes values into width cells. When there are more values
// than cells, each cell shows the mean of its bucket. A flat series draws
// the middle level.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	points := bucket(values, width)
	lo, hi := points[0], points[0]
	for _, v := range points {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	for _, v := range points {
		idx := len(sparkLevels) / 2
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(sparkLevels)-1)))
		}
		b.WriteRune(sparkLevels[idx])
	}
	return b.String()
}

func bucket(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := max(start+1, (i+1)*len(values)/width)
		sum := 0.0
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// SparkRow renders a labelled sparkline with the latest value, min and max
func SparkRow(t *theme.Theme, label, unit string, values []float64, width int) string {
	labelStyle := t.Label
	if len(values) == 0 {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), t.TextMuted.Render("Không có dữ liệu"))
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	last := values[len(values)-1]
	stats := fmt.Sprintf(" %.1f%s (%.1f–%.1f)", last, unit, lo, hi)

	lineWidth := max(4, width-labelStyle.GetWidth()-lipgloss.Width(stats))
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(label),
		t.StatusInfo.Render(Sparkline(values, lineWidth)),
		t.TextDim.Render(stats))
}
