package tui

import (
	"fmt"

	"github.com/evertras/bubble-table/table"

	"github.com/Cloudsky01/storeadmin/internal/format"
	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

// Cell helpers keep the data raw and let bubble-table apply the style,
// so sorting and width math see the plain text.

func statusCell(t *theme.Theme, status, label string) table.StyledCell {
	icon, style := t.StatusIcon(status)
	return table.NewStyledCell(icon+" "+label, style)
}

func moneyCell(t *theme.Theme, v float64) table.StyledCell {
	return table.NewStyledCell(format.Currency(v), t.Money)
}

func dimCell(t *theme.Theme, s string) table.StyledCell {
	return table.NewStyledCell(format.Text(s), t.TextDim)
}

func idCell(id int) string {
	return fmt.Sprintf("#%d", id)
}

func floatCell(v float64, unit string) string {
	if unit == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.1f %s", v, unit)
}
