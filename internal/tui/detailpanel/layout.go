package detailpanel

import (
	"fmt"
	"math"
	"strings"
)

// Display is how the panel wrapper flows its children
type Display int

const (
	DisplayFlex Display = iota
	DisplayGrid
)

func (d Display) String() string {
	if d == DisplayGrid {
		return "grid"
	}
	return "flex"
}

// Mode is the geometry regime picked from the number of open panels
type Mode int

const (
	ModeEmpty Mode = iota
	ModeSingle
	ModeDouble
	ModeMulti
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeDouble:
		return "double"
	case ModeMulti:
		return "multi"
	default:
		return "empty"
	}
}

const (
	singleMasterShare = 60.0
	singlePanelShare  = 40.0
	multiMasterShare  = 10.0
	multiPanelsShare  = 90.0
)

// Layout is the resolved geometry for a given panel count.
// Columns are percentages of the available width, master first. They are
// empty in the flex modes.
type Layout struct {
	Mode            Mode
	Display         Display
	Panels          int
	Columns         []float64
	Template        string
	MasterCollapsed bool
	CollapseControl bool
	CompactPanels   bool
}

// Resolve maps a panel count to its layout. It is a pure function of n.
func Resolve(n int) Layout {
	switch {
	case n <= 0:
		return Layout{Mode: ModeEmpty, Display: DisplayFlex}

	case n == 1:
		return Layout{
			Mode:     ModeSingle,
			Display:  DisplayGrid,
			Panels:   1,
			Columns:  []float64{singleMasterShare, singlePanelShare},
			Template: "60% 40%",
		}

	case n == 2:
		return Layout{
			Mode:            ModeDouble,
			Display:         DisplayFlex,
			Panels:          2,
			MasterCollapsed: true,
			CollapseControl: true,
			CompactPanels:   true,
		}
	}

	share := math.Round(multiPanelsShare/float64(n)*100) / 100
	columns := make([]float64, n+1)
	template := make([]string, n+1)
	columns[0] = multiMasterShare
	template[0] = fmt.Sprintf("%.0f%%", multiMasterShare)
	for i := 1; i <= n; i++ {
		columns[i] = share
		template[i] = fmt.Sprintf("%.2f%%", share)
	}

	return Layout{
		Mode:     ModeMulti,
		Display:  DisplayGrid,
		Panels:   n,
		Columns:  columns,
		Template: strings.Join(template, " "),
	}
}

// Widths converts the layout into cell widths for a terminal of the given
// width. The first entry is the master column. In the collapsed two-panel
// mode the master shrinks to rail cells and the panels split the rest.
// Rounding leftovers go to the last column.
func (l Layout) Widths(total, rail int) []int {
	if total <= 0 {
		return make([]int, l.Panels+1)
	}

	if l.Display == DisplayFlex {
		if l.Panels == 0 {
			return []int{total}
		}
		master := 0
		if l.MasterCollapsed {
			master = min(rail, total)
		}
		widths := make([]int, l.Panels+1)
		widths[0] = master
		distribute(widths[1:], total-master)
		return widths
	}

	widths := make([]int, len(l.Columns))
	used := 0
	for i, pct := range l.Columns {
		widths[i] = int(float64(total) * pct / 100)
		used += widths[i]
	}
	widths[len(widths)-1] += total - used
	return widths
}

func distribute(widths []int, total int) {
	if len(widths) == 0 || total <= 0 {
		return
	}
	each := total / len(widths)
	for i := range widths {
		widths[i] = each
	}
	widths[len(widths)-1] += total - each*len(widths)
}
