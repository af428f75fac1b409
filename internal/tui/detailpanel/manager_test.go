package detailpanel

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

func newTestManager(opts ...Option) *Manager {
	seq := 0
	base := []Option{
		WithTransition(time.Millisecond),
		WithIDFunc(func() string {
			seq++
			return fmt.Sprintf("p%d", seq)
		}),
	}
	return New(append(base, opts...)...)
}

func headers(m *Manager) []string {
	var out []string
	for _, p := range m.Panels() {
		out = append(out, p.Header())
	}
	return out
}

func TestOpenSinglePanel(t *testing.T) {
	m := newTestManager()

	p, cmd := m.Open(Content{Header: "A"})
	require.NotNil(t, p)
	require.NotNil(t, cmd)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []string{"A"}, headers(m))

	l := m.Layout()
	assert.Equal(t, ModeSingle, l.Mode)
	assert.Equal(t, DisplayGrid, l.Display)
	assert.Equal(t, []float64{60, 40}, l.Columns)
	assert.Equal(t, "60% 40%", l.Template)
	assert.False(t, m.MasterCollapsed())
	assert.False(t, m.HasControl(CollapseControl))
}

func TestOpenTwoPanelsCollapsesMaster(t *testing.T) {
	m := newTestManager()
	a, _ := m.Open(Content{Header: "A"})
	b, _ := m.Open(Content{Header: "B"})

	assert.Equal(t, []string{"A", "B"}, headers(m))

	l := m.Layout()
	assert.Equal(t, ModeDouble, l.Mode)
	assert.Equal(t, DisplayFlex, l.Display)
	assert.Empty(t, l.Columns)
	assert.Empty(t, l.Template)
	assert.True(t, m.MasterCollapsed())
	assert.True(t, m.HasControl(CollapseControl))
	assert.True(t, a.Compact())
	assert.True(t, b.Compact())
}

func TestOpenThreePanelsUsesMultiGrid(t *testing.T) {
	m := newTestManager()
	for _, h := range []string{"A", "B", "C"} {
		m.Open(Content{Header: h})
	}

	assert.Equal(t, []string{"A", "B", "C"}, headers(m))

	l := m.Layout()
	assert.Equal(t, ModeMulti, l.Mode)
	assert.Equal(t, DisplayGrid, l.Display)
	assert.Len(t, l.Columns, 4)
	assert.Equal(t, []float64{10, 30, 30, 30}, l.Columns)
	assert.Equal(t, "10% 30.00% 30.00% 30.00%", l.Template)
	assert.False(t, m.MasterCollapsed())
	assert.False(t, m.HasControl(CollapseControl))
	for _, p := range m.Panels() {
		assert.False(t, p.Compact(), "panel %s keeps the compact variant outside two-panel mode", p.Header())
	}
}

func TestCloseTopmostFromThree(t *testing.T) {
	m := newTestManager()
	for _, h := range []string{"A", "B", "C"} {
		m.Open(Content{Header: h})
	}

	m.Close(nil)

	assert.Equal(t, []string{"A", "B"}, headers(m))
	assert.Equal(t, ModeDouble, m.Layout().Mode)
	assert.True(t, m.MasterCollapsed())
	assert.True(t, m.HasControl(CollapseControl))
}

func TestSetContentReplacesTopmost(t *testing.T) {
	var layouts int
	m := newTestManager(WithHandlers(Handlers{
		OnLayout: func(Layout) { layouts++ },
	}))

	a, _ := m.Open(Content{Header: "A", Body: "first"})
	before := m.Layout()
	calls := layouts

	p, cmd := m.SetContent(Content{Header: "A2", Body: "second"})

	assert.Same(t, a, p)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "A2", p.Header())
	assert.Equal(t, "second", p.Body())
	assert.Equal(t, before, m.Layout())
	assert.Equal(t, calls, layouts, "setContent must not recompute the layout")
}

func TestSetContentOnEmptyStackOpens(t *testing.T) {
	m := newTestManager()

	p, cmd := m.SetContent(Content{Header: "A"})

	require.NotNil(t, p)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, Resolve(1), m.Layout())
}

func TestSetContentKeepsCountOnLargerStack(t *testing.T) {
	m := newTestManager()
	m.Open(Content{Header: "A"})
	m.Open(Content{Header: "B"})
	m.Open(Content{Header: "C"})

	m.SetContent(Content{Header: "C2"})

	assert.Equal(t, []string{"A", "B", "C2"}, headers(m))
}

func TestReplaceKeepsPosition(t *testing.T) {
	m := newTestManager()
	a, _ := m.Open(Content{Header: "A"})
	m.Open(Content{Header: "B"})
	before := m.Layout()

	assert.True(t, m.Replace(a, Content{Header: "A2"}))
	assert.Equal(t, []string{"A2", "B"}, headers(m))
	assert.Equal(t, before, m.Layout())

	m.Close(a)
	assert.False(t, m.Replace(a, Content{Header: "A3"}))
	assert.False(t, m.Replace(nil, Content{}))
}

func TestDefaultHeader(t *testing.T) {
	m := newTestManager()
	p, _ := m.Open(Content{Body: "x"})
	assert.Equal(t, DefaultHeader, p.Header())
}

func TestCloseNoOps(t *testing.T) {
	m := newTestManager()

	m.Close(nil)
	m.CloseLast()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, Resolve(0), m.Layout())

	other := newTestManager()
	stranger, _ := other.Open(Content{Header: "elsewhere"})

	m.Open(Content{Header: "A"})
	m.Close(stranger)
	assert.Equal(t, []string{"A"}, headers(m))

	m.CloseLast()
	m.Close(nil)
	assert.Equal(t, 0, m.Len())
}

func TestCloseSpecificPanelPreservesOrder(t *testing.T) {
	m := newTestManager()
	m.Open(Content{Header: "A"})
	b, _ := m.Open(Content{Header: "B"})
	m.Open(Content{Header: "C"})

	m.Close(b)

	assert.Equal(t, []string{"A", "C"}, headers(m))
	assert.False(t, m.HasControl(CloseControl(b)))
}

func TestCollapseControlDrainsPanels(t *testing.T) {
	var closed []string
	m := newTestManager(WithHandlers(Handlers{
		OnClose: func(p *Panel) { closed = append(closed, p.Header()) },
	}))
	m.Open(Content{Header: "A"})
	m.Open(Content{Header: "B"})

	require.True(t, m.Press(CollapseControl))

	assert.Equal(t, 0, m.Len())
	assert.False(t, m.MasterCollapsed())
	assert.False(t, m.HasControl(CollapseControl))
	assert.Equal(t, ModeEmpty, m.Layout().Mode)
	assert.Equal(t, []string{"A", "B"}, closed)

	assert.False(t, m.Press(CollapseControl), "control must not survive outside two-panel mode")
}

func TestCollapseControlOnlyInTwoPanelMode(t *testing.T) {
	m := newTestManager()
	check := func() {
		want := m.Len() == 2
		assert.Equal(t, want, m.HasControl(CollapseControl), "n=%d", m.Len())
		n := 0
		for _, id := range m.Controls() {
			if id == CollapseControl {
				n++
			}
		}
		if want {
			assert.Equal(t, 1, n)
		} else {
			assert.Equal(t, 0, n)
		}
	}

	check()
	for i := 0; i < 5; i++ {
		m.Open(Content{Header: fmt.Sprintf("P%d", i)})
		check()
	}
	for i := 0; i < 6; i++ {
		m.CloseLast()
		check()
	}
	assert.Equal(t, 0, m.Len())
}

func TestStackLengthTracksNetOperations(t *testing.T) {
	m := newTestManager()
	ops := "ooccooocccccooco"
	want := 0
	for _, op := range ops {
		switch op {
		case 'o':
			m.Open(Content{Header: "x"})
			want++
		case 'c':
			m.Close(nil)
			if want > 0 {
				want--
			}
		}
		require.Equal(t, want, m.Len())
		require.GreaterOrEqual(t, m.Len(), 0)
	}
}

func TestLayoutDependsOnlyOnCount(t *testing.T) {
	first := newTestManager()
	first.Open(Content{Header: "A"})
	first.Open(Content{Header: "B"})
	first.Open(Content{Header: "C"})
	first.CloseLast()

	second := newTestManager()
	second.Open(Content{Header: "X"})
	second.Open(Content{Header: "Y"})

	assert.Equal(t, second.Layout(), first.Layout())

	third := newTestManager()
	third.SetContent(Content{Header: "Z"})
	third.Open(Content{Header: "W"})
	third.SetContent(Content{Header: "W2"})
	assert.Equal(t, second.Layout(), third.Layout())
}

func TestEnterTransition(t *testing.T) {
	m := newTestManager()
	p, cmd := m.Open(Content{Header: "A"})
	assert.False(t, p.IsOpen())

	msg := cmd()
	opened, ok := msg.(OpenedMsg)
	require.True(t, ok)
	assert.Equal(t, p.ID(), opened.ID)

	assert.True(t, m.Update(msg))
	assert.True(t, p.IsOpen())

	m.SetContent(Content{Header: "A2"})
	assert.True(t, p.IsOpen(), "replacing content keeps the panel open")
}

func TestEnterTransitionAfterClose(t *testing.T) {
	m := newTestManager()
	p, cmd := m.Open(Content{Header: "A"})
	m.Close(p)

	assert.False(t, m.Update(cmd()))
	assert.False(t, m.Update("unrelated"))
}

func TestCloseControlRebindsOnSetContent(t *testing.T) {
	m := newTestManager()
	a, _ := m.Open(Content{Header: "A"})

	m.SetContent(Content{Header: "A2"})
	m.SetContent(Content{Header: "A3"})

	assert.Equal(t, []ControlID{CloseControl(a)}, m.Controls())
	require.True(t, m.Press(CloseControl(a)))
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Press(CloseControl(a)))
}

func TestFocusCycling(t *testing.T) {
	m := newTestManager()
	assert.Nil(t, m.Focused())
	assert.False(t, m.CloseFocused())

	a, _ := m.Open(Content{Header: "A"})
	b, _ := m.Open(Content{Header: "B"})
	c, _ := m.Open(Content{Header: "C"})

	assert.Same(t, c, m.Focused())
	m.FocusNext()
	assert.Same(t, a, m.Focused())
	m.FocusNext()
	assert.Same(t, b, m.Focused())
	m.FocusPrev()
	assert.Same(t, a, m.Focused())

	require.True(t, m.CloseFocused())
	assert.Equal(t, []string{"B", "C"}, headers(m))
	assert.Same(t, c, m.Focused())
}

func TestViewRendersEveryMode(t *testing.T) {
	st := DefaultStyles(theme.Default())
	m := newTestManager()

	out := m.View("MASTER", 100, 10, true, st)
	assert.Contains(t, out, "MASTER")

	p, cmd := m.Open(Content{Header: "Order #1", Body: "line"})
	m.Update(cmd())
	out = m.View("MASTER", 100, 10, true, st)
	assert.Contains(t, out, "MASTER")
	assert.Contains(t, out, "Order #1")
	assert.Contains(t, out, "[x]")

	m.Open(Content{Header: "Order #2"})
	out = m.View("MASTER", 100, 10, true, st)
	assert.NotContains(t, out, "MASTER")
	assert.Contains(t, out, collapseGlyph)
	assert.Contains(t, out, "Order #2")

	m.Open(Content{Header: "Order #3"})
	out = m.View("M", 100, 10, true, st)
	assert.NotContains(t, out, collapseGlyph)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 100)
	}
	assert.Equal(t, "Order #1", p.Header())
}

func TestViewFitsNarrowWidths(t *testing.T) {
	st := DefaultStyles(theme.Default())
	m := newTestManager()
	for i := range 6 {
		m.Open(Content{Header: fmt.Sprintf("Order #%d", i+1), Body: "line"})
	}

	for _, width := range []int{5, 9, 14, 20} {
		out := m.View("M", width, 8, true, st)
		for _, line := range strings.Split(out, "\n") {
			assert.LessOrEqual(t, lipgloss.Width(line), width, "width %d", width)
		}
	}
}

func TestRenderPanelSkipsPanelsWithoutRoom(t *testing.T) {
	st := DefaultStyles(theme.Default())
	m := newTestManager()
	p, _ := m.Open(Content{Header: "Order #1"})

	assert.Empty(t, renderPanel(p, st.Border.GetHorizontalFrameSize(), 6, false, st))
	for _, line := range strings.Split(renderPanel(p, 4, 6, false, st), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 4)
	}
}

func TestTruncateHonoursDisplayWidth(t *testing.T) {
	assert.Equal(t, "", truncate("漢字", 1))
	assert.Equal(t, "a", truncate("abc", 1))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "漢…", truncate("漢字漢字", 3))
	assert.Equal(t, "ok", truncate("ok", 5))
}
