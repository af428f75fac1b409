package components

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestToasterExpiresByID(t *testing.T) {
	toaster := NewToaster(theme.Default())
	toaster.SetWidth(80)

	first := toaster.Success("Cập nhật thành công")
	toaster.Danger("Không thể tải dữ liệu")
	require.NotNil(t, first)
	require.Len(t, toaster.Toasts(), 2)

	view := toaster.View()
	assert.Contains(t, view, "Cập nhật thành công")
	assert.Contains(t, view, "Không thể tải dữ liệu")

	ids := toaster.Toasts()
	toaster.Update(ToastExpiredMsg{ID: ids[0].ID})
	require.Len(t, toaster.Toasts(), 1)
	assert.Equal(t, ToastDanger, toaster.Toasts()[0].Level)

	toaster.Update(ToastExpiredMsg{ID: "unknown"})
	assert.True(t, toaster.HasToasts())
	toaster.Update(ToastExpiredMsg{ID: ids[1].ID})
	assert.False(t, toaster.HasToasts())
	assert.Empty(t, toaster.View())
}

func TestSpinnerCountsRequests(t *testing.T) {
	s := NewSpinner(theme.Default())
	assert.False(t, s.IsActive())

	assert.NotNil(t, s.Start("Đang tải"))
	assert.Nil(t, s.Start("Đang tải"), "only the first request drives the tick")
	assert.Equal(t, 2, s.InFlight())
	assert.Contains(t, s.View(), "(2)")

	s.Done()
	assert.True(t, s.IsActive())
	s.Done()
	s.Done()
	assert.False(t, s.IsActive())
	assert.Empty(t, s.View())
}

func TestStatusBarBreadcrumb(t *testing.T) {
	s := NewStatusBar(theme.Default())
	s.SetSize(100)
	s.SetBackend("http://localhost:8080")
	s.SetPage("Đơn hàng")
	assert.Equal(t, "http://localhost:8080 > Đơn hàng", s.Breadcrumb())

	s.SetPanels(2)
	assert.Equal(t, "http://localhost:8080 > Đơn hàng > 2 chi tiết", s.Breadcrumb())

	s.SetRefreshStatus(true, 30)
	assert.Contains(t, s.View(), "30s")
}

func TestPanelHints(t *testing.T) {
	assert.NotContains(t, strings.Join(PanelHints(false), " "), "[c]")
	assert.Contains(t, strings.Join(PanelHints(true), " "), "[c]")
	assert.Contains(t, TableHints("[n] tạo"), "[n] tạo")
}

func TestCmdPaletteFiltersAndSelects(t *testing.T) {
	p := NewCmdPalette(theme.Default())
	p.SetCommands(DefaultCommands(nil))
	p.Open()
	require.True(t, p.IsActive())
	assert.Len(t, p.Filtered(), len(DefaultCommands(nil)))

	for _, r := range "paym" {
		p.Update(runes(string(r)))
	}
	require.NotEmpty(t, p.Filtered())
	assert.Equal(t, "payments", p.Filtered()[0].Name)

	selected, _ := p.Update(key(tea.KeyEnter))
	require.NotNil(t, selected)
	assert.Equal(t, "payments", selected.Name)
	assert.False(t, p.IsActive())
}

func TestCmdPaletteBindsActions(t *testing.T) {
	called := false
	cmds := DefaultCommands(map[string]func() tea.Cmd{
		"refresh": func() tea.Cmd { called = true; return nil },
	})
	for _, c := range cmds {
		if c.Name == "refresh" {
			require.NotNil(t, c.Action)
			c.Action()
		}
	}
	assert.True(t, called)
}

func TestSidebarNavigation(t *testing.T) {
	s := NewSidebar(theme.Default())
	s.SetItems([]NavItem{
		{ID: "orders", Title: "Đơn hàng"},
		{ID: "products", Title: "Sản phẩm"},
		{ID: "users", Title: "Người dùng"},
	})
	s.SetHeight(20)
	s.SetFocused(true)
	s.SetActive("products")

	s.Update(key(tea.KeyDown))
	cmd := s.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, NavSelectedMsg{ID: "users"}, cmd())

	assert.Equal(t, SidebarWidth, s.Width())
	s.Toggle()
	assert.True(t, s.IsCollapsed())
	assert.Equal(t, SidebarCollapsedWidth, s.Width())
	assert.NotEmpty(t, s.View())
}

func TestSidebarFilter(t *testing.T) {
	s := NewSidebar(theme.Default())
	s.SetItems([]NavItem{
		{ID: "orders", Title: "Đơn hàng"},
		{ID: "sensors", Title: "Cảm biến"},
	})
	s.SetFocused(true)

	s.Update(runes("/"))
	require.True(t, s.IsFiltering())
	for _, r := range "sens" {
		s.Update(runes(string(r)))
	}
	cmd := s.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, NavSelectedMsg{ID: "sensors"}, cmd())
}

func newOrderSearch() SearchInput {
	return NewSearchInput(theme.Default(),
		NewRadioGroup("status", "Trạng thái",
			Option{Label: "Chờ xử lý", Value: "PENDING"},
			Option{Label: "Đang giao", Value: "SHIPPING"},
		),
		NewTextField("searchTerm", "Tìm kiếm", "mã đơn, khách hàng"),
		NewSelectField("paymentMethod", "Phương thức",
			Option{Label: "COD", Value: "COD"},
			Option{Label: "VNPAY", Value: "VNPAY"},
			Option{Label: "MOMO", Value: "MOMO"},
		),
	)
}

func TestSearchInputCollectsNonEmptyValues(t *testing.T) {
	s := newOrderSearch()
	assert.Empty(t, s.Values())

	require.True(t, s.SetValue("status", "SHIPPING"))
	require.True(t, s.SetValue("searchTerm", "  "))
	assert.False(t, s.SetValue("nope", "x"))
	assert.Equal(t, map[string]string{"status": "SHIPPING"}, s.Values())

	s.SetValues(map[string]string{"searchTerm": "Nguyễn", "paymentMethod": "MOMO"})
	assert.Equal(t, map[string]string{"searchTerm": "Nguyễn", "paymentMethod": "MOMO"}, s.Values())

	s.Reset()
	assert.Empty(t, s.Values())
}

func TestSearchInputTypedFields(t *testing.T) {
	s := newOrderSearch()
	kinds := map[string]FieldKind{}
	for _, f := range s.Fields() {
		kinds[f.ID()] = f.Kind()
	}
	assert.Equal(t, map[string]FieldKind{
		"status":        KindRadio,
		"searchTerm":    KindText,
		"paymentMethod": KindSelect,
	}, kinds)

	f, ok := s.Field("status")
	require.True(t, ok)
	f.SetValue("UNKNOWN")
	assert.Empty(t, f.Value(), "unknown values fall back to all")
}

func TestSearchInputKeyboard(t *testing.T) {
	s := newOrderSearch()
	s.Focus(false)
	require.True(t, s.Focused())

	ev, _ := s.Update(key(tea.KeyRight))
	assert.Equal(t, SearchNone, ev)
	assert.Equal(t, "PENDING", s.Values()["status"])

	s.Update(key(tea.KeyTab))
	assert.Equal(t, "searchTerm", s.FocusedField().ID())
	for _, r := range "lê" {
		s.Update(runes(string(r)))
	}
	assert.Equal(t, "lê", s.Values()["searchTerm"])

	s.Update(key(tea.KeyTab))
	s.Update(runes("M"))
	s.Update(runes("O"))
	assert.Equal(t, "MOMO", s.Values()["paymentMethod"])

	ev, _ = s.Update(key(tea.KeyEnter))
	assert.Equal(t, SearchSubmit, ev)

	ev, _ = s.Update(key(tea.KeyTab))
	assert.Equal(t, SearchLeave, ev)
	assert.False(t, s.Focused())

	s.Focus(true)
	assert.Equal(t, "paymentMethod", s.FocusedField().ID())
	ev, _ = s.Update(key(tea.KeyCtrlU))
	assert.Equal(t, SearchCleared, ev)
	assert.Empty(t, s.Values())
}

func sampleTable() DataTable {
	d := NewDataTable(theme.Default(), []Column{
		{Key: "code", Title: "Mã", Width: 10},
		{Key: "name", Title: "Tên", Flex: 1},
	}, "[e] [del]")
	d.SetSize(80, 14)
	return d
}

func TestDataTablePaging(t *testing.T) {
	d := sampleTable()
	d.SetPage([]Row{
		{ID: 7, Cells: map[string]any{"code": "SP7", "name": "Giày chạy"}},
		{ID: 8, Cells: map[string]any{"code": "SP8", "name": "Giày da"}},
	}, 2, 3, 25)

	assert.Equal(t, 2, d.Page())
	assert.Equal(t, 3, d.TotalPages())
	assert.Equal(t, 25, d.TotalElements())

	id, ok := d.SelectedID()
	require.True(t, ok)
	assert.Equal(t, 7, id)

	d.SetFocused(true)
	d.Update(key(tea.KeyDown))
	id, _ = d.SelectedID()
	assert.Equal(t, 8, id)

	next, ok := d.NextPage()
	assert.True(t, ok)
	assert.Equal(t, 3, next)
	prev, ok := d.PrevPage()
	assert.True(t, ok)
	assert.Equal(t, 1, prev)
	last, ok := d.LastPage()
	assert.True(t, ok)
	assert.Equal(t, 3, last)

	view := d.View()
	assert.Contains(t, view, "Thao tác")
	assert.Contains(t, view, "[2]")
	assert.Contains(t, view, "2/3")
}

func TestDataTableKeepsCursorOnResizeAndRefresh(t *testing.T) {
	d := sampleTable()
	rows := []Row{
		{ID: 1, Cells: map[string]any{"code": "SP1"}},
		{ID: 2, Cells: map[string]any{"code": "SP2"}},
	}
	d.SetPage(rows, 1, 2, 4)
	d.SetFocused(true)
	d.Update(key(tea.KeyDown))

	d.SetSize(90, 20)
	id, _ := d.SelectedID()
	assert.Equal(t, 2, id)

	d.SetPage(rows, 1, 2, 4)
	id, _ = d.SelectedID()
	assert.Equal(t, 2, id, "reloading the same page keeps the row")

	d.SetPage([]Row{{ID: 3}, {ID: 4}}, 2, 2, 4)
	id, _ = d.SelectedID()
	assert.Equal(t, 3, id, "a new page starts at the top")
}

func TestDataTableBoundaries(t *testing.T) {
	d := sampleTable()
	d.SetPage(nil, 1, 0, 0)

	assert.Equal(t, 1, d.TotalPages())
	_, ok := d.NextPage()
	assert.False(t, ok)
	_, ok = d.PrevPage()
	assert.False(t, ok)
	_, ok = d.FirstPage()
	assert.False(t, ok)
	_, ok = d.SelectedID()
	assert.False(t, ok)
	assert.Contains(t, d.View(), "Không có dữ liệu")

	d.SetError(errors.New("boom"))
	assert.Contains(t, d.View(), "Không thể tải dữ liệu")
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{99, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageWindow(tt.current, tt.total, 5), "current=%d total=%d", tt.current, tt.total)
	}
	assert.Nil(t, PageWindow(1, 0, 5))
}

type doneMsg struct{}

func TestConfirmModal(t *testing.T) {
	c := NewConfirmModal(theme.Default())
	c.SetSize(100, 30)

	ran := false
	c.Open("", "", func() tea.Cmd {
		ran = true
		return func() tea.Msg { return doneMsg{} }
	})
	assert.Equal(t, DefaultConfirmMessage, c.Message())
	assert.Contains(t, c.View(), "Xác nhận")
	assert.Contains(t, c.View(), "Hủy")

	cmd := c.Update(runes("y"))
	require.NotNil(t, cmd)
	assert.True(t, ran)
	assert.Equal(t, doneMsg{}, cmd())
	assert.False(t, c.IsActive())
}

func TestConfirmModalDismiss(t *testing.T) {
	c := NewConfirmModal(theme.Default())
	ran := false
	c.Open("Hủy đơn", "Hủy đơn #1?", func() tea.Cmd { ran = true; return nil })

	c.Update(key(tea.KeyRight))
	assert.Nil(t, c.Update(key(tea.KeyEnter)))
	assert.False(t, ran)
	assert.False(t, c.IsActive())

	c.Open("", "x", func() tea.Cmd { ran = true; return nil })
	c.Update(key(tea.KeyEsc))
	assert.False(t, ran)
	assert.False(t, c.IsActive())
}

func TestFormModalEscCancels(t *testing.T) {
	m := NewFormModal(theme.Default())
	m.SetSize(100, 40)

	var name string
	form := huh.NewForm(huh.NewGroup(huh.NewInput().Title("Tên").Value(&name)))
	submitted := false
	m.Open("Tạo sản phẩm", form, func() tea.Cmd { submitted = true; return nil })
	require.True(t, m.IsActive())
	assert.Contains(t, m.View(), "Tạo sản phẩm")

	m.Update(key(tea.KeyEsc))
	assert.False(t, m.IsActive())
	assert.False(t, submitted)
	assert.Empty(t, m.View())
}

func TestSparkline(t *testing.T) {
	assert.Empty(t, Sparkline(nil, 10))
	assert.Equal(t, "▁▃▆█", Sparkline([]float64{1, 2, 3, 4}, 10))
	assert.Equal(t, "▅▅▅", Sparkline([]float64{5, 5, 5}, 10))

	long := make([]float64, 30)
	for i := range long {
		long[i] = float64(i)
	}
	line := Sparkline(long, 10)
	assert.Equal(t, 10, len([]rune(line)))
	assert.True(t, strings.HasPrefix(line, "▁"))
	assert.True(t, strings.HasSuffix(line, "█"))
}

func TestDetailsRows(t *testing.T) {
	d := NewDetails(theme.Default(), 60)
	out := d.Section("Khách hàng").Row("Họ tên", "Lê Thị B").Row("Email", "").String()
	assert.Contains(t, out, "Khách hàng")
	assert.Contains(t, out, "Lê Thị B")
	assert.Contains(t, out, "-")
}
