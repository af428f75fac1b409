package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

const (
	// ColActions is the key of the trailing action hints column
	ColActions = "actions"
	colRowID   = "_id"

	// pageWindow is how many numbered page links the footer shows
	pageWindow = 5
)

// Column describes one table column. Flex columns share the width left
// over by the fixed ones.
type Column struct {
	Key   string
	Title string
	Width int
	Flex  int
}

// Row is one record of the current server page
type Row struct {
	ID    int
	Cells map[string]any
}

// DataTable renders one server page of records with a pagination footer.
// Paging is server side: the table only reports which page to fetch next.
type DataTable struct {
	table   table.Model
	pager   paginator.Model
	columns []Column
	rows    []Row
	actions string
	total   int
	width   int
	height  int
	focused bool
	loading bool
	err     error
	theme   *theme.Theme
}

func NewDataTable(t *theme.Theme, columns []Column, actions string) DataTable {
	p := paginator.New()
	p.Type = paginator.Arabic
	p.ArabicFormat = "%d/%d"
	p.SetTotalPages(1)

	d := DataTable{
		pager:   p,
		columns: columns,
		actions: actions,
		theme:   t,
		height:  10,
	}
	d.rebuild()
	return d
}

// SetPage replaces the rows with one server page. page is 1-based.
func (d *DataTable) SetPage(rows []Row, page, totalPages, totalElements int) {
	if page-1 != d.pager.Page {
		d.table = d.table.WithHighlightedRow(0)
	}
	d.rows = rows
	d.total = totalElements
	d.err = nil
	d.loading = false
	d.pager.TotalPages = max(1, totalPages)
	d.pager.Page = min(max(0, page-1), d.pager.TotalPages-1)
	d.rebuild()
}

func (d *DataTable) SetSize(width, height int) {
	if width == d.width && height == d.height {
		return
	}
	d.width = width
	d.height = height
	d.rebuild()
}

func (d *DataTable) SetFocused(focused bool) {
	d.focused = focused
	d.table = d.table.Focused(focused)
}

func (d *DataTable) IsFocused() bool {
	return d.focused
}

func (d *DataTable) SetLoading(loading bool) {
	d.loading = loading
}

// SetError switches the table to its error state
func (d *DataTable) SetError(err error) {
	d.err = err
	d.loading = false
}

func (d *DataTable) Err() error {
	return d.err
}

func (d *DataTable) Rows() []Row {
	return d.rows
}

// Page returns the current 1-based page
func (d *DataTable) Page() int {
	return d.pager.Page + 1
}

func (d *DataTable) TotalPages() int {
	return d.pager.TotalPages
}

func (d *DataTable) TotalElements() int {
	return d.total
}

// SelectedID returns the id of the highlighted record
func (d *DataTable) SelectedID() (int, bool) {
	if len(d.rows) == 0 {
		return 0, false
	}
	row := d.table.HighlightedRow()
	id, ok := row.Data[colRowID].(int)
	return id, ok
}

// NextPage returns the page to fetch after the current one
func (d *DataTable) NextPage() (int, bool) {
	if d.pager.OnLastPage() {
		return 0, false
	}
	return d.Page() + 1, true
}

func (d *DataTable) PrevPage() (int, bool) {
	if d.pager.OnFirstPage() {
		return 0, false
	}
	return d.Page() - 1, true
}

func (d *DataTable) FirstPage() (int, bool) {
	if d.pager.OnFirstPage() {
		return 0, false
	}
	return 1, true
}

func (d *DataTable) LastPage() (int, bool) {
	if d.pager.OnLastPage() {
		return 0, false
	}
	return d.pager.TotalPages, true
}

// visibleRows is the body height left once borders, header and the
// footer are taken
func (d *DataTable) visibleRows() int {
	return max(1, d.height-6)
}

// rebuild recreates the bubble-table model, keeping the highlighted row
// when it still exists
func (d *DataTable) rebuild() {
	cursor := d.table.GetHighlightedRowIndex()
	columns := make([]table.Column, 0, len(d.columns)+1)
	for _, c := range d.columns {
		if c.Flex > 0 {
			columns = append(columns, table.NewFlexColumn(c.Key, c.Title, c.Flex))
			continue
		}
		columns = append(columns, table.NewColumn(c.Key, c.Title, c.Width))
	}
	if d.actions != "" {
		columns = append(columns, table.NewColumn(ColActions, "Thao tác", max(10, lipgloss.Width(d.actions)+2)))
	}

	rows := make([]table.Row, len(d.rows))
	for i, r := range d.rows {
		data := table.RowData{colRowID: r.ID}
		for k, v := range r.Cells {
			data[k] = v
		}
		if d.actions != "" {
			data[ColActions] = table.NewStyledCell(d.actions, d.theme.TextMuted)
		}
		rows[i] = table.NewRow(data)
	}

	highlight := lipgloss.NewStyle().
		Background(d.theme.Colors.BgHighlight).
		Foreground(d.theme.Colors.Primary).
		Bold(true)

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(d.theme.Colors.Primary)

	t := table.New(columns).
		WithRows(rows).
		WithPageSize(d.visibleRows()).
		WithFooterVisibility(false).
		Focused(d.focused).
		BorderRounded().
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(d.theme.Colors.Text).
			BorderForeground(d.theme.Colors.Border)).
		HighlightStyle(highlight).
		HeaderStyle(header)
	if len(rows) > 0 {
		t = t.WithHighlightedRow(min(max(0, cursor), len(rows)-1))
	}
	if d.width > 0 {
		t = t.WithTargetWidth(d.width)
	}
	d.table = t
}

// Update moves the highlighted row. Paging keys are left to the caller.
func (d *DataTable) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "up", "down", "j", "k":
		var cmd tea.Cmd
		d.table, cmd = d.table.Update(msg)
		return cmd
	}
	return nil
}

// PageWindow returns the page numbers shown around current, at most size
// of them
func PageWindow(current, total, size int) []int {
	if total <= 0 || size <= 0 {
		return nil
	}
	current = min(max(1, current), total)
	start := max(1, current-size/2)
	end := min(total, start+size-1)
	start = max(1, end-size+1)

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Footer renders the pagination links: first, prev, numbered window,
// next and last
func (d *DataTable) Footer() string {
	muted := d.theme.TextMuted
	link := d.theme.Text

	arrow := func(label string, enabled bool) string {
		if enabled {
			return link.Render(label)
		}
		return muted.Render(label)
	}

	parts := []string{
		arrow("«", !d.pager.OnFirstPage()),
		arrow("‹", !d.pager.OnFirstPage()),
	}
	for _, p := range PageWindow(d.Page(), d.pager.TotalPages, pageWindow) {
		if p == d.Page() {
			parts = append(parts, d.theme.Selected.Render(fmt.Sprintf("[%d]", p)))
			continue
		}
		parts = append(parts, link.Render(fmt.Sprintf("%d", p)))
	}
	parts = append(parts,
		arrow("›", !d.pager.OnLastPage()),
		arrow("»", !d.pager.OnLastPage()))

	summary := muted.Render(fmt.Sprintf("  Trang %s · %d bản ghi", d.pager.View(), d.total))
	return strings.Join(parts, " ") + summary
}

func (d *DataTable) View() string {
	var body string
	switch {
	case d.err != nil:
		body = d.placeholder(d.theme.StatusError.Render(d.theme.Icons.Error + " Không thể tải dữ liệu"))
	case d.loading && len(d.rows) == 0:
		body = d.placeholder(d.theme.StatusInfo.Render(d.theme.Icons.Refresh + " Đang tải..."))
	case len(d.rows) == 0:
		body = d.placeholder(d.theme.TextMuted.Render("Không có dữ liệu"))
	default:
		body = d.table.View()
	}

	return lipgloss.NewStyle().
		Width(d.width).
		MaxWidth(d.width).
		Height(d.height).
		MaxHeight(d.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, body, d.Footer()))
}

func (d *DataTable) placeholder(text string) string {
	height := max(1, d.height-1)
	return lipgloss.Place(max(1, d.width), height, lipgloss.Center, lipgloss.Center, text)
}
