package tui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Cloudsky01/storeadmin/internal/api"
	"github.com/Cloudsky01/storeadmin/internal/chart"
	"github.com/Cloudsky01/storeadmin/internal/state"
	"github.com/Cloudsky01/storeadmin/internal/tui/components"
	"github.com/Cloudsky01/storeadmin/internal/tui/detailpanel"
	"github.com/Cloudsky01/storeadmin/pkg/models"
)

const (
	sensorDateLayout = "2006-01-02"
	defaultSensorID  = "1"
	sensorWindowDays = 30
)

type (
	sensorHistoryMsg struct {
		finished
		readings []models.SensorReading
		err      error
	}
	chartExportedMsg struct {
		finished
		path string
		err  error
	}
)

// sensorsPage charts a window of daily readings. The backend returns the
// whole window at once, so the table pages on the client.
type sensorsPage struct {
	pageBase
	// readings in date order, oldest first
	readings []models.SensorReading
	loaded   bool
}

func newSensorsPage(e *env) *sensorsPage {
	t := e.theme
	search := components.NewSearchInput(t,
		components.NewTextField("sensorId", "Cảm biến", "1"),
		components.NewTextField("start", "Từ ngày", sensorDateLayout),
		components.NewTextField("end", "Đến ngày", sensorDateLayout),
	)
	table := components.NewDataTable(t, []components.Column{
		{Key: "date", Title: "Ngày", Width: 11},
		{Key: "soilTemperature", Title: "Nhiệt độ đất", Flex: 1},
		{Key: "soilMoisture", Title: "Độ ẩm đất", Flex: 1},
		{Key: "airTemperature", Title: "Nhiệt độ KK", Flex: 1},
		{Key: "airHumidity", Title: "Độ ẩm KK", Flex: 1},
		{Key: "soilPh", Title: "pH", Width: 6},
		{Key: "soilEc", Title: "EC", Width: 12},
	}, "")

	p := &sensorsPage{}
	p.pageBase = newPageBase(e, "sensors", "Cảm biến", t.Icons.Sensors, search, table, detailpanel.Handlers{})
	p.reload = p.load
	p.Restore(state.PageState{})
	return p
}

// defaults is the last sensorWindowDays days of the first sensor
func (p *sensorsPage) defaults() map[string]string {
	end := p.env.now()
	start := end.AddDate(0, 0, -(sensorWindowDays - 1))
	return map[string]string{
		"sensorId": defaultSensorID,
		"start":    start.Format(sensorDateLayout),
		"end":      end.Format(sensorDateLayout),
	}
}

func (p *sensorsPage) Restore(ps state.PageState) {
	filters := p.defaults()
	for k, v := range ps.Filters {
		if v != "" {
			filters[k] = v
		}
	}
	ps.Filters = filters
	p.pageBase.Restore(ps)
}

// validateSensorFilters returns a user facing reason when the
// filters cannot be sent
func validateSensorFilters(f map[string]string) string {
	if id, ok := f["sensorId"]; ok {
		if n, err := strconv.Atoi(id); err != nil || n <= 0 {
			return "Mã cảm biến không hợp lệ"
		}
	}
	var start, end time.Time
	for key, dst := range map[string]*time.Time{"start": &start, "end": &end} {
		v, ok := f[key]
		if !ok {
			continue
		}
		t, err := time.Parse(sensorDateLayout, v)
		if err != nil {
			return "Ngày không hợp lệ (YYYY-MM-DD)"
		}
		*dst = t
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return "Ngày bắt đầu phải trước ngày kết thúc"
	}
	return ""
}

func (p *sensorsPage) ApplyFilters() tea.Cmd {
	values := p.search.Values()
	if reason := validateSensorFilters(values); reason != "" {
		return warning(reason)
	}
	if len(values) == 0 {
		values = p.defaults()
		p.search.SetValues(values)
	}
	p.filters = values
	p.page = 1
	return p.load()
}

func (p *sensorsPage) Init() tea.Cmd { return p.load() }

func (p *sensorsPage) load() tea.Cmd {
	q := api.Query{Filters: p.filters}
	client := p.env.client
	p.table.SetLoading(true)
	return p.request("Đang tải dữ liệu cảm biến", func(ctx context.Context) tea.Msg {
		readings, err := client.SensorHistory(ctx, q)
		return sensorHistoryMsg{readings: readings, err: err}
	})
}

// GoTo pages through the loaded readings without a fetch
func (p *sensorsPage) GoTo(page int) tea.Cmd {
	p.page = max(1, page)
	p.showReadings()
	return nil
}

func (p *sensorsPage) SetPageSize(int) {
	p.page = 1
	p.showReadings()
}

func (p *sensorsPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sensorHistoryMsg:
		p.table.SetLoading(false)
		if msg.err != nil {
			p.table.SetError(msg.err)
			return p.fail("sensor history", msg.err)
		}
		p.table.SetError(nil)
		p.readings = slices.SortedFunc(slices.Values(msg.readings), func(a, b models.SensorReading) int {
			return strings.Compare(a.Date, b.Date)
		})
		p.loaded = true
		p.showReadings()

	case chartExportedMsg:
		if msg.err != nil {
			return p.fail("export chart", msg.err)
		}
		p.log.Info("chart exported", zap.String("path", msg.path))
		return success("Đã xuất biểu đồ: " + msg.path)
	}
	return nil
}

// newest returns readings newest first
func (p *sensorsPage) newest() []models.SensorReading {
	out := slices.Clone(p.readings)
	slices.Reverse(out)
	return out
}

func (p *sensorsPage) showReadings() {
	size := max(1, p.env.pageSize)
	total := len(p.readings)
	totalPages := models.TotalPages(int64(total), size)
	p.page = min(max(1, p.page), max(1, totalPages))

	all := p.newest()
	from := min((p.page-1)*size, total)
	to := min(from+size, total)

	rows := make([]components.Row, 0, to-from)
	for i, r := range all[from:to] {
		rows = append(rows, p.row(from+i, r))
	}
	p.table.SetPage(rows, p.page, totalPages, total)
}

// row ids index into newest()
func (p *sensorsPage) row(idx int, r models.SensorReading) components.Row {
	cells := map[string]any{"date": r.Date}
	for _, m := range chart.Metrics {
		cells[m.Key] = floatCell(m.Value(r), m.Unit)
	}
	return components.Row{ID: idx, Cells: cells}
}

func (p *sensorsPage) HandleKey(msg tea.KeyMsg, focus Focus) (tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		if focus != FocusTable {
			return nil, false
		}
		idx, ok := p.table.SelectedID()
		all := p.newest()
		if !ok || idx < 0 || idx >= len(all) {
			return nil, true
		}
		r := all[idx]
		_, cmd := p.panels.SetContent(detailpanel.Content{
			Header: "Ngày " + r.Date,
			Body:   p.body(r),
		})
		return cmd, true

	case "h":
		return p.export(), true
	}
	return nil, false
}

func (p *sensorsPage) body(r models.SensorReading) string {
	d := p.details(0)
	for _, group := range chart.Groups() {
		d.Section(group)
		for _, m := range chart.Metrics {
			if m.Group == group {
				d.Row(m.Label, floatCell(m.Value(r), m.Unit))
			}
		}
	}
	return d.String()
}

func (p *sensorsPage) export() tea.Cmd {
	if len(p.readings) == 0 {
		return warning("Không có dữ liệu để xuất")
	}
	sensorID := p.filters["sensorId"]
	readings := slices.Clone(p.readings)
	path := filepath.Join(p.env.chartDir, fmt.Sprintf("sensor-%s.html", strings.TrimSpace(sensorID)))
	return p.request("Đang xuất biểu đồ", func(context.Context) tea.Msg {
		err := chart.WriteFile(path, func(w io.Writer) error {
			return chart.RenderSensors(w, sensorID, readings)
		})
		return chartExportedMsg{path: path, err: err}
	})
}

// Header draws one sparkline column per metric group
func (p *sensorsPage) Header(width int) string {
	if !p.loaded {
		return ""
	}
	t := p.env.theme
	groups := chart.Groups()
	colWidth := max(20, width/len(groups))
	columns := make([]string, 0, len(groups))
	for _, group := range groups {
		lines := []string{t.Subtitle.Render(group)}
		for _, m := range chart.Metrics {
			if m.Group == group {
				lines = append(lines, components.SparkRow(t, m.Label, m.Unit, m.Series(p.readings), colWidth-1))
			}
		}
		columns = append(columns, lipgloss.NewStyle().
			Width(colWidth).
			MaxWidth(colWidth).
			Render(strings.Join(lines, "\n")))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
}

func (p *sensorsPage) Hints() []string {
	return []string{"[h] xuất HTML"}
}
