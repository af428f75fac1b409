package tui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/chart"
	"github.com/Cloudsky01/storeadmin/internal/format"
	"github.com/Cloudsky01/storeadmin/internal/tui/components"
	"github.com/Cloudsky01/storeadmin/internal/tui/detailpanel"
	"github.com/Cloudsky01/storeadmin/pkg/models"
)

type (
	ordersLoadedMsg struct {
		finished
		page models.Page[models.Order]
		err  error
	}
	orderStatsMsg struct {
		finished
		stats models.OrderStatistics
		err   error
	}
	orderLoadedMsg struct {
		finished
		order models.Order
		err   error
	}
	orderUpdatedMsg struct {
		finished
		order models.Order
		err   error
	}
	orderChartMsg struct {
		finished
		path string
		err  error
	}
)

// orderActions maps action keys to the status they move an order to
var orderActions = map[string]models.OrderStatus{
	"s": models.OrderShipping,
	"d": models.OrderDelivered,
	"C": models.OrderCancelled,
}

// ordersPage lists orders and stacks one detail panel per opened order
type ordersPage struct {
	pageBase
	rows     []models.Order
	stats    models.OrderStatistics
	hasStats bool

	// panel id -> order shown in it; items panels are tracked apart
	orders map[string]models.Order
	items  map[string]models.Order
}

func newOrdersPage(e *env) *ordersPage {
	t := e.theme
	statusOpts := make([]components.Option, 0, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		statusOpts = append(statusOpts, components.Option{Label: format.OrderStatus(s), Value: string(s)})
	}
	search := components.NewSearchInput(t,
		components.NewTextField("searchTerm", "Tìm", "mã đơn, tên, SĐT"),
		components.NewRadioGroup("status", "Trạng thái", statusOpts...),
	)
	table := components.NewDataTable(t, []components.Column{
		{Key: "orderId", Title: "Mã đơn", Width: 8},
		{Key: "customer", Title: "Khách hàng", Flex: 2},
		{Key: "phone", Title: "Điện thoại", Width: 12},
		{Key: "date", Title: "Ngày đặt", Width: 17},
		{Key: "amount", Title: "Thành tiền", Width: 14},
		{Key: "status", Title: "Trạng thái", Width: 13},
	}, "s d C")

	p := &ordersPage{
		orders: map[string]models.Order{},
		items:  map[string]models.Order{},
	}
	p.pageBase = newPageBase(e, "orders", "Đơn hàng", t.Icons.Orders, search, table, detailpanel.Handlers{
		OnClose: func(panel *detailpanel.Panel) {
			delete(p.orders, panel.ID())
			delete(p.items, panel.ID())
		},
	})
	p.reload = p.load
	return p
}

func (p *ordersPage) Init() tea.Cmd { return p.load() }

func (p *ordersPage) load() tea.Cmd {
	q := p.query()
	client := p.env.client
	p.table.SetLoading(true)
	return tea.Batch(
		p.request("Đang tải đơn hàng", func(ctx context.Context) tea.Msg {
			page, err := client.ListOrders(ctx, q)
			return ordersLoadedMsg{page: page, err: err}
		}),
		p.loadStats(),
	)
}

func (p *ordersPage) loadStats() tea.Cmd {
	client := p.env.client
	return p.request("Đang tải thống kê", func(ctx context.Context) tea.Msg {
		stats, err := client.OrderStatistics(ctx)
		return orderStatsMsg{stats: stats, err: err}
	})
}

func (p *ordersPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		p.table.SetLoading(false)
		if msg.err != nil {
			p.table.SetError(msg.err)
			return p.fail("list orders", msg.err)
		}
		p.table.SetError(nil)
		p.rows = msg.page.Content
		return showPage(&p.pageBase, msg.page, p.row)

	case orderStatsMsg:
		if msg.err != nil {
			p.log.Warn("order statistics failed")
			return nil
		}
		p.stats = msg.stats
		p.hasStats = true

	case orderLoadedMsg:
		if msg.err != nil {
			return p.fail("get order", msg.err)
		}
		panel, cmd := p.panels.Open(p.content(msg.order))
		p.orders[panel.ID()] = msg.order
		return cmd

	case orderUpdatedMsg:
		if msg.err != nil {
			return p.fail("update order status", msg.err)
		}
		p.refreshPanels(msg.order)
		return tea.Batch(success("Cập nhật trạng thái thành công"), p.load())

	case orderChartMsg:
		if msg.err != nil {
			return p.fail("export order chart", msg.err)
		}
		return success("Đã xuất biểu đồ: " + msg.path)
	}
	return nil
}

func (p *ordersPage) row(o models.Order) components.Row {
	t := p.env.theme
	return components.Row{
		ID: o.OrderID,
		Cells: map[string]any{
			"orderId":  idCell(o.OrderID),
			"customer": format.Text(o.ShippingFullname),
			"phone":    dimCell(t, o.ShippingPhone),
			"date":     format.DateTime(o.OrderDate.Time),
			"amount":   moneyCell(t, o.FinalAmount),
			"status":   statusCell(t, string(o.Status), format.OrderStatus(o.Status)),
		},
	}
}

func (p *ordersPage) HandleKey(msg tea.KeyMsg, focus Focus) (tea.Cmd, bool) {
	key := msg.String()
	switch key {
	case "enter":
		if focus != FocusTable {
			return nil, false
		}
		id, ok := p.table.SelectedID()
		if !ok {
			return nil, true
		}
		return p.open(id), true

	case "i":
		return p.openItems(), true

	case "h":
		return p.export(), true

	case "s", "d", "C":
		order, ok := p.target(focus)
		if !ok {
			return warning("Chưa chọn đơn hàng"), true
		}
		return p.transition(order, orderActions[key]), true
	}
	return nil, false
}

func (p *ordersPage) open(id int) tea.Cmd {
	client := p.env.client
	return p.request("Đang tải đơn hàng", func(ctx context.Context) tea.Msg {
		order, err := client.GetOrder(ctx, id)
		return orderLoadedMsg{order: order, err: err}
	})
}

// target is the order behind the focused panel when panels have focus,
// or the highlighted row otherwise. A focused panel that maps to no order
// resolves to nothing rather than to the row.
func (p *ordersPage) target(focus Focus) (models.Order, bool) {
	if focus == FocusPanels {
		panel := p.panels.Focused()
		if panel == nil {
			return models.Order{}, false
		}
		if o, ok := p.orders[panel.ID()]; ok {
			return o, true
		}
		o, ok := p.items[panel.ID()]
		return o, ok
	}
	id, ok := p.table.SelectedID()
	if !ok {
		return models.Order{}, false
	}
	i := slices.IndexFunc(p.rows, func(o models.Order) bool { return o.OrderID == id })
	if i < 0 {
		return models.Order{}, false
	}
	return p.rows[i], true
}

func (p *ordersPage) transition(order models.Order, next models.OrderStatus) tea.Cmd {
	if !order.Status.CanTransition(next) {
		return warning("Trạng thái không hợp lệ")
	}
	client := p.env.client
	id := order.OrderID
	message := fmt.Sprintf("Chuyển đơn %s sang \"%s\"?", idCell(id), format.OrderStatus(next))
	return confirm("Cập nhật trạng thái", message, func() tea.Cmd {
		return p.request("Đang cập nhật đơn hàng", func(ctx context.Context) tea.Msg {
			updated, err := client.UpdateOrderStatus(ctx, id, next)
			return orderUpdatedMsg{order: updated, err: err}
		})
	})
}

// openItems opens the line items of the most recently opened order
func (p *ordersPage) openItems() tea.Cmd {
	panels := p.panels.Panels()
	for i := len(panels) - 1; i >= 0; i-- {
		order, ok := p.orders[panels[i].ID()]
		if !ok {
			continue
		}
		panel, cmd := p.panels.Open(detailpanel.Content{
			Header: "Sản phẩm · " + idCell(order.OrderID),
			Body:   p.itemsBody(order),
		})
		p.items[panel.ID()] = order
		return cmd
	}
	return warning("Chưa mở đơn hàng nào")
}

// refreshPanels redraws every panel showing order
func (p *ordersPage) refreshPanels(order models.Order) {
	for _, panel := range p.panels.Panels() {
		if o, ok := p.orders[panel.ID()]; ok && o.OrderID == order.OrderID {
			if len(order.Items) == 0 {
				order.Items = o.Items
			}
			p.orders[panel.ID()] = order
			p.panels.Replace(panel, p.content(order))
		}
		if o, ok := p.items[panel.ID()]; ok && o.OrderID == order.OrderID {
			if len(order.Items) == 0 {
				order.Items = o.Items
			}
			p.items[panel.ID()] = order
			p.panels.Replace(panel, detailpanel.Content{
				Header: panel.Header(),
				Body:   p.itemsBody(order),
			})
		}
	}
}

func (p *ordersPage) content(o models.Order) detailpanel.Content {
	return detailpanel.Content{
		Header: "Đơn hàng " + idCell(o.OrderID),
		Body:   p.orderBody(o),
	}
}

func (p *ordersPage) orderBody(o models.Order) string {
	t := p.env.theme
	now := p.env.now()

	address := strings.Join(slices.DeleteFunc([]string{o.ShippingAddress, o.ShippingCity, o.ShippingCountry}, func(s string) bool {
		return strings.TrimSpace(s) == ""
	}), ", ")

	d := p.details(0).
		Section("Trạng thái").
		Line(p.timeline(o.Status)).
		Row("Ngày đặt", format.DateTime(o.OrderDate.Time)+" ("+format.Relative(o.OrderDate.Time, now)+")").
		Section("Khách hàng").
		Row("Họ tên", o.ShippingFullname).
		Row("Điện thoại", o.ShippingPhone).
		Row("Địa chỉ", address).
		Row("Ghi chú", o.Note).
		Section("Thanh toán").
		Row("Tổng tiền hàng", format.Currency(o.TotalAmount)).
		Row("Giảm giá", discount(o.DiscountAmount)).
		Row("Phí vận chuyển", format.Currency(o.ShippingFee)).
		Styled("Thành tiền", t.Money.Bold(true).Render(format.Currency(o.FinalAmount)))

	if o.VoucherID != nil {
		d.Row("Mã giảm giá", idCell(*o.VoucherID))
	}

	hints := []string{fmt.Sprintf("[i] %d sản phẩm", len(o.Items))}
	for _, key := range []string{"s", "d", "C"} {
		next := orderActions[key]
		if o.Status.CanTransition(next) {
			hints = append(hints, fmt.Sprintf("[%s] %s", key, format.OrderStatus(next)))
		}
	}
	return d.Hint(strings.Join(hints, "  ")).String()
}

func discount(v float64) string {
	if v <= 0 {
		return format.Empty
	}
	return "-" + format.Currency(v)
}

// orderTimeline draws the pending, shipping, delivered chain, or the
// pending to cancelled branch
func (p *ordersPage) timeline(status models.OrderStatus) string {
	t := p.env.theme
	steps := []models.OrderStatus{models.OrderPending, models.OrderShipping, models.OrderDelivered}
	if status == models.OrderCancelled {
		steps = []models.OrderStatus{models.OrderPending, models.OrderCancelled}
	}
	reached := slices.Index(steps, status)

	parts := make([]string, len(steps))
	for i, s := range steps {
		switch {
		case i < reached:
			parts[i] = t.StatusSuccess.Render(t.Icons.Success + " " + format.OrderStatus(s))
		case i == reached:
			parts[i] = t.Badge(string(s), format.OrderStatus(s))
		default:
			parts[i] = t.TextMuted.Render(t.Icons.Unselected + " " + format.OrderStatus(s))
		}
	}
	return strings.Join(parts, t.TextMuted.Render(" ─ "))
}

func (p *ordersPage) itemsBody(o models.Order) string {
	t := p.env.theme
	if len(o.Items) == 0 {
		return t.TextMuted.Render("Đơn hàng không có sản phẩm")
	}
	d := p.details(0)
	var total float64
	for _, item := range o.Items {
		d.Line(t.Text.Bold(true).Render(format.Text(item.ProductNameSnapshot))).
			Row("Số lượng", fmt.Sprintf("%d × %s", item.Quantity, format.Currency(item.UnitPrice))).
			Styled("Thành tiền", t.Money.Render(format.Currency(item.TotalPrice))).
			Line("")
		total += item.TotalPrice
	}
	return d.Divider().
		Styled("Tổng cộng", t.Money.Bold(true).Render(format.Currency(total))).
		String()
}

// export writes the status breakdown as an HTML pie chart
func (p *ordersPage) export() tea.Cmd {
	if !p.hasStats {
		return warning("Chưa có thống kê đơn hàng")
	}
	stats := p.stats
	path := filepath.Join(p.env.chartDir, "orders.html")
	return p.request("Đang xuất biểu đồ", func(context.Context) tea.Msg {
		err := chart.WriteFile(path, func(w io.Writer) error {
			return chart.RenderOrders(w, stats)
		})
		return orderChartMsg{path: path, err: err}
	})
}

func (p *ordersPage) Header(width int) string {
	if !p.hasStats {
		return ""
	}
	t := p.env.theme
	s := p.stats
	parts := []string{
		t.Text.Bold(true).Render(fmt.Sprintf("Tổng %s", format.Number(s.TotalOrders))),
		t.Badge(string(models.OrderPending), fmt.Sprintf("%s %s", format.OrderStatus(models.OrderPending), format.Number(s.PendingCount))),
		t.Badge(string(models.OrderShipping), fmt.Sprintf("%s %s", format.OrderStatus(models.OrderShipping), format.Number(s.ShippingCount))),
		t.Badge(string(models.OrderDelivered), fmt.Sprintf("%s %s", format.OrderStatus(models.OrderDelivered), format.Number(s.DeliveredCount))),
		t.Badge(string(models.OrderCancelled), fmt.Sprintf("%s %s", format.OrderStatus(models.OrderCancelled), format.Number(s.CancelledCount))),
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, t.TextMuted.Render(" · ")))
}

func (p *ordersPage) Hints() []string {
	return []string{"[i] sản phẩm", "[s] giao", "[d] đã giao", "[C] hủy", "[h] biểu đồ"}
}
