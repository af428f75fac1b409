package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/api"

	"github.com/Cloudsky01/storeadmin/internal/format"
	"github.com/Cloudsky01/storeadmin/internal/tui/components"
	"github.com/Cloudsky01/storeadmin/internal/tui/detailpanel"
	"github.com/Cloudsky01/storeadmin/pkg/models"
)

type (
	paymentsLoadedMsg struct {
		finished
		page models.Page[models.Payment]
		err  error
	}
	paymentStatsMsg struct {
		finished
		page models.Page[models.Payment]
		err  error
	}
	paymentLoadedMsg struct {
		finished
		payment models.Payment
		err     error
	}
	paymentDeletedMsg struct {
		finished
		id  int
		err error
	}
)

// paymentStats summarises the payment list. Revenue counts PAID only.
type paymentStats struct {
	Total   int
	Paid    int
	Pending int
	Failed  int
	Revenue float64
}

type paymentsPage struct {
	pageBase
	rows     []models.Payment
	stats    paymentStats
	hasStats bool
	shown    int
	current  models.Payment
}

func newPaymentsPage(e *env) *paymentsPage {
	t := e.theme
	methods := []models.PaymentMethod{models.PaymentCOD, models.PaymentVNPay, models.PaymentMoMo}
	methodOpts := make([]components.Option, len(methods))
	for i, m := range methods {
		methodOpts[i] = components.Option{Label: format.PaymentMethod(m), Value: string(m)}
	}
	statuses := []models.PaymentStatus{models.PaymentPaid, models.PaymentPending, models.PaymentFailed}
	statusOpts := make([]components.Option, len(statuses))
	for i, s := range statuses {
		statusOpts[i] = components.Option{Label: format.PaymentStatus(s), Value: string(s)}
	}

	search := components.NewSearchInput(t,
		components.NewTextField("paymentId", "Mã TT", "số thanh toán"),
		components.NewTextField("orderId", "Mã đơn", "số đơn hàng"),
		components.NewTextField("transactionRef", "Mã GD", "mã giao dịch"),
		components.NewRadioGroup("paymentMethod", "Phương thức", methodOpts...),
		components.NewSelectField("status", "Trạng thái", statusOpts...),
	)
	table := components.NewDataTable(t, []components.Column{
		{Key: "paymentId", Title: "Mã TT", Width: 7},
		{Key: "orderId", Title: "Đơn hàng", Width: 9},
		{Key: "method", Title: "Phương thức", Width: 12},
		{Key: "ref", Title: "Mã giao dịch", Flex: 2},
		{Key: "date", Title: "Ngày thanh toán", Width: 17},
		{Key: "amount", Title: "Số tiền", Width: 14},
		{Key: "status", Title: "Trạng thái", Width: 15},
	}, "del")

	p := &paymentsPage{}
	p.pageBase = newPageBase(e, "payments", "Thanh toán", t.Icons.Payments, search, table, detailpanel.Handlers{
		OnClose: func(*detailpanel.Panel) {
			p.shown = 0
			p.current = models.Payment{}
		},
	})
	p.reload = p.load
	return p
}

func (p *paymentsPage) Init() tea.Cmd { return p.load() }

func (p *paymentsPage) load() tea.Cmd {
	q := p.query()
	client := p.env.client
	p.table.SetLoading(true)
	return tea.Batch(
		p.request("Đang tải thanh toán", func(ctx context.Context) tea.Msg {
			page, err := client.ListPayments(ctx, q)
			return paymentsLoadedMsg{page: page, err: err}
		}),
		p.request("Đang tải thống kê", func(ctx context.Context) tea.Msg {
			page, err := client.ListPayments(ctx, api.Query{Page: 1, Size: statsSampleSize})
			return paymentStatsMsg{page: page, err: err}
		}),
	)
}

func (p *paymentsPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case paymentsLoadedMsg:
		p.table.SetLoading(false)
		if msg.err != nil {
			p.table.SetError(msg.err)
			return p.fail("list payments", msg.err)
		}
		p.table.SetError(nil)
		p.rows = msg.page.Content
		return showPage(&p.pageBase, msg.page, p.row)

	case paymentStatsMsg:
		if msg.err != nil {
			p.log.Warn("payment statistics failed")
			return nil
		}
		p.stats = summarisePayments(msg.page)
		p.hasStats = true

	case paymentLoadedMsg:
		if msg.err != nil {
			return p.fail("get payment", msg.err)
		}
		p.shown = msg.payment.PaymentID
		p.current = msg.payment
		_, cmd := p.panels.SetContent(detailpanel.Content{
			Header: "Thanh toán " + idCell(msg.payment.PaymentID),
			Body:   p.body(msg.payment),
		})
		return cmd

	case paymentDeletedMsg:
		if msg.err != nil {
			return p.fail("delete payment", msg.err)
		}
		if p.shown == msg.id {
			p.panels.CloseLast()
		}
		return tea.Batch(success("Xóa thành công"), p.load())
	}
	return nil
}

func (p *paymentsPage) row(pm models.Payment) components.Row {
	t := p.env.theme
	return components.Row{
		ID: pm.PaymentID,
		Cells: map[string]any{
			"paymentId": idCell(pm.PaymentID),
			"orderId":   idCell(pm.OrderID),
			"method":    format.PaymentMethod(pm.PaymentMethod),
			"ref":       dimCell(t, pm.TransactionRef),
			"date":      format.DateTime(pm.PaymentDate.Time),
			"amount":    moneyCell(t, pm.Amount),
			"status":    statusCell(t, string(pm.Status), format.PaymentStatus(pm.Status)),
		},
	}
}

func (p *paymentsPage) body(pm models.Payment) string {
	t := p.env.theme
	return p.details(0).
		Section("Giao dịch").
		Row("Đơn hàng", idCell(pm.OrderID)).
		Row("Người trả", idCell(pm.PayerID)).
		Row("Phương thức", format.PaymentMethod(pm.PaymentMethod)).
		Styled("Số tiền", t.Money.Bold(true).Render(format.Currency(pm.Amount))).
		Styled("Trạng thái", t.Badge(string(pm.Status), format.PaymentStatus(pm.Status))).
		Row("Ngày thanh toán", format.DateTime(pm.PaymentDate.Time)).
		Section("Cổng thanh toán").
		Row("Mã tham chiếu", pm.TransactionRef).
		Row("Mã cổng", pm.GatewayTransactionID).
		Row("Ngân hàng", pm.BankCode).
		Row("Nội dung", pm.TransactionDesc).
		Row("Ngày tạo", format.DateTime(pm.CreatedAt.Time)).
		Hint("[del] xóa").
		String()
}

func (p *paymentsPage) HandleKey(msg tea.KeyMsg, focus Focus) (tea.Cmd, bool) {
	client := p.env.client
	switch msg.String() {
	case "enter":
		if focus != FocusTable {
			return nil, false
		}
		id, ok := p.table.SelectedID()
		if !ok {
			return nil, true
		}
		return p.request("Đang tải thanh toán", func(ctx context.Context) tea.Msg {
			pm, err := client.GetPayment(ctx, id)
			return paymentLoadedMsg{payment: pm, err: err}
		}), true

	case "delete", "backspace":
		pm, ok := p.target(focus)
		if !ok {
			return warning("Chưa chọn thanh toán"), true
		}
		id := pm.PaymentID
		message := fmt.Sprintf("Xóa thanh toán %s của đơn %s? %s", idCell(id), idCell(pm.OrderID), components.DefaultConfirmMessage)
		return confirm("Xóa thanh toán", message, func() tea.Cmd {
			return p.request("Đang xóa thanh toán", func(ctx context.Context) tea.Msg {
				return paymentDeletedMsg{id: id, err: client.DeletePayment(ctx, id)}
			})
		}), true
	}
	return nil, false
}

// target is the payment in the panel when it has focus, else the row
func (p *paymentsPage) target(focus Focus) (models.Payment, bool) {
	if focus == FocusPanels {
		return p.current, p.shown != 0
	}
	id, ok := p.table.SelectedID()
	if !ok {
		return models.Payment{}, false
	}
	for _, pm := range p.rows {
		if pm.PaymentID == id {
			return pm, true
		}
	}
	return models.Payment{}, false
}

// summarisePayments counts statuses over the sampled page; Total is the
// backend's count
func summarisePayments(page models.Page[models.Payment]) paymentStats {
	s := paymentStats{Total: max(int(page.TotalElements), len(page.Content))}
	for _, pm := range page.Content {
		switch pm.Status {
		case models.PaymentPaid:
			s.Paid++
			s.Revenue += pm.Amount
		case models.PaymentPending:
			s.Pending++
		case models.PaymentFailed:
			s.Failed++
		}
	}
	return s
}

func (p *paymentsPage) Header(width int) string {
	if !p.hasStats {
		return ""
	}
	t := p.env.theme
	s := p.stats
	parts := []string{
		t.Text.Bold(true).Render(fmt.Sprintf("Tổng %d", s.Total)),
		t.Badge(string(models.PaymentPaid), fmt.Sprintf("%s %d", format.PaymentStatus(models.PaymentPaid), s.Paid)),
		t.Badge(string(models.PaymentPending), fmt.Sprintf("%s %d", format.PaymentStatus(models.PaymentPending), s.Pending)),
		t.Badge(string(models.PaymentFailed), fmt.Sprintf("%s %d", format.PaymentStatus(models.PaymentFailed), s.Failed)),
		t.Money.Bold(true).Render("Doanh thu " + format.Currency(s.Revenue)),
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, t.TextMuted.Render(" · ")))
}

func (p *paymentsPage) Hints() []string {
	return []string{"[del] xóa"}
}
