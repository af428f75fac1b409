package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/config"
	"github.com/Cloudsky01/storeadmin/internal/tui/components"
	"github.com/Cloudsky01/storeadmin/internal/tui/detailpanel"
	"github.com/Cloudsky01/storeadmin/pkg/models"
)

func ordersOf(app *App) *ordersPage {
	return app.pages[app.pageIndex("orders")].(*ordersPage)
}

func selectedID(t *testing.T, app *App) int {
	t.Helper()
	id, ok := app.page().Table().SelectedID()
	if !ok {
		t.Fatal("no row selected")
	}
	return id
}

func TestAppLoadsStartPage(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	if got := app.ActivePage(); got != "orders" {
		t.Fatalf("ActivePage() = %q, want orders", got)
	}
	table := app.page().Table()
	if got := len(table.Rows()); got != 10 {
		t.Errorf("rows = %d, want 10", got)
	}
	if got := table.TotalElements(); got != 30 {
		t.Errorf("TotalElements() = %d, want 30", got)
	}
	if got := table.TotalPages(); got != 3 {
		t.Errorf("TotalPages() = %d, want 3", got)
	}
	if got := selectedID(t, app); got != 30 {
		t.Errorf("first order = %d, want the newest (30)", got)
	}

	orders := ordersOf(app)
	if !orders.hasStats || orders.stats.TotalOrders != 30 {
		t.Errorf("stats = %+v, want 30 orders", orders.stats)
	}
	if app.spinner.IsActive() {
		t.Errorf("spinner still counts %d requests", app.spinner.InFlight())
	}
	if app.initialized["products"] {
		t.Error("products must not be fetched before it is visited")
	}
}

func TestAppPaging(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	press(t, app, "right")
	if got := app.page().Table().Page(); got != 2 {
		t.Fatalf("Page() = %d, want 2", got)
	}
	if got := selectedID(t, app); got != 20 {
		t.Errorf("first row of page 2 = %d, want 20", got)
	}

	press(t, app, "end")
	if got := app.page().Table().Page(); got != 3 {
		t.Errorf("Page() after end = %d, want 3", got)
	}
	press(t, app, "right")
	if got := app.page().Table().Page(); got != 3 {
		t.Errorf("paging past the last page moved to %d", got)
	}
	press(t, app, "home")
	if got := app.page().Table().Page(); got != 1 {
		t.Errorf("Page() after home = %d, want 1", got)
	}
}

func TestOrderPanelsStackAndCollapse(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	panels := app.page().Panels()

	press(t, app, "enter")
	if panels.Len() != 1 {
		t.Fatalf("panels = %d, want 1", panels.Len())
	}
	if got := panels.Top().Header(); got != "Đơn hàng #30" {
		t.Errorf("header = %q", got)
	}
	if !panels.Top().IsOpen() {
		t.Error("panel did not finish its enter transition")
	}

	press(t, app, "down", "enter")
	if panels.Len() != 2 {
		t.Fatalf("panels = %d, want 2", panels.Len())
	}
	if !panels.HasControl(detailpanel.CollapseControl) {
		t.Error("two panels must bind the collapse control")
	}

	press(t, app, "c")
	if panels.Len() != 0 {
		t.Errorf("collapse left %d panels", panels.Len())
	}
	if app.focus != FocusTable {
		t.Errorf("focus = %v, want table", app.focus)
	}
}

func TestOrderPanelCloseKeys(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	panels := app.page().Panels()

	press(t, app, "enter", "down", "enter", "down", "enter")
	if panels.Len() != 3 {
		t.Fatalf("panels = %d, want 3", panels.Len())
	}

	press(t, app, "[")
	if app.focus != FocusPanels {
		t.Fatalf("focus = %v, want panels", app.focus)
	}
	press(t, app, "[", "x")
	if panels.Len() != 2 {
		t.Fatalf("x left %d panels, want 2", panels.Len())
	}
	if got := panels.Panels()[0].Header(); got != "Đơn hàng #30" {
		t.Errorf("closing the middle panel removed %q", got)
	}

	press(t, app, "esc", "esc")
	if panels.Len() != 0 {
		t.Errorf("esc left %d panels", panels.Len())
	}
	if app.focus != FocusTable {
		t.Errorf("focus = %v after the last panel closed, want table", app.focus)
	}
}

func TestOrderItemsPanel(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	press(t, app, "i")
	expectToast(t, app, components.ToastWarning, "Chưa mở đơn hàng nào")

	press(t, app, "enter", "i")
	panels := app.page().Panels()
	if panels.Len() != 2 {
		t.Fatalf("panels = %d, want 2", panels.Len())
	}
	if got := panels.Top().Header(); got != "Sản phẩm · #30" {
		t.Errorf("items header = %q", got)
	}
	if !strings.Contains(panels.Top().Body(), "Tổng cộng") {
		t.Error("items panel misses the total")
	}
}

func TestOrderTransitionFromItemsPanel(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "enter", "i", "down", "]")

	orders := ordersOf(app)
	before := orders.rows[1].Status
	if got := selectedID(t, app); got != orders.rows[1].OrderID {
		t.Fatalf("selected = %d, want the second row", got)
	}

	press(t, app, "C")
	if !app.confirm.IsActive() {
		t.Fatal("expected the confirm modal")
	}
	if msg := app.confirm.Message(); !strings.Contains(msg, "#30") {
		t.Errorf("confirm message %q does not name order #30", msg)
	}
	press(t, app, "y")

	if got := orders.rows[0].Status; got != models.OrderCancelled {
		t.Errorf("order 30 status = %q, want CANCELLED", got)
	}
	if got := orders.rows[1].Status; got != before {
		t.Errorf("highlighted order changed to %q", got)
	}
}

func TestOrderTargetWithoutOrderPanel(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	orders := ordersOf(app)
	orders.panels.Open(detailpanel.Content{Header: "Ghi chú"})
	if _, ok := orders.target(FocusPanels); ok {
		t.Error("a panel that maps to no order resolved to one")
	}
	press(t, app, "]", "C")
	expectToast(t, app, components.ToastWarning, "Chưa chọn đơn hàng")
	if app.confirm.IsActive() {
		t.Error("no order must not ask for confirmation")
	}
}

func TestOrderInvalidTransition(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	press(t, app, "d")
	expectToast(t, app, components.ToastWarning, "Trạng thái không hợp lệ")
	if app.confirm.IsActive() {
		t.Error("an invalid transition must not ask for confirmation")
	}
}

func TestOrderTransitionConfirmed(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "enter")

	press(t, app, "s")
	if !app.confirm.IsActive() {
		t.Fatal("expected the confirm modal")
	}
	press(t, app, "y")

	expectToast(t, app, components.ToastSuccess, "Cập nhật trạng thái thành công")
	orders := ordersOf(app)
	if got := orders.rows[0].Status; got != models.OrderShipping {
		t.Errorf("order 30 status = %q, want SHIPPING", got)
	}
	if orders.stats.ShippingCount != 6 {
		t.Errorf("ShippingCount = %d, want 6", orders.stats.ShippingCount)
	}
	if body := app.page().Panels().Top().Body(); !strings.Contains(body, "[d]") {
		t.Error("open panel was not refreshed with the new actions")
	}
}

func TestOrderTransitionCancelled(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	press(t, app, "C", "n")
	if app.confirm.IsActive() {
		t.Fatal("n must dismiss the modal")
	}
	if got := ordersOf(app).rows[0].Status; got != models.OrderPending {
		t.Errorf("dismissed confirm changed the order to %q", got)
	}
}

func TestSearchAppliesFiltersFromPageOne(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "right")

	press(t, app, "/")
	if app.focus != FocusSearch {
		t.Fatalf("focus = %v, want search", app.focus)
	}
	app.page().Search().SetValue("status", string(models.OrderCancelled))
	press(t, app, "enter")

	table := app.page().Table()
	if table.Page() != 1 {
		t.Errorf("Page() = %d, want 1 after a new search", table.Page())
	}
	if table.TotalElements() != 5 {
		t.Errorf("cancelled orders = %d, want 5", table.TotalElements())
	}
	for _, o := range ordersOf(app).rows {
		if o.Status != models.OrderCancelled {
			t.Errorf("order %d has status %s", o.OrderID, o.Status)
		}
	}
	if app.focus != FocusTable {
		t.Errorf("focus = %v after submit, want table", app.focus)
	}

	press(t, app, "/", "ctrl+u")
	if got := app.page().Table().TotalElements(); got != 30 {
		t.Errorf("clearing filters shows %d orders, want 30", got)
	}
}

func TestSwitchPagesFetchesOnFirstVisit(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	press(t, app, "2")
	if app.ActivePage() != "products" {
		t.Fatalf("ActivePage() = %q", app.ActivePage())
	}
	products := app.page().(*productsPage)
	if len(products.rows) != 8 {
		t.Errorf("products = %d, want 8", len(products.rows))
	}
	if len(products.categories) == 0 {
		t.Error("categories were not loaded")
	}
	field, _ := products.search.Field("categoryId")
	if opts := field.(*components.SelectField).Options(); len(opts) != len(products.categories)+1 {
		t.Errorf("category filter has %d options", len(opts))
	}

	press(t, app, "1")
	if app.ActivePage() != "orders" {
		t.Errorf("ActivePage() = %q, want orders", app.ActivePage())
	}
}

func TestCommandPaletteSwitchesPage(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	press(t, app, ":", "p", "a", "y", "m", "enter")
	if app.cmdPalette.IsActive() {
		t.Error("palette still open")
	}
	if app.ActivePage() != "payments" {
		t.Errorf("ActivePage() = %q, want payments", app.ActivePage())
	}
}

func TestFocusCycle(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	press(t, app, "tab")
	if app.focus != FocusSidebar {
		t.Fatalf("focus = %v, want sidebar", app.focus)
	}
	press(t, app, "tab")
	if app.focus != FocusSearch {
		t.Fatalf("focus = %v, want search", app.focus)
	}
	// tab walks the two search fields, then leaves the form
	press(t, app, "tab", "tab")
	if app.focus != FocusTable {
		t.Fatalf("focus = %v, want table", app.focus)
	}

	press(t, app, "enter", "tab")
	if app.focus != FocusPanels {
		t.Errorf("focus = %v, want panels once one is open", app.focus)
	}
	press(t, app, "shift+tab")
	if app.focus != FocusTable {
		t.Errorf("focus = %v, want table", app.focus)
	}
}

func TestSidebarToggle(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	press(t, app, "ctrl+b")
	if !app.sidebar.IsCollapsed() {
		t.Error("ctrl+b did not collapse the sidebar")
	}
	press(t, app, "ctrl+b")
	if app.sidebar.IsCollapsed() {
		t.Error("ctrl+b did not expand the sidebar")
	}
}

func TestBackendErrorShowsDanger(t *testing.T) {
	app := newTestApp(t, testOptions{baseURL: "http://127.0.0.1:1"})
	start(t, app)

	if app.page().Table().Err() == nil {
		t.Error("table should show the error state")
	}
	toast, ok := lastToast(app)
	if !ok || toast.Level != components.ToastDanger {
		t.Errorf("toast = %+v, want a danger toast", toast)
	}
	if app.spinner.IsActive() {
		t.Error("failed requests must still release the spinner")
	}
}

func TestConfigReloadChangesPageSize(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	cfg := config.Default()
	cfg.UI.PageSize = 5
	cfg.UI.RefreshInterval = 0
	_, cmd := app.Update(ConfigReloadedMsg{Config: cfg})
	run(t, app, cmd)

	if got := len(app.page().Table().Rows()); got != 5 {
		t.Errorf("rows = %d, want 5", got)
	}
	if got := app.page().Table().TotalPages(); got != 6 {
		t.Errorf("TotalPages() = %d, want 6", got)
	}
	expectToast(t, app, components.ToastInfo, "Đã tải lại cấu hình")
}

func TestAutoRefreshNeedsInterval(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)

	press(t, app, "ctrl+t")
	expectToast(t, app, components.ToastWarning, "Chưa cấu hình chu kỳ tự động tải lại")

	app.refreshInterval = 3600
	press(t, app, "ctrl+t")
	if !app.autoRefreshEnabled || app.refreshTicker == nil {
		t.Fatal("auto refresh should be running")
	}
	press(t, app, "ctrl+t")
	if app.autoRefreshEnabled || app.refreshTicker != nil {
		t.Error("auto refresh should be stopped")
	}
}

func TestStatePersistsAcrossSessions(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.yaml")

	app := newTestApp(t, testOptions{statePath: statePath})
	start(t, app)
	press(t, app, "4", "/")
	app.page().Search().SetValue("paymentMethod", string(models.PaymentMoMo))
	press(t, app, "enter", "ctrl+b", "ctrl+c")

	if _, err := os.Stat(statePath); err != nil {
		t.Fatalf("state file missing: %v", err)
	}

	next := newTestApp(t, testOptions{statePath: statePath})
	if next.ActivePage() != "payments" {
		t.Errorf("ActivePage() = %q, want payments", next.ActivePage())
	}
	if !next.sidebar.IsCollapsed() {
		t.Error("sidebar state was not restored")
	}
	if got := next.page().Search().Values()["paymentMethod"]; got != "MOMO" {
		t.Errorf("restored method filter = %q, want MOMO", got)
	}

	start(t, next)
	for _, row := range next.page().Table().Rows() {
		if row.ID%3 != 0 {
			t.Errorf("payment %d is not a MOMO payment", row.ID)
		}
	}
}

func TestViewFitsTerminal(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "enter", "down", "enter", "down", "enter")

	out := app.View()
	if !strings.Contains(out, "Đơn hàng") {
		t.Error("view misses the page title")
	}
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 160 {
			t.Errorf("line %d is %d cells wide", i, w)
		}
	}

	press(t, app, "?")
	if !strings.Contains(app.View(), "Phím tắt") {
		t.Error("help overlay not shown")
	}
}
