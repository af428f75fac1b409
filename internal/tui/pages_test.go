package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cloudsky01/storeadmin/internal/format"
	"github.com/Cloudsky01/storeadmin/internal/tui/components"
	"github.com/Cloudsky01/storeadmin/pkg/models"
)

func TestProductDeleteAfterConfirm(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "2")

	table := app.page().Table()
	if table.TotalElements() != 8 {
		t.Fatalf("products = %d, want 8", table.TotalElements())
	}
	deleted := selectedID(t, app)

	press(t, app, "delete")
	if !app.confirm.IsActive() {
		t.Fatal("delete must ask for confirmation")
	}
	press(t, app, "y")

	expectToast(t, app, components.ToastSuccess, "Xóa thành công")
	if table.TotalElements() != 7 {
		t.Errorf("products after delete = %d, want 7", table.TotalElements())
	}
	for _, row := range table.Rows() {
		if row.ID == deleted {
			t.Errorf("product %d is still listed", deleted)
		}
	}
}

func TestProductPanelIsReplaced(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "2", "enter", "down", "enter")

	panels := app.page().Panels()
	if panels.Len() != 1 {
		t.Fatalf("panels = %d, want a single replaced panel", panels.Len())
	}
	products := app.page().(*productsPage)
	if products.shown != products.rows[1].ProductID {
		t.Errorf("shown = %d, want the second product", products.shown)
	}
	if !strings.Contains(panels.Top().Body(), products.rows[1].ProductCode) {
		t.Error("panel does not show the second product")
	}
}

func TestProductFormOpens(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "2", "n")

	if !app.form.IsActive() {
		t.Fatal("n must open the create form")
	}
	if got := app.form.Title(); got != "Thêm sản phẩm" {
		t.Errorf("form title = %q", got)
	}
	press(t, app, "esc")
	if app.form.IsActive() {
		t.Error("esc must close the form")
	}
}

func TestUserStatsAndToggle(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "3")

	users := app.page().(*usersPage)
	want := userStats{Total: 5, Active: 4, Blocked: 1, NewThisMonth: 2}
	if users.stats != want {
		t.Errorf("stats = %+v, want %+v", users.stats, want)
	}

	first := users.rows[0]
	press(t, app, "enter", "t")
	expectToast(t, app, components.ToastSuccess, "Đã khóa "+first.Username)

	if users.rows[0].Status != models.UserBlocked {
		t.Errorf("status = %q, want BLOCKED", users.rows[0].Status)
	}
	if users.stats.Blocked != 2 {
		t.Errorf("blocked = %d, want 2", users.stats.Blocked)
	}
	if !strings.Contains(app.page().Panels().Top().Body(), "[t] mở khóa") {
		t.Error("open panel still offers to block")
	}

	press(t, app, "t")
	expectToast(t, app, components.ToastSuccess, "Đã mở khóa "+first.Username)
}

func TestUserFilterByStatus(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "3", "/")
	app.page().Search().SetValue("status", models.UserBlocked)
	press(t, app, "enter")

	rows := app.page().(*usersPage).rows
	if len(rows) != 1 || rows[0].Username != "phamvanc" {
		t.Errorf("blocked users = %+v, want only phamvanc", rows)
	}
}

func TestPaymentDetailsAndDelete(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "4", "enter", "down", "enter")

	if got := app.page().Panels().Len(); got != 1 {
		t.Fatalf("panels = %d, want 1", got)
	}
	if got := app.page().(*paymentsPage).shown; got != 29 {
		t.Errorf("shown = %d, want payment 29", got)
	}

	press(t, app, "delete", "y")
	expectToast(t, app, components.ToastSuccess, "Xóa thành công")
	if got := app.page().Table().TotalElements(); got != 29 {
		t.Errorf("payments = %d, want 29", got)
	}
}

func TestSensorsPageLocally(t *testing.T) {
	chartDir := t.TempDir()
	app := newTestApp(t, testOptions{chartDir: chartDir})
	start(t, app)
	press(t, app, "5")

	sensors := app.page().(*sensorsPage)
	if len(sensors.readings) != 30 {
		t.Fatalf("readings = %d, want 30", len(sensors.readings))
	}
	table := app.page().Table()
	if table.TotalPages() != 3 {
		t.Errorf("TotalPages() = %d, want 3", table.TotalPages())
	}
	if got := table.Rows()[0].Cells["date"]; got != "2025-03-10" {
		t.Errorf("first row = %v, want the newest day", got)
	}

	press(t, app, "right")
	if table.Page() != 2 {
		t.Errorf("Page() = %d, want 2", table.Page())
	}
	if got := table.Rows()[0].Cells["date"]; got != "2025-02-28" {
		t.Errorf("first row of page 2 = %v", got)
	}

	press(t, app, "enter")
	if got := app.page().Panels().Top().Header(); got != "Ngày 2025-02-28" {
		t.Errorf("panel header = %q", got)
	}

	press(t, app, "h")
	path := filepath.Join(chartDir, "sensor-1.html")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("chart not written: %v", err)
	}
	expectToast(t, app, components.ToastSuccess, "Đã xuất biểu đồ: "+path)
}

func TestSensorsRejectBadDates(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "5", "/")
	app.page().Search().SetValue("start", "10/03/2025")
	press(t, app, "enter")

	expectToast(t, app, components.ToastWarning, "Ngày không hợp lệ (YYYY-MM-DD)")
	if got := len(app.page().(*sensorsPage).readings); got != 30 {
		t.Errorf("readings = %d, a rejected filter must keep the old data", got)
	}
}

func TestValidateSensorFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string]string
		want    string
	}{
		{"valid", map[string]string{"sensorId": "2", "start": "2025-03-01", "end": "2025-03-10"}, ""},
		{"open bounds", map[string]string{"sensorId": "1"}, ""},
		{"bad sensor", map[string]string{"sensorId": "abc"}, "Mã cảm biến không hợp lệ"},
		{"zero sensor", map[string]string{"sensorId": "0"}, "Mã cảm biến không hợp lệ"},
		{"bad date", map[string]string{"end": "2025-13-01"}, "Ngày không hợp lệ (YYYY-MM-DD)"},
		{"reversed", map[string]string{"start": "2025-03-10", "end": "2025-03-01"}, "Ngày bắt đầu phải trước ngày kết thúc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateSensorFilters(tt.filters); got != tt.want {
				t.Errorf("validateSensorFilters() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProductDeleteFromPanelUsesShownProduct(t *testing.T) {
	app := newTestApp(t, testOptions{pageSize: 3})
	start(t, app)
	press(t, app, "2", "enter")

	products := app.page().(*productsPage)
	shown := products.shown
	code := products.current.ProductCode
	press(t, app, "right")
	highlighted := selectedID(t, app)
	if highlighted == shown {
		t.Fatalf("next page still highlights product %d", shown)
	}

	press(t, app, "]", "delete")
	if !app.confirm.IsActive() {
		t.Fatal("delete must ask for confirmation")
	}
	if msg := app.confirm.Message(); !strings.Contains(msg, code) {
		t.Errorf("confirm message %q does not name product %s", msg, code)
	}
	press(t, app, "y")
	expectToast(t, app, components.ToastSuccess, "Xóa thành công")

	ctx := context.Background()
	if _, err := app.env.client.GetProduct(ctx, shown); err == nil {
		t.Errorf("product %d in the panel was not deleted", shown)
	}
	if _, err := app.env.client.GetProduct(ctx, highlighted); err != nil {
		t.Errorf("highlighted product %d was deleted instead: %v", highlighted, err)
	}
}

func TestProductEditFromPanelUsesShownProduct(t *testing.T) {
	app := newTestApp(t, testOptions{pageSize: 3})
	start(t, app)
	press(t, app, "2", "enter", "right", "]")

	products := app.page().(*productsPage)
	if got, ok := products.target(FocusPanels); !ok || got.ProductID != products.shown {
		t.Fatalf("panel target = %d, want shown product %d", got.ProductID, products.shown)
	}
	press(t, app, "e")
	if got := app.form.Title(); got != "Sửa sản phẩm" {
		t.Errorf("form title = %q", got)
	}
}

func TestUserStatsTotalComesFromBackendCount(t *testing.T) {
	app := newTestApp(t, testOptions{})
	users := app.pages[app.pageIndex("users")].(*usersPage)

	got := users.summarise(models.Page[models.User]{
		Content: []models.User{
			{UserID: 1, Status: models.UserActive},
			{UserID: 2, Status: models.UserBlocked},
		},
		TotalElements: 350,
	})
	if got.Total != 350 {
		t.Errorf("Total = %d, want 350 from totalElements", got.Total)
	}
	if got.Active != 1 || got.Blocked != 1 {
		t.Errorf("stats = %+v, want one active and one blocked", got)
	}
}

func TestPaymentStatsStrip(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "4")

	payments := app.page().(*paymentsPage)
	s := payments.stats
	if s.Total != 30 || s.Paid != 15 || s.Pending != 10 || s.Failed != 5 {
		t.Errorf("stats = %+v, want 30 total, 15 paid, 10 pending, 5 failed", s)
	}
	if s.Revenue <= 0 {
		t.Fatalf("Revenue = %v, want the sum of paid amounts", s.Revenue)
	}
	if header := payments.Header(160); !strings.Contains(header, format.Currency(s.Revenue)) {
		t.Errorf("header %q misses revenue %s", header, format.Currency(s.Revenue))
	}
}

func TestSummarisePaymentsKeepsBackendTotal(t *testing.T) {
	got := summarisePayments(models.Page[models.Payment]{
		Content: []models.Payment{
			{PaymentID: 1, Status: models.PaymentPaid, Amount: 100000},
			{PaymentID: 2, Status: models.PaymentPaid, Amount: 50000},
			{PaymentID: 3, Status: models.PaymentFailed, Amount: 70000},
		},
		TotalElements: 1200,
	})
	want := paymentStats{Total: 1200, Paid: 2, Failed: 1, Revenue: 150000}
	if got != want {
		t.Errorf("summarisePayments = %+v, want %+v", got, want)
	}
}

func TestPaymentFilterByIDAndReference(t *testing.T) {
	app := newTestApp(t, testOptions{})
	start(t, app)
	press(t, app, "4", "/")
	app.page().Search().SetValue("paymentId", "7")
	press(t, app, "enter")

	payments := app.page().(*paymentsPage)
	if len(payments.rows) != 1 || payments.rows[0].PaymentID != 7 {
		t.Fatalf("payment id filter rows = %+v, want only payment 7", payments.rows)
	}
	ref := payments.rows[0].TransactionRef

	press(t, app, "/", "ctrl+u")
	if got := app.page().Table().TotalElements(); got != 30 {
		t.Fatalf("clearing filters shows %d payments, want 30", got)
	}
	press(t, app, "/")
	app.page().Search().SetValue("transactionRef", strings.ToUpper(ref))
	press(t, app, "enter")
	if len(payments.rows) != 1 || payments.rows[0].PaymentID != 7 {
		t.Errorf("reference filter rows = %+v, want only payment 7", payments.rows)
	}
}
