package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cloudsky01/storeadmin/internal/sandbox"
	"github.com/Cloudsky01/storeadmin/pkg/models"
)

var seedTime = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)

func newSandboxClient(t *testing.T, opts ...sandbox.Option) *Client {
	t.Helper()

	srv := sandbox.New(sandbox.Seeded(seedTime), opts...)
	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(ts.Close)

	c, err := New(ts.URL, WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)

	_, err = New("://nope")
	assert.Error(t, err)

	c, err := New("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
}

func TestQueryValuesDropsEmptyFilters(t *testing.T) {
	q := Query{
		Filters: map[string]string{"status": "PENDING", "searchTerm": "  ", "title": ""},
		Page:    2,
		Size:    20,
	}
	assert.Equal(t, "page=2&size=20&status=PENDING", q.Values().Encode())
}

func TestOrdersRoundTrip(t *testing.T) {
	c := newSandboxClient(t)
	ctx := context.Background()

	page, err := c.ListOrders(ctx, Query{Filters: map[string]string{"status": "PENDING"}, Page: 1, Size: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(10), page.TotalElements)
	assert.Equal(t, 2, page.Pages())
	require.Len(t, page.Content, 5)

	id := page.Content[0].OrderID
	order, err := c.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Len(t, order.Items, 2)
	assert.False(t, order.OrderDate.IsZero())

	order, err = c.UpdateOrderStatus(ctx, id, models.OrderShipping)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipping, order.Status)

	_, err = c.UpdateOrderStatus(ctx, id, models.OrderCancelled)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Trạng thái không hợp lệ", Message(err))

	stats, err := c.OrderStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), stats.PendingCount)
	assert.Equal(t, int64(6), stats.ShippingCount)
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	c := newSandboxClient(t)

	_, err := c.GetOrder(context.Background(), 4242)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Không tìm thấy đơn hàng", Message(err))
}

func TestProductsAndCategories(t *testing.T) {
	c := newSandboxClient(t)
	ctx := context.Background()

	cats, err := c.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 3)

	created, err := c.CreateProduct(ctx, models.Product{Title: "Converse Chuck 70", CategoryID: 1, BasePrice: 1900000})
	require.NoError(t, err)
	assert.NotZero(t, created.ProductID)

	created.BasePrice = 2000000
	updated, err := c.UpdateProduct(ctx, created.ProductID, created)
	require.NoError(t, err)
	assert.Equal(t, 2000000.0, updated.BasePrice)

	page, err := c.ListProducts(ctx, Query{Filters: map[string]string{"categoryId": "1"}, Page: 1, Size: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalElements)

	require.NoError(t, c.DeleteProduct(ctx, created.ProductID))
	_, err = c.GetProduct(ctx, created.ProductID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsers(t *testing.T) {
	c := newSandboxClient(t)
	ctx := context.Background()

	u, err := c.CreateUser(ctx, models.UserRequest{
		Username: "tranvand",
		FullName: "Trần Văn D",
		Email:    "d@shoestore.vn",
		RoleID:   models.RoleUser,
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserActive, u.Status)

	u, err = c.ToggleUserStatus(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.UserBlocked, u.Status)

	u, err = c.UpdateUser(ctx, u.UserID, models.UserRequest{FullName: "Trần Văn Đ", Email: u.Email, Phone: "0900000000"})
	require.NoError(t, err)
	assert.Equal(t, "Trần Văn Đ", u.FullName)
	assert.Equal(t, "tranvand", u.Username)

	got, err := c.GetUser(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	require.NoError(t, c.DeleteUser(ctx, u.UserID))
	assert.ErrorIs(t, c.DeleteUser(ctx, u.UserID), ErrNotFound)

	page, err := c.ListUsers(ctx, Query{Filters: map[string]string{"username": "admin"}})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
}

func TestPayments(t *testing.T) {
	c := newSandboxClient(t)
	ctx := context.Background()

	page, err := c.ListPayments(ctx, Query{Filters: map[string]string{"status": "FAILED"}, Size: 50})
	require.NoError(t, err)
	require.NotEmpty(t, page.Content)
	for _, p := range page.Content {
		assert.Equal(t, models.PaymentFailed, p.Status)
	}

	p, err := c.GetPayment(ctx, page.Content[0].PaymentID)
	require.NoError(t, err)
	assert.NotEmpty(t, p.TransactionRef)

	require.NoError(t, c.DeletePayment(ctx, p.PaymentID))
}

func TestSensorHistoryArrayPayload(t *testing.T) {
	c := newSandboxClient(t)

	readings, err := c.SensorHistory(context.Background(), Query{Filters: map[string]string{"sensorId": "2"}})
	require.NoError(t, err)
	assert.Len(t, readings, 30)
	for _, r := range readings {
		assert.Equal(t, 2, r.SensorID)
	}
}

func TestSensorHistoryPagePayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"content":[{"date":"2025-03-01","soilPh":6.5,"nito":40}],"pageNumber":1,"pageSize":10,"totalElements":1,"totalPages":1}}`))
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	readings, err := c.SensorHistory(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, 6.5, readings[0].SoilPH)
	assert.Equal(t, 40.0, readings[0].Nitrogen)
}

func TestEnvelopeFailureWithOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"statusCode":409,"message":"Xung đột dữ liệu"}`))
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	_, err = c.OrderStatistics(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, "Xung đột dữ liệu", apiErr.Message)
}

func TestAuthFlow(t *testing.T) {
	c := newSandboxClient(t, sandbox.WithAuth(true))
	ctx := context.Background()

	_, err := c.ListOrders(ctx, Query{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.Login(ctx, "admin", "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, c.HasToken())

	tokens, err := c.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.True(t, c.HasToken())

	_, err = c.ListOrders(ctx, Query{})
	require.NoError(t, err)

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.HasToken())
}

func TestRequestTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	c, err := New(ts.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.OrderStatistics(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
