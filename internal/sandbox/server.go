// Package sandbox serves an in-memory copy of the store backend's REST
// API. It backs the demo mode and the client tests.
package sandbox

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Cloudsky01/storeadmin/pkg/models"
)

const (
	msgOK              = "Thành công"
	msgInvalidStatus   = "Trạng thái không hợp lệ"
	msgInvalidBody     = "Dữ liệu không hợp lệ"
	msgInvalidLogin    = "Sai tên đăng nhập hoặc mật khẩu"
	msgUnauthorized    = "Chưa đăng nhập"
	msgUsernameTaken   = "Tên đăng nhập đã tồn tại"
	msgOrderNotFound   = "Không tìm thấy đơn hàng"
	msgProductNotFound = "Không tìm thấy sản phẩm"
	msgUserNotFound    = "Không tìm thấy người dùng"
	msgPaymentNotFound = "Không tìm thấy thanh toán"
)

type Option func(*Server)

// WithAuth makes every endpoint except login require a bearer token
func WithAuth(required bool) Option {
	return func(s *Server) { s.requireAuth = required }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time stamped on created records
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

type Server struct {
	store       *Store
	app         *fiber.App
	requireAuth bool
	log         *zap.Logger
	now         func() time.Time
}

func New(store *Store, opts ...Option) *Server {
	s := &Server{
		store: store,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.routes()
	return s
}

// App exposes the fiber app, e.g. for adaptor.FiberApp in tests
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until ctx is cancelled
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()

	select {
	case <-ctx.Done():
		return s.app.ShutdownWithTimeout(5 * time.Second)
	case err := <-errCh:
		return err
	}
}

func (s *Server) routes() {
	s.app.Use(s.logRequests)

	v1 := s.app.Group("/api/v1")
	v1.Post("/auth/login", s.login)

	v1.Use(s.authenticate)
	v1.Post("/auth/logout", s.logout)

	v1.Get("/admin/orders/statistics", s.orderStatistics)
	v1.Get("/admin/orders", s.listOrders)
	v1.Get("/admin/orders/:id", s.getOrder)
	v1.Put("/admin/orders/:id/status", s.updateOrderStatus)

	v1.Get("/products", s.listProducts)
	v1.Post("/products", s.createProduct)
	v1.Get("/products/:id", s.getProduct)
	v1.Put("/products/:id", s.updateProduct)
	v1.Delete("/products/:id", s.deleteProduct)

	v1.Get("/categories", s.listCategories)

	v1.Get("/users", s.listUsers)
	v1.Post("/users", s.createUser)
	v1.Get("/users/:id", s.getUser)
	v1.Put("/users/:id", s.updateUser)
	v1.Put("/users/:id/status", s.toggleUserStatus)
	v1.Delete("/users/:id", s.deleteUser)

	v1.Get("/payments", s.listPayments)
	v1.Get("/payments/:id", s.getPayment)
	v1.Delete("/payments/:id", s.deletePayment)

	sensors := s.app.Group("/api/sensors", s.authenticate)
	sensors.Get("/history", s.sensorHistory)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("sandbox request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("took", time.Since(start)),
	)
	return err
}

func (s *Server) authenticate(c *fiber.Ctx) error {
	if !s.requireAuth {
		return c.Next()
	}
	token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if token == "" || !s.store.ValidToken(token) {
		return fail(c, fiber.StatusUnauthorized, msgUnauthorized)
	}
	c.Locals("token", token)
	return c.Next()
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	s.log.Warn("sandbox error", zap.String("path", c.Path()), zap.Error(err))
	return fail(c, code, err.Error())
}

func ok[T any](c *fiber.Ctx, data T) error {
	return c.JSON(models.Envelope[T]{
		Success:    true,
		StatusCode: fiber.StatusOK,
		Message:    msgOK,
		Data:       data,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.Envelope[any]{
		Success:    false,
		StatusCode: status,
		Message:    message,
	})
}

func pageParams(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("size", 10)
}

func (s *Server) login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	tokens, valid := s.store.Login(req.Username, req.Password)
	if !valid {
		return fail(c, fiber.StatusUnauthorized, msgInvalidLogin)
	}
	return ok(c, tokens)
}

func (s *Server) logout(c *fiber.Ctx) error {
	token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if token != "" {
		s.store.Logout(token)
	}
	return ok[any](c, nil)
}

func (s *Server) listOrders(c *fiber.Ctx) error {
	page, size := pageParams(c)
	f := OrderFilter{
		Status:     strings.ToUpper(c.Query("status")),
		SearchTerm: c.Query("searchTerm"),
	}
	return ok(c, s.store.Orders(f, page, size))
}

func (s *Server) getOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	order, found := s.store.Order(id)
	if !found {
		return fail(c, fiber.StatusNotFound, msgOrderNotFound)
	}
	return ok(c, order)
}

func (s *Server) updateOrderStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	status := models.OrderStatus(strings.ToUpper(body.Status))
	if !status.Valid() {
		return fail(c, fiber.StatusBadRequest, msgInvalidStatus)
	}

	order, err := s.store.UpdateOrderStatus(id, status)
	switch {
	case errors.Is(err, ErrNotFound):
		return fail(c, fiber.StatusNotFound, msgOrderNotFound)
	case errors.Is(err, ErrInvalidTransition):
		return fail(c, fiber.StatusBadRequest, msgInvalidStatus)
	case err != nil:
		return err
	}
	return ok(c, order)
}

func (s *Server) orderStatistics(c *fiber.Ctx) error {
	return ok(c, s.store.OrderStatistics())
}

func (s *Server) listProducts(c *fiber.Ctx) error {
	page, size := pageParams(c)
	f := ProductFilter{
		CategoryID: c.QueryInt("categoryId"),
		Title:      c.Query("title"),
		Status:     c.Query("status"),
	}
	return ok(c, s.store.Products(f, page, size))
}

func (s *Server) getProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	p, found := s.store.Product(id)
	if !found {
		return fail(c, fiber.StatusNotFound, msgProductNotFound)
	}
	return ok(c, p)
}

func (s *Server) parseProduct(c *fiber.Ctx) (models.Product, bool) {
	var p models.Product
	if err := c.BodyParser(&p); err != nil {
		return p, false
	}
	if strings.TrimSpace(p.Title) == "" || p.BasePrice <= 0 {
		return p, false
	}
	return p, true
}

func (s *Server) createProduct(c *fiber.Ctx) error {
	p, valid := s.parseProduct(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	return ok(c, s.store.CreateProduct(p, s.now()))
}

func (s *Server) updateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	p, valid := s.parseProduct(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	updated, err := s.store.UpdateProduct(id, p)
	if errors.Is(err, ErrNotFound) {
		return fail(c, fiber.StatusNotFound, msgProductNotFound)
	}
	return ok(c, updated)
}

func (s *Server) deleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := s.store.DeleteProduct(id); err != nil {
		return fail(c, fiber.StatusNotFound, msgProductNotFound)
	}
	return ok[any](c, nil)
}

func (s *Server) listCategories(c *fiber.Ctx) error {
	page, size := pageParams(c)
	return ok(c, s.store.Categories(page, size))
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	page, size := pageParams(c)
	f := UserFilter{
		Username: c.Query("username"),
		FullName: c.Query("fullName"),
		Email:    c.Query("email"),
		Phone:    c.Query("phone"),
		RoleID:   c.QueryInt("roleId"),
		Status:   c.Query("status"),
	}
	return ok(c, s.store.Users(f, page, size))
}

func (s *Server) getUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	u, found := s.store.User(id)
	if !found {
		return fail(c, fiber.StatusNotFound, msgUserNotFound)
	}
	return ok(c, u)
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var req models.UserRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	u, err := s.store.CreateUser(req, s.now())
	if errors.Is(err, ErrConflict) {
		return fail(c, fiber.StatusBadRequest, msgUsernameTaken)
	}
	return ok(c, u)
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	var req models.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	u, err := s.store.UpdateUser(id, req)
	switch {
	case errors.Is(err, ErrNotFound):
		return fail(c, fiber.StatusNotFound, msgUserNotFound)
	case errors.Is(err, ErrConflict):
		return fail(c, fiber.StatusBadRequest, msgUsernameTaken)
	}
	return ok(c, u)
}

func (s *Server) toggleUserStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	u, err := s.store.ToggleUserStatus(id)
	if err != nil {
		return fail(c, fiber.StatusNotFound, msgUserNotFound)
	}
	return ok(c, u)
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := s.store.DeleteUser(id); err != nil {
		return fail(c, fiber.StatusNotFound, msgUserNotFound)
	}
	return ok[any](c, nil)
}

func (s *Server) listPayments(c *fiber.Ctx) error {
	page, size := pageParams(c)
	f := PaymentFilter{
		PaymentID:      c.QueryInt("paymentId"),
		Method:         strings.ToUpper(c.Query("paymentMethod")),
		Status:         strings.ToUpper(c.Query("status")),
		OrderID:        c.QueryInt("orderId"),
		TransactionRef: strings.TrimSpace(c.Query("transactionRef")),
	}
	return ok(c, s.store.Payments(f, page, size))
}

func (s *Server) getPayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	p, found := s.store.Payment(id)
	if !found {
		return fail(c, fiber.StatusNotFound, msgPaymentNotFound)
	}
	return ok(c, p)
}

func (s *Server) deletePayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := s.store.DeletePayment(id); err != nil {
		return fail(c, fiber.StatusNotFound, msgPaymentNotFound)
	}
	return ok[any](c, nil)
}

func (s *Server) sensorHistory(c *fiber.Ctx) error {
	readings := s.store.SensorHistory(c.QueryInt("sensorId"), c.Query("start"), c.Query("end"))
	return ok(c, readings)
}
