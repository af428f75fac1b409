package sandbox

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Cloudsky01/storeadmin/pkg/models"
)

// Store is the in-memory data behind the sandbox. All access goes through
// its methods, which hold the lock.
type Store struct {
	mu sync.RWMutex

	categories []models.Category
	products   []models.Product
	users      []models.User
	passwords  map[string]string
	orders     []models.Order
	payments   []models.Payment
	readings   []models.SensorReading
	tokens     map[string]string

	nextProduct int
	nextUser    int
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		passwords:   make(map[string]string),
		tokens:      make(map[string]string),
		nextProduct: 1,
		nextUser:    1,
	}
}

// Seeded returns a store filled with demo data anchored at now
func Seeded(now time.Time) *Store {
	s := NewStore()
	s.seed(now)
	return s
}

func (s *Store) seed(now time.Time) {
	s.categories = []models.Category{
		{CategoryID: 1, Name: "Giày chạy bộ", URL: "giay-chay-bo", IsActive: true},
		{CategoryID: 2, Name: "Giày bóng rổ", URL: "giay-bong-ro", IsActive: true},
		{CategoryID: 3, Name: "Sandal", URL: "sandal", IsActive: true},
	}

	titles := []struct {
		title, brand string
		category     int
		price        float64
	}{
		{"Nike Air Zoom Pegasus 40", "Nike", 1, 3290000},
		{"Adidas Ultraboost Light", "Adidas", 1, 4500000},
		{"Asics Gel-Nimbus 25", "Asics", 1, 3990000},
		{"Nike LeBron 21", "Nike", 2, 5290000},
		{"Under Armour Curry 11", "Under Armour", 2, 4790000},
		{"Puma MB.03", "Puma", 2, 3590000},
		{"Teva Hurricane XLT2", "Teva", 3, 1590000},
		{"Biti's Hunter Sandal", "Biti's", 3, 690000},
	}
	for i, t := range titles {
		status := models.ProductActive
		if i == len(titles)-1 {
			status = models.ProductInactive
		}
		s.products = append(s.products, models.Product{
			ProductID:   s.nextProduct,
			CategoryID:  t.category,
			Title:       t.title,
			URL:         slug(t.title),
			ProductCode: fmt.Sprintf("SP%04d", s.nextProduct),
			Brand:       t.brand,
			BasePrice:   t.price,
			Status:      status,
			CreateAt:    models.LocalTime{Time: now.AddDate(0, 0, -40+i)},
		})
		s.nextProduct++
	}

	people := []struct {
		username, name string
		role           int
		status         string
		age            int
	}{
		{"admin", "Quản trị viên", models.RoleAdmin, models.UserActive, 400},
		{"manager", "Trần Thị Quản Lý", models.RoleManager, models.UserActive, 200},
		{"nguyenvana", "Nguyễn Văn A", models.RoleUser, models.UserActive, 60},
		{"lethib", "Lê Thị B", models.RoleUser, models.UserActive, 3},
		{"phamvanc", "Phạm Văn C", models.RoleUser, models.UserBlocked, 1},
	}
	for i, p := range people {
		s.users = append(s.users, models.User{
			UserID:    s.nextUser,
			Username:  p.username,
			FullName:  p.name,
			Email:     p.username + "@shoestore.vn",
			Phone:     fmt.Sprintf("09%08d", 12345670+i),
			RoleID:    p.role,
			Status:    p.status,
			CreatedAt: models.LocalTime{Time: now.AddDate(0, 0, -p.age)},
		})
		s.nextUser++
	}
	s.passwords["admin"] = "admin123"
	s.passwords["manager"] = "manager123"

	statuses := []models.OrderStatus{
		models.OrderPending, models.OrderShipping, models.OrderDelivered,
		models.OrderDelivered, models.OrderCancelled, models.OrderPending,
	}
	methods := []models.PaymentMethod{models.PaymentCOD, models.PaymentVNPay, models.PaymentMoMo}
	for i := 0; i < 30; i++ {
		id := i + 1
		buyer := s.users[2+i%3]
		p1 := s.products[i%len(s.products)]
		p2 := s.products[(i+3)%len(s.products)]
		items := []models.OrderItem{
			{OrderItemID: id*10 + 1, ProductID: p1.ProductID, ProductNameSnapshot: p1.Title, Quantity: 1 + i%2, UnitPrice: p1.BasePrice},
			{OrderItemID: id*10 + 2, ProductID: p2.ProductID, ProductNameSnapshot: p2.Title, Quantity: 1, UnitPrice: p2.BasePrice},
		}
		var total float64
		for j := range items {
			items[j].TotalPrice = items[j].UnitPrice * float64(items[j].Quantity)
			total += items[j].TotalPrice
		}
		discount := 0.0
		if i%4 == 0 {
			discount = 200000
		}
		fee := 30000.0
		placed := now.Add(-time.Duration(30-i) * 26 * time.Hour)

		order := models.Order{
			OrderID:          id,
			BuyerID:          buyer.UserID,
			OrderDate:        models.LocalTime{Time: placed},
			Status:           statuses[i%len(statuses)],
			TotalAmount:      total,
			DiscountAmount:   discount,
			ShippingFee:      fee,
			FinalAmount:      total - discount + fee,
			ShippingFullname: buyer.FullName,
			ShippingPhone:    buyer.Phone,
			ShippingAddress:  fmt.Sprintf("%d Lê Lợi, Phường Bến Nghé", 10+i),
			ShippingCity:     "TP. Hồ Chí Minh",
			ShippingCountry:  "Việt Nam",
			Items:            items,
		}
		s.orders = append(s.orders, order)

		payStatus := models.PaymentPaid
		switch order.Status {
		case models.OrderPending:
			payStatus = models.PaymentPending
		case models.OrderCancelled:
			payStatus = models.PaymentFailed
		}
		method := methods[i%len(methods)]
		payment := models.Payment{
			PaymentID:      id,
			OrderID:        id,
			PayerID:        buyer.UserID,
			PaymentMethod:  method,
			PaymentDate:    models.LocalTime{Time: placed.Add(10 * time.Minute)},
			Amount:         order.FinalAmount,
			Status:         payStatus,
			TransactionRef: uuid.NewString(),
			CreatedAt:      models.LocalTime{Time: placed},
		}
		if method == models.PaymentVNPay {
			payment.BankCode = "NCB"
			payment.GatewayTransactionID = strconv.Itoa(14000000 + id)
			payment.TransactionDesc = fmt.Sprintf("Thanh toan don hang %d", id)
		}
		s.payments = append(s.payments, payment)
	}

	for sensor := 1; sensor <= 2; sensor++ {
		for d := 29; d >= 0; d-- {
			day := now.AddDate(0, 0, -d)
			x := float64(29-d) / 4
			offset := float64(sensor)
			s.readings = append(s.readings, models.SensorReading{
				SensorID:        sensor,
				Date:            day.Format("2006-01-02"),
				SoilTemperature: round1(24 + 3*math.Sin(x) + offset),
				SoilMoisture:    round1(38 + 8*math.Cos(x/2)),
				AirTemperature:  round1(29 + 4*math.Sin(x+1)),
				AirHumidity:     round1(72 + 10*math.Cos(x)),
				SoilPH:          round1(6.4 + 0.3*math.Sin(x/3)),
				SoilEC:          round1(1.2 + 0.2*math.Cos(x)),
				Nitrogen:        round1(45 + 6*math.Sin(x/2) + offset),
				Phosphorus:      round1(22 + 3*math.Cos(x/2)),
				Potassium:       round1(160 + 15*math.Sin(x/4)),
			})
		}
	}
}

// Login checks credentials and issues a token
func (s *Store) Login(username, password string) (models.AuthTokens, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want, ok := s.passwords[username]
	if !ok || want != password {
		return models.AuthTokens{}, false
	}
	if u := s.userByName(username); u == nil || u.Status != models.UserActive {
		return models.AuthTokens{}, false
	}

	token := uuid.NewString()
	s.tokens[token] = username
	return models.AuthTokens{
		AccessToken:  token,
		RefreshToken: uuid.NewString(),
		TokenType:    "Bearer",
		Username:     username,
	}, true
}

func (s *Store) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func (s *Store) ValidToken(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

// OrderFilter narrows the admin order listing
type OrderFilter struct {
	Status     string
	SearchTerm string
}

func (s *Store) Orders(f OrderFilter, page, size int) models.Page[models.Order] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	var out []models.Order
	for i := len(s.orders) - 1; i >= 0; i-- {
		o := s.orders[i]
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if term != "" && !matchesAny(term, strconv.Itoa(o.OrderID), o.ShippingFullname, o.ShippingPhone) {
			continue
		}
		out = append(out, o)
	}
	return paginate(out, page, size)
}

func (s *Store) Order(id int) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.OrderID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

var (
	// ErrInvalidTransition is returned for status changes the order flow forbids
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrNotFound          = errors.New("record not found")
	// ErrConflict is returned when a unique field is already taken
	ErrConflict = errors.New("record already exists")
)

func (s *Store) UpdateOrderStatus(id int, status models.OrderStatus) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].OrderID != id {
			continue
		}
		if !s.orders[i].Status.CanTransition(status) {
			return models.Order{}, ErrInvalidTransition
		}
		s.orders[i].Status = status
		s.syncPayment(id, status)
		return s.orders[i], nil
	}
	return models.Order{}, ErrNotFound
}

func (s *Store) syncPayment(orderID int, status models.OrderStatus) {
	for i := range s.payments {
		if s.payments[i].OrderID != orderID {
			continue
		}
		switch status {
		case models.OrderDelivered:
			s.payments[i].Status = models.PaymentPaid
		case models.OrderCancelled:
			s.payments[i].Status = models.PaymentFailed
		}
	}
}

func (s *Store) OrderStatistics() models.OrderStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.OrderStatistics{TotalOrders: int64(len(s.orders))}
	for _, o := range s.orders {
		switch o.Status {
		case models.OrderPending:
			stats.PendingCount++
		case models.OrderShipping:
			stats.ShippingCount++
		case models.OrderDelivered:
			stats.DeliveredCount++
		case models.OrderCancelled:
			stats.CancelledCount++
		}
	}
	return stats
}

// ProductFilter narrows the product listing
type ProductFilter struct {
	CategoryID int
	Title      string
	Status     string
}

func (s *Store) Products(f ProductFilter, page, size int) models.Page[models.Product] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	title := strings.ToLower(strings.TrimSpace(f.Title))
	var out []models.Product
	for _, p := range s.products {
		if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if title != "" && !matchesAny(title, p.Title, p.ProductCode) {
			continue
		}
		out = append(out, p)
	}
	return paginate(out, page, size)
}

func (s *Store) Product(id int) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.productIndex(id)
	if idx < 0 {
		return models.Product{}, false
	}
	return s.products[idx], true
}

func (s *Store) CreateProduct(p models.Product, now time.Time) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ProductID = s.nextProduct
	s.nextProduct++
	if p.ProductCode == "" {
		p.ProductCode = fmt.Sprintf("SP%04d", p.ProductID)
	}
	if p.URL == "" {
		p.URL = slug(p.Title)
	}
	if p.Status == "" {
		p.Status = models.ProductActive
	}
	p.CreateAt = models.LocalTime{Time: now}
	s.products = append(s.products, p)
	return p
}

func (s *Store) UpdateProduct(id int, p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return models.Product{}, ErrNotFound
	}
	current := s.products[idx]
	p.ProductID = id
	p.CreateAt = current.CreateAt
	if p.ProductCode == "" {
		p.ProductCode = current.ProductCode
	}
	if p.URL == "" {
		p.URL = slug(p.Title)
	}
	if p.Status == "" {
		p.Status = current.Status
	}
	s.products[idx] = p
	return p, nil
}

func (s *Store) DeleteProduct(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.productIndex(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.products = slices.Delete(s.products, idx, idx+1)
	return nil
}

func (s *Store) productIndex(id int) int {
	return slices.IndexFunc(s.products, func(p models.Product) bool { return p.ProductID == id })
}

func (s *Store) Categories(page, size int) models.Page[models.Category] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(slices.Clone(s.categories), page, size)
}

// UserFilter narrows the user listing
type UserFilter struct {
	Username string
	FullName string
	Email    string
	Phone    string
	RoleID   int
	Status   string
}

func (s *Store) Users(f UserFilter, page, size int) models.Page[models.User] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, u := range s.users {
		if f.RoleID != 0 && u.RoleID != f.RoleID {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if !contains(u.Username, f.Username) || !contains(u.FullName, f.FullName) ||
			!contains(u.Email, f.Email) || !contains(u.Phone, f.Phone) {
			continue
		}
		out = append(out, u)
	}
	return paginate(out, page, size)
}

func (s *Store) User(id int) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.userIndex(id)
	if idx < 0 {
		return models.User{}, false
	}
	return s.users[idx], true
}

func (s *Store) CreateUser(req models.UserRequest, now time.Time) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userByName(req.Username) != nil {
		return models.User{}, ErrConflict
	}

	u := models.User{
		UserID:    s.nextUser,
		Username:  req.Username,
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		RoleID:    req.RoleID,
		Status:    req.Status,
		CreatedAt: models.LocalTime{Time: now},
	}
	if u.RoleID == 0 {
		u.RoleID = models.RoleUser
	}
	if u.Status == "" {
		u.Status = models.UserActive
	}
	s.nextUser++
	s.users = append(s.users, u)
	if req.Password != "" {
		s.passwords[u.Username] = req.Password
	}
	return u, nil
}

func (s *Store) UpdateUser(id int, req models.UserRequest) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.userIndex(id)
	if idx < 0 {
		return models.User{}, ErrNotFound
	}
	u := &s.users[idx]
	if req.Username != "" && req.Username != u.Username {
		if s.userByName(req.Username) != nil {
			return models.User{}, ErrConflict
		}
		if pw, ok := s.passwords[u.Username]; ok {
			delete(s.passwords, u.Username)
			s.passwords[req.Username] = pw
		}
		u.Username = req.Username
	}
	u.FullName = req.FullName
	u.Email = req.Email
	u.Phone = req.Phone
	if req.RoleID != 0 {
		u.RoleID = req.RoleID
	}
	if req.Status != "" {
		u.Status = req.Status
	}
	if req.Password != "" {
		s.passwords[u.Username] = req.Password
	}
	return *u, nil
}

func (s *Store) ToggleUserStatus(id int) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.userIndex(id)
	if idx < 0 {
		return models.User{}, ErrNotFound
	}
	if s.users[idx].Status == models.UserActive {
		s.users[idx].Status = models.UserBlocked
	} else {
		s.users[idx].Status = models.UserActive
	}
	return s.users[idx], nil
}

func (s *Store) DeleteUser(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.userIndex(id)
	if idx < 0 {
		return ErrNotFound
	}
	delete(s.passwords, s.users[idx].Username)
	s.users = slices.Delete(s.users, idx, idx+1)
	return nil
}

func (s *Store) userIndex(id int) int {
	return slices.IndexFunc(s.users, func(u models.User) bool { return u.UserID == id })
}

func (s *Store) userByName(username string) *models.User {
	for i := range s.users {
		if s.users[i].Username == username {
			return &s.users[i]
		}
	}
	return nil
}

// PaymentFilter narrows the payment listing
type PaymentFilter struct {
	PaymentID      int
	Method         string
	Status         string
	OrderID        int
	TransactionRef string
}

func (s *Store) Payments(f PaymentFilter, page, size int) models.Page[models.Payment] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Payment
	for i := len(s.payments) - 1; i >= 0; i-- {
		p := s.payments[i]
		if f.Method != "" && string(p.PaymentMethod) != f.Method {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.OrderID != 0 && p.OrderID != f.OrderID {
			continue
		}
		if f.PaymentID != 0 && p.PaymentID != f.PaymentID {
			continue
		}
		if !contains(p.TransactionRef, f.TransactionRef) {
			continue
		}
		out = append(out, p)
	}
	return paginate(out, page, size)
}

func (s *Store) Payment(id int) (models.Payment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.payments {
		if p.PaymentID == id {
			return p, true
		}
	}
	return models.Payment{}, false
}

func (s *Store) DeletePayment(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.payments, func(p models.Payment) bool { return p.PaymentID == id })
	if idx < 0 {
		return ErrNotFound
	}
	s.payments = slices.Delete(s.payments, idx, idx+1)
	return nil
}

// SensorHistory returns readings of one sensor (or all when sensorID is 0)
// between start and end inclusive. Empty bounds are open.
func (s *Store) SensorHistory(sensorID int, start, end string) []models.SensorReading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.SensorReading{}
	for _, r := range s.readings {
		if sensorID != 0 && r.SensorID != sensorID {
			continue
		}
		if start != "" && r.Date < start {
			continue
		}
		if end != "" && r.Date > end {
			continue
		}
		out = append(out, r)
	}
	return out
}

// paginate slices one 1-based page out of items
func paginate[T any](items []T, page, size int) models.Page[T] {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	total := int64(len(items))
	from := min((page-1)*size, len(items))
	to := min(from+size, len(items))

	content := make([]T, 0, to-from)
	content = append(content, items[from:to]...)

	return models.Page[T]{
		Content:       content,
		PageNumber:    page,
		PageSize:      size,
		TotalElements: total,
		TotalPages:    models.TotalPages(total, size),
	}
}

func matchesAny(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func contains(field, term string) bool {
	term = strings.TrimSpace(term)
	return term == "" || strings.Contains(strings.ToLower(field), strings.ToLower(term))
}

func slug(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
