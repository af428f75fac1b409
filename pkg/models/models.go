package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Envelope is the response wrapper returned by every backend endpoint
type Envelope[T any] struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode,omitempty"`
	Message    string `json:"message,omitempty"`
	Data       T      `json:"data"`
}

// Page is one server-side page of a listing. Page numbers start at 1.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// Pages returns ceil(total/size), or 1 when there is nothing to page through
func (p Page[T]) Pages() int {
	return TotalPages(p.TotalElements, p.PageSize)
}

// TotalPages computes the page count for a listing
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		return 1
	}
	return pages
}

// LocalTime decodes the zone-less timestamps the backend emits
// ("2025-01-02T15:04:05", optionally with fractional seconds) as well as
// RFC 3339 and plain dates.
type LocalTime struct {
	time.Time
}

var localTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func ParseLocalTime(s string) (LocalTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return LocalTime{Time: t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format("2006-01-02T15:04:05"))
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderShipping  OrderStatus = "SHIPPING"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses lists the statuses in display order
var OrderStatuses = []OrderStatus{OrderPending, OrderShipping, OrderDelivered, OrderCancelled}

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderShipping, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Next returns the quick-action target status, if any
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case OrderPending:
		return OrderShipping, true
	case OrderShipping:
		return OrderDelivered, true
	}
	return "", false
}

// CanTransition reports whether an order in status s may move to target
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	if next, ok := s.Next(); ok && next == target {
		return true
	}
	return s == OrderPending && target == OrderCancelled
}

type Order struct {
	OrderID          int         `json:"orderId"`
	BuyerID          int         `json:"buyerId"`
	VoucherID        *int        `json:"voucherId,omitempty"`
	OrderDate        LocalTime   `json:"orderDate"`
	Status           OrderStatus `json:"status"`
	TotalAmount      float64     `json:"totalAmount"`
	DiscountAmount   float64     `json:"discountAmount"`
	FinalAmount      float64     `json:"finalAmount"`
	ShippingFee      float64     `json:"shippingFee"`
	ShippingFullname string      `json:"shippingFullname"`
	ShippingPhone    string      `json:"shippingPhone"`
	ShippingAddress  string      `json:"shippingAddress"`
	ShippingCity     string      `json:"shippingCity"`
	ShippingCountry  string      `json:"shippingCountry"`
	Note             string      `json:"note,omitempty"`
	Items            []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	OrderItemID         int     `json:"orderItemId"`
	ProductID           int     `json:"productId"`
	ProductNameSnapshot string  `json:"productNameSnapshot"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unitPrice"`
	TotalPrice          float64 `json:"totalPrice"`
}

type OrderStatistics struct {
	TotalOrders    int64 `json:"totalOrders"`
	PendingCount   int64 `json:"pendingCount"`
	ShippingCount  int64 `json:"shippingCount"`
	DeliveredCount int64 `json:"deliveredCount"`
	CancelledCount int64 `json:"cancelledCount"`
}

type Category struct {
	CategoryID int    `json:"categoryId"`
	ParentID   *int   `json:"parentId,omitempty"`
	Name       string `json:"name"`
	URL        string `json:"url,omitempty"`
	IsActive   bool   `json:"isActive"`
}

const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

type Product struct {
	ProductID   int       `json:"productId"`
	CategoryID  int       `json:"categoryId"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	ProductCode string    `json:"productCode"`
	Description string    `json:"description,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	BasePrice   float64   `json:"basePrice"`
	Status      string    `json:"status"`
	CreateAt    LocalTime `json:"createAt"`
}

const (
	UserActive  = "active"
	UserBlocked = "blocked"
)

const (
	RoleAdmin   = 1
	RoleUser    = 2
	RoleManager = 3
)

type User struct {
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	RoleID    int       `json:"roleId"`
	Status    string    `json:"status"`
	CreatedAt LocalTime `json:"createdAt"`
}

// UserRequest is the create/update payload. The backend reads the new
// password from passwordHash and ignores it when empty.
type UserRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	RoleID   int    `json:"roleId"`
	Status   string `json:"status"`
	Password string `json:"passwordHash,omitempty"`
}

type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "COD"
	PaymentVNPay PaymentMethod = "VNPAY"
	PaymentMoMo  PaymentMethod = "MOMO"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "PAID"
	PaymentPending PaymentStatus = "PENDING"
	PaymentFailed  PaymentStatus = "FAILED"
)

type Payment struct {
	PaymentID            int           `json:"paymentId"`
	OrderID              int           `json:"orderId"`
	PayerID              int           `json:"payerId"`
	PaymentMethod        PaymentMethod `json:"paymentMethod"`
	PaymentDate          LocalTime     `json:"paymentDate"`
	Amount               float64       `json:"amount"`
	Status               PaymentStatus `json:"status"`
	TransactionRef       string        `json:"transactionRef"`
	GatewayTransactionID string        `json:"gatewayTransactionId,omitempty"`
	BankCode             string        `json:"bankCode,omitempty"`
	TransactionDesc      string        `json:"transactionDesc,omitempty"`
	CreatedAt            LocalTime     `json:"createdAt"`
}

// SensorReading is one daily aggregate from a field sensor
type SensorReading struct {
	SensorID        int     `json:"sensorId,omitempty"`
	Date            string  `json:"date"`
	SoilTemperature float64 `json:"soilTemperature"`
	SoilMoisture    float64 `json:"soilMoisture"`
	AirTemperature  float64 `json:"airTemperature"`
	AirHumidity     float64 `json:"airHumidity"`
	SoilPH          float64 `json:"soilPh"`
	SoilEC          float64 `json:"soilEc"`
	Nitrogen        float64 `json:"nito"`
	Phosphorus      float64 `json:"photpho"`
	Potassium       float64 `json:"kali"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
	Username     string `json:"username,omitempty"`
}
