// Package format renders backend values the way the shop's admins read
// them: VND amounts, day-first dates and Vietnamese status labels.
package format

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Cloudsky01/storeadmin/pkg/models"
)

const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04"
	Empty          = "-"
)

var printer = message.NewPrinter(language.Vietnamese)

// Currency formats an amount in dong, e.g. "1.250.000 ₫"
func Currency(v float64) string {
	return Number(int64(math.Round(v))) + " ₫"
}

// Number groups digits the Vietnamese way
func Number(v int64) string {
	return printer.Sprintf("%d", v)
}

func Date(t time.Time) string {
	if t.IsZero() {
		return Empty
	}
	return t.Format(DateLayout)
}

func DateTime(t time.Time) string {
	if t.IsZero() {
		return Empty
	}
	return t.Format(DateTimeLayout)
}

var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "vừa xong", DivBy: time.Second},
	{D: time.Minute, Format: "%d giây %s", DivBy: time.Second},
	{D: time.Hour, Format: "%d phút %s", DivBy: time.Minute},
	{D: humanize.Day, Format: "%d giờ %s", DivBy: time.Hour},
	{D: humanize.Month, Format: "%d ngày %s", DivBy: humanize.Day},
	{D: humanize.Year, Format: "%d tháng %s", DivBy: humanize.Month},
	{D: humanize.LongTime, Format: "%d năm %s", DivBy: humanize.Year},
}

// Relative describes t relative to now, e.g. "3 ngày trước"
func Relative(t, now time.Time) string {
	if t.IsZero() {
		return Empty
	}
	return humanize.CustomRelTime(t, now, "trước", "nữa", relMagnitudes)
}

// Text returns s or the empty placeholder
func Text(s string) string {
	if strings.TrimSpace(s) == "" {
		return Empty
	}
	return s
}

var orderLabels = map[models.OrderStatus]string{
	models.OrderPending:   "Chờ xử lý",
	models.OrderShipping:  "Đang giao",
	models.OrderDelivered: "Đã giao",
	models.OrderCancelled: "Đã hủy",
}

func OrderStatus(s models.OrderStatus) string {
	if label, ok := orderLabels[s]; ok {
		return label
	}
	return string(s)
}

var paymentLabels = map[models.PaymentStatus]string{
	models.PaymentPaid:    "Thành công",
	models.PaymentPending: "Đang chờ",
	models.PaymentFailed:  "Thất bại",
}

func PaymentStatus(s models.PaymentStatus) string {
	if label, ok := paymentLabels[s]; ok {
		return label
	}
	return string(s)
}

func PaymentMethod(m models.PaymentMethod) string {
	switch m {
	case models.PaymentCOD:
		return "COD"
	case models.PaymentVNPay:
		return "VNPAY"
	case models.PaymentMoMo:
		return "MOMO"
	default:
		return Text(string(m))
	}
}

func UserStatus(s string) string {
	switch s {
	case models.UserActive:
		return "Hoạt động"
	case models.UserBlocked:
		return "Đã khóa"
	default:
		return Text(s)
	}
}

func Role(id int) string {
	switch id {
	case models.RoleAdmin:
		return "Admin"
	case models.RoleUser:
		return "User"
	case models.RoleManager:
		return "Manager"
	default:
		return Empty
	}
}

func ProductStatus(s string) string {
	switch s {
	case models.ProductActive:
		return "Đang bán"
	case models.ProductInactive:
		return "Ngừng bán"
	default:
		return Text(s)
	}
}
