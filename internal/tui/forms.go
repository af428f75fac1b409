package tui

import (
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/Cloudsky01/storeadmin/internal/format"
	"github.com/Cloudsky01/storeadmin/pkg/models"
)

var (
	errRequired     = errors.New("không được để trống")
	errInvalidPrice = errors.New("giá phải là số lớn hơn 0")
	errInvalidEmail = errors.New("email không hợp lệ")
	errShortPass    = errors.New("mật khẩu tối thiểu 6 ký tự")
)

const minPasswordLength = 6

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errRequired
	}
	return nil
}

var priceCleaner = strings.NewReplacer(".", "", ",", "", " ", "", "₫", "")

// parsePrice reads a dong amount, accepting grouped digits like 1.250.000
func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(priceCleaner.Replace(strings.TrimSpace(s)), 64)
	if err != nil || v <= 0 {
		return 0, errInvalidPrice
	}
	return v, nil
}

// productForm holds the values bound to the product huh form
type productForm struct {
	title       string
	code        string
	brand       string
	price       string
	category    int
	status      string
	description string
}

func newProductForm(p models.Product) *productForm {
	f := &productForm{
		title:       p.Title,
		code:        p.ProductCode,
		brand:       p.Brand,
		category:    p.CategoryID,
		status:      p.Status,
		description: p.Description,
	}
	if p.BasePrice > 0 {
		f.price = strconv.FormatFloat(p.BasePrice, 'f', -1, 64)
	}
	if f.status == "" {
		f.status = models.ProductActive
	}
	return f
}

func (f *productForm) build(categories []models.Category) *huh.Form {
	catOpts := make([]huh.Option[int], 0, len(categories))
	for _, c := range categories {
		catOpts = append(catOpts, huh.NewOption(c.Name, c.CategoryID))
	}
	if len(catOpts) == 0 {
		catOpts = append(catOpts, huh.NewOption(fmt.Sprintf("Danh mục #%d", f.category), f.category))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Tên sản phẩm").Value(&f.title).Validate(required),
			huh.NewInput().Title("Mã sản phẩm").Value(&f.code),
			huh.NewInput().Title("Thương hiệu").Value(&f.brand),
			huh.NewInput().Title("Giá (₫)").Value(&f.price).Validate(func(s string) error {
				_, err := parsePrice(s)
				return err
			}),
		),
		huh.NewGroup(
			huh.NewSelect[int]().Title("Danh mục").Options(catOpts...).Value(&f.category),
			huh.NewSelect[string]().Title("Trạng thái").Options(
				huh.NewOption(format.ProductStatus(models.ProductActive), models.ProductActive),
				huh.NewOption(format.ProductStatus(models.ProductInactive), models.ProductInactive),
			).Value(&f.status),
			huh.NewText().Title("Mô tả").Value(&f.description),
		),
	)
}

func (f *productForm) product() models.Product {
	price, _ := parsePrice(f.price)
	return models.Product{
		CategoryID:  f.category,
		Title:       strings.TrimSpace(f.title),
		ProductCode: strings.TrimSpace(f.code),
		Brand:       strings.TrimSpace(f.brand),
		BasePrice:   price,
		Status:      f.status,
		Description: strings.TrimSpace(f.description),
	}
}

// userForm holds the values bound to the user huh form. The password is
// only required when creating.
type userForm struct {
	create   bool
	username string
	fullName string
	email    string
	phone    string
	role     int
	status   string
	password string
}

func newUserForm(u models.User, create bool) *userForm {
	f := &userForm{
		create:   create,
		username: u.Username,
		fullName: u.FullName,
		email:    u.Email,
		phone:    u.Phone,
		role:     u.RoleID,
		status:   u.Status,
	}
	if f.role == 0 {
		f.role = models.RoleUser
	}
	if f.status == "" {
		f.status = models.UserActive
	}
	return f
}

func validEmail(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return errInvalidEmail
	}
	return nil
}

func (f *userForm) validPassword(s string) error {
	if s == "" && !f.create {
		return nil
	}
	if len(s) < minPasswordLength {
		return errShortPass
	}
	return nil
}

func (f *userForm) build() *huh.Form {
	passTitle := "Mật khẩu"
	if !f.create {
		passTitle = "Mật khẩu mới"
	}
	password := huh.NewInput().
		Title(passTitle).
		EchoMode(huh.EchoModePassword).
		Value(&f.password).
		Validate(f.validPassword)
	if !f.create {
		password = password.Description("Để trống nếu không đổi")
	}

	roles := []int{models.RoleAdmin, models.RoleManager, models.RoleUser}
	roleOpts := make([]huh.Option[int], len(roles))
	for i, r := range roles {
		roleOpts[i] = huh.NewOption(format.Role(r), r)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Tên đăng nhập").Value(&f.username).Validate(required),
			huh.NewInput().Title("Họ tên").Value(&f.fullName).Validate(required),
			huh.NewInput().Title("Email").Value(&f.email).Validate(validEmail),
			huh.NewInput().Title("Điện thoại").Value(&f.phone),
		),
		huh.NewGroup(
			huh.NewSelect[int]().Title("Vai trò").Options(roleOpts...).Value(&f.role),
			huh.NewSelect[string]().Title("Trạng thái").Options(
				huh.NewOption(format.UserStatus(models.UserActive), models.UserActive),
				huh.NewOption(format.UserStatus(models.UserBlocked), models.UserBlocked),
			).Value(&f.status),
			password,
		),
	)
}

func (f *userForm) request() models.UserRequest {
	return models.UserRequest{
		Username: strings.TrimSpace(f.username),
		FullName: strings.TrimSpace(f.fullName),
		Email:    strings.TrimSpace(f.email),
		Phone:    strings.TrimSpace(f.phone),
		RoleID:   f.role,
		Status:   f.status,
		Password: f.password,
	}
}
