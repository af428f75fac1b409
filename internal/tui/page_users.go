package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
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
	usersLoadedMsg struct {
		finished
		page models.Page[models.User]
		err  error
	}
	userStatsMsg struct {
		finished
		page models.Page[models.User]
		err  error
	}
	userLoadedMsg struct {
		finished
		user models.User
		err  error
	}
	userSavedMsg struct {
		finished
		user    models.User
		created bool
		err     error
	}
	userToggledMsg struct {
		finished
		user models.User
		err  error
	}
	userDeletedMsg struct {
		finished
		id  int
		err error
	}
)

// userStats summarises the account list
type userStats struct {
	Total        int
	Active       int
	Blocked      int
	NewThisMonth int
}

type usersPage struct {
	pageBase
	rows     []models.User
	stats    userStats
	hasStats bool
	shown    int
	current  models.User
}

func newUsersPage(e *env) *usersPage {
	t := e.theme
	roles := []int{models.RoleAdmin, models.RoleManager, models.RoleUser}
	roleOpts := make([]components.Option, len(roles))
	for i, r := range roles {
		roleOpts[i] = components.Option{Label: format.Role(r), Value: strconv.Itoa(r)}
	}
	search := components.NewSearchInput(t,
		components.NewTextField("username", "Tài khoản", "tên đăng nhập"),
		components.NewSelectField("roleId", "Vai trò", roleOpts...),
		components.NewSelectField("status", "Trạng thái",
			components.Option{Label: format.UserStatus(models.UserActive), Value: models.UserActive},
			components.Option{Label: format.UserStatus(models.UserBlocked), Value: models.UserBlocked},
		),
	)
	table := components.NewDataTable(t, []components.Column{
		{Key: "userId", Title: "ID", Width: 6},
		{Key: "username", Title: "Tài khoản", Width: 14},
		{Key: "fullName", Title: "Họ tên", Flex: 2},
		{Key: "email", Title: "Email", Flex: 2},
		{Key: "role", Title: "Vai trò", Width: 12},
		{Key: "status", Title: "Trạng thái", Width: 14},
	}, "e t del")

	p := &usersPage{}
	p.pageBase = newPageBase(e, "users", "Người dùng", t.Icons.Users, search, table, detailpanel.Handlers{
		OnClose: func(*detailpanel.Panel) {
			p.shown = 0
			p.current = models.User{}
		},
	})
	p.reload = p.load
	return p
}

func (p *usersPage) Init() tea.Cmd { return p.load() }

func (p *usersPage) load() tea.Cmd {
	q := p.query()
	client := p.env.client
	p.table.SetLoading(true)
	return tea.Batch(
		p.request("Đang tải người dùng", func(ctx context.Context) tea.Msg {
			page, err := client.ListUsers(ctx, q)
			return usersLoadedMsg{page: page, err: err}
		}),
		p.request("Đang tải thống kê", func(ctx context.Context) tea.Msg {
			page, err := client.ListUsers(ctx, api.Query{Page: 1, Size: statsSampleSize})
			return userStatsMsg{page: page, err: err}
		}),
	)
}

func (p *usersPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		p.table.SetLoading(false)
		if msg.err != nil {
			p.table.SetError(msg.err)
			return p.fail("list users", msg.err)
		}
		p.table.SetError(nil)
		p.rows = msg.page.Content
		return showPage(&p.pageBase, msg.page, p.row)

	case userStatsMsg:
		if msg.err != nil {
			p.log.Warn("user statistics failed")
			return nil
		}
		p.stats = p.summarise(msg.page)
		p.hasStats = true

	case userLoadedMsg:
		if msg.err != nil {
			return p.fail("get user", msg.err)
		}
		return p.show(msg.user)

	case userSavedMsg:
		if msg.err != nil {
			return p.fail("save user", msg.err)
		}
		text := "Cập nhật người dùng thành công"
		if msg.created {
			text = "Thêm người dùng thành công"
		}
		return tea.Batch(success(text), p.refreshShown(msg.user), p.load())

	case userToggledMsg:
		if msg.err != nil {
			return p.fail("toggle user", msg.err)
		}
		text := "Đã mở khóa " + msg.user.Username
		if msg.user.Status == models.UserBlocked {
			text = "Đã khóa " + msg.user.Username
		}
		return tea.Batch(success(text), p.refreshShown(msg.user), p.load())

	case userDeletedMsg:
		if msg.err != nil {
			return p.fail("delete user", msg.err)
		}
		if p.shown == msg.id {
			p.panels.CloseLast()
		}
		return tea.Batch(success("Xóa thành công"), p.load())
	}
	return nil
}

// summarise counts statuses and new accounts over the sampled page.
// Total is the backend's count, not the sample size.
func (p *usersPage) summarise(page models.Page[models.User]) userStats {
	now := p.env.now()
	s := userStats{Total: int(page.TotalElements)}
	if s.Total < len(page.Content) {
		s.Total = len(page.Content)
	}
	for _, u := range page.Content {
		switch u.Status {
		case models.UserActive:
			s.Active++
		case models.UserBlocked:
			s.Blocked++
		}
		created := u.CreatedAt.Time
		if created.Year() == now.Year() && created.Month() == now.Month() {
			s.NewThisMonth++
		}
	}
	return s
}

func (p *usersPage) row(u models.User) components.Row {
	t := p.env.theme
	return components.Row{
		ID: u.UserID,
		Cells: map[string]any{
			"userId":   strconv.Itoa(u.UserID),
			"username": format.Text(u.Username),
			"fullName": format.Text(u.FullName),
			"email":    dimCell(t, u.Email),
			"role":     format.Role(u.RoleID),
			"status":   statusCell(t, u.Status, format.UserStatus(u.Status)),
		},
	}
}

func (p *usersPage) refreshShown(u models.User) tea.Cmd {
	if p.shown != u.UserID {
		return nil
	}
	return p.show(u)
}

func (p *usersPage) show(u models.User) tea.Cmd {
	p.shown = u.UserID
	p.current = u
	_, cmd := p.panels.SetContent(detailpanel.Content{
		Header: format.Text(u.FullName),
		Body:   p.body(u),
	})
	return cmd
}

func (p *usersPage) body(u models.User) string {
	t := p.env.theme
	toggle := "[t] khóa"
	if u.Status == models.UserBlocked {
		toggle = "[t] mở khóa"
	}
	return p.details(0).
		Section("Tài khoản").
		Row("Tên đăng nhập", u.Username).
		Row("Vai trò", format.Role(u.RoleID)).
		Styled("Trạng thái", t.Badge(u.Status, format.UserStatus(u.Status))).
		Row("Ngày tạo", format.Date(u.CreatedAt.Time)+" ("+format.Relative(u.CreatedAt.Time, p.env.now())+")").
		Section("Liên hệ").
		Row("Email", u.Email).
		Row("Điện thoại", u.Phone).
		Hint("[e] sửa  " + toggle + "  [del] xóa").
		String()
}

// target is the user in the panel when it has focus, else the row
func (p *usersPage) target(focus Focus) (models.User, bool) {
	if focus == FocusPanels {
		return p.current, p.shown != 0
	}
	id, ok := p.table.SelectedID()
	if !ok {
		return models.User{}, false
	}
	i := slices.IndexFunc(p.rows, func(u models.User) bool { return u.UserID == id })
	if i < 0 {
		return models.User{}, false
	}
	return p.rows[i], true
}

func (p *usersPage) HandleKey(msg tea.KeyMsg, focus Focus) (tea.Cmd, bool) {
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
		return p.request("Đang tải người dùng", func(ctx context.Context) tea.Msg {
			u, err := client.GetUser(ctx, id)
			return userLoadedMsg{user: u, err: err}
		}), true

	case "n":
		return p.edit(models.User{}, true), true

	case "e":
		u, ok := p.target(focus)
		if !ok {
			return warning("Chưa chọn người dùng"), true
		}
		return p.edit(u, false), true

	case "t":
		u, ok := p.target(focus)
		if !ok {
			return warning("Chưa chọn người dùng"), true
		}
		id := u.UserID
		return p.request("Đang cập nhật người dùng", func(ctx context.Context) tea.Msg {
			updated, err := client.ToggleUserStatus(ctx, id)
			return userToggledMsg{user: updated, err: err}
		}), true

	case "delete", "backspace":
		u, ok := p.target(focus)
		if !ok {
			return warning("Chưa chọn người dùng"), true
		}
		id := u.UserID
		message := fmt.Sprintf("Xóa tài khoản \"%s\"? %s", u.Username, components.DefaultConfirmMessage)
		return confirm("Xóa người dùng", message, func() tea.Cmd {
			return p.request("Đang xóa người dùng", func(ctx context.Context) tea.Msg {
				return userDeletedMsg{id: id, err: client.DeleteUser(ctx, id)}
			})
		}), true
	}
	return nil, false
}

func (p *usersPage) edit(u models.User, create bool) tea.Cmd {
	f := newUserForm(u, create)
	title := "Sửa người dùng"
	if create {
		title = "Thêm người dùng"
	}
	client := p.env.client
	id := u.UserID
	return openForm(title, f.build(), func() tea.Cmd {
		req := f.request()
		return p.request("Đang lưu người dùng", func(ctx context.Context) tea.Msg {
			var (
				saved models.User
				err   error
			)
			if create {
				saved, err = client.CreateUser(ctx, req)
			} else {
				saved, err = client.UpdateUser(ctx, id, req)
			}
			return userSavedMsg{user: saved, created: create, err: err}
		})
	})
}

func (p *usersPage) Header(width int) string {
	if !p.hasStats {
		return ""
	}
	t := p.env.theme
	s := p.stats
	parts := []string{
		t.Text.Bold(true).Render(fmt.Sprintf("Tổng %d", s.Total)),
		t.Badge(models.UserActive, fmt.Sprintf("Hoạt động %d", s.Active)),
		t.Badge(models.UserBlocked, fmt.Sprintf("Đã khóa %d", s.Blocked)),
		t.StatusInfo.Render(fmt.Sprintf("Mới tháng này %d", s.NewThisMonth)),
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, t.TextMuted.Render(" · ")))
}

func (p *usersPage) Hints() []string {
	return []string{"[n] thêm", "[e] sửa", "[t] khóa/mở", "[del] xóa"}
}
