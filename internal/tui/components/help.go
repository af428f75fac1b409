package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

type KeyBinding struct {
	Key         string
	Description string
}

type KeySection struct {
	Title    string
	Bindings []KeyBinding
}

type HelpOverlay struct {
	active   bool
	sections []KeySection
	scroll   int
	width    int
	height   int
	theme    *theme.Theme
}

func NewHelpOverlay(t *theme.Theme) HelpOverlay {
	return HelpOverlay{
		theme:    t,
		sections: DefaultKeySections(),
	}
}

func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

func (h *HelpOverlay) IsActive() bool {
	return h.active
}

func (h *HelpOverlay) Toggle() {
	h.active = !h.active
	h.scroll = 0
}

func (h *HelpOverlay) Close() {
	h.active = false
	h.scroll = 0
}

func (h *HelpOverlay) Update(msg tea.Msg) tea.Cmd {
	if !h.active {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			h.Close()
		case "j", "down":
			h.scroll++
		case "k", "up":
			if h.scroll > 0 {
				h.scroll--
			}
		case "g":
			h.scroll = 0
		case "G":
			h.scroll = len(h.lines())
		}
	}
	return nil
}

func (h *HelpOverlay) View() string {
	if !h.active {
		return ""
	}

	width := max(60, h.width*70/100)
	inner := width - 4
	// rows left once the title, footer, padding and borders are drawn
	rows := max(5, max(20, h.height*80/100)-8)

	lines := h.lines()
	from, to := h.window(len(lines), rows)

	footer := "Nhấn ? hoặc esc để đóng"
	if len(lines) > rows {
		footer = fmt.Sprintf("%s · [j/k] cuộn %d-%d/%d", footer, from+1, to, len(lines))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.PlaceHorizontal(inner, lipgloss.Center, h.theme.TitleActive.Render(" Phím tắt ")),
		"",
		strings.Join(lines[from:to], "\n"),
		"",
		h.theme.TextMuted.Render(footer),
	)

	box := h.theme.BorderActive.
		Width(width).
		Render(lipgloss.NewStyle().Width(inner).Padding(1, 2).Render(content))

	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}

// window clamps the scroll offset and returns the visible line range
func (h *HelpOverlay) window(total, rows int) (int, int) {
	h.scroll = min(max(0, h.scroll), max(0, total-rows))
	return h.scroll, min(total, h.scroll+rows)
}

func (h *HelpOverlay) lines() []string {
	var lines []string
	for _, section := range h.sections {
		lines = append(lines, h.theme.Title.Render(section.Title), "")
		for _, binding := range section.Bindings {
			key := h.theme.Selected.Render(padRight(binding.Key, 22))
			lines = append(lines, "  "+key+h.theme.Text.Render(binding.Description))
		}
		lines = append(lines, "")
	}
	return lines
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func DefaultKeySections() []KeySection {
	return []KeySection{
		{
			Title: "Chung",
			Bindings: []KeyBinding{
				{Key: "q / Ctrl+c", Description: "Thoát"},
				{Key: "?", Description: "Bật/tắt trợ giúp"},
				{Key: ":", Description: "Bảng lệnh"},
				{Key: "Tab / Shift+Tab", Description: "Chuyển vùng: tìm kiếm, bảng, panel"},
				{Key: "Ctrl+b", Description: "Thu gọn/mở rộng thanh bên"},
				{Key: "1 .. 5", Description: "Đơn hàng, sản phẩm, người dùng, thanh toán, cảm biến"},
				{Key: "Ctrl+r", Description: "Tải lại dữ liệu"},
				{Key: "Ctrl+t", Description: "Bật/tắt tự động tải lại"},
			},
		},
		{
			Title: "Bảng",
			Bindings: []KeyBinding{
				{Key: "j / ↓", Description: "Xuống"},
				{Key: "k / ↑", Description: "Lên"},
				{Key: "→ / ←", Description: "Trang sau / trang trước"},
				{Key: "Home / End", Description: "Trang đầu / trang cuối"},
				{Key: "Enter", Description: "Mở chi tiết"},
			},
		},
		{
			Title: "Panel chi tiết",
			Bindings: []KeyBinding{
				{Key: "Esc", Description: "Đóng panel cuối"},
				{Key: "x", Description: "Đóng panel đang chọn"},
				{Key: "[ / ]", Description: "Chuyển panel"},
				{Key: "c", Description: "Thu gọn hai panel, trở về danh sách"},
			},
		},
		{
			Title: "Tìm kiếm",
			Bindings: []KeyBinding{
				{Key: "Tab", Description: "Trường kế tiếp"},
				{Key: "← / →", Description: "Đổi lựa chọn"},
				{Key: "Enter", Description: "Tìm"},
				{Key: "Ctrl+u", Description: "Xóa bộ lọc"},
			},
		},
		{
			Title: "Thao tác",
			Bindings: []KeyBinding{
				{Key: "i", Description: "Sản phẩm trong đơn hàng"},
				{Key: "s / d / C", Description: "Giao hàng / đã giao / hủy đơn"},
				{Key: "n / e", Description: "Tạo mới / chỉnh sửa"},
				{Key: "t", Description: "Khóa/mở khóa người dùng"},
				{Key: "Delete", Description: "Xóa bản ghi"},
				{Key: "h", Description: "Xuất biểu đồ HTML"},
			},
		},
		{
			Title: "Bảng lệnh (:)",
			Bindings: []KeyBinding{
				{Key: "Tab", Description: "Tự hoàn thành"},
				{Key: "Enter", Description: "Thực hiện"},
				{Key: "Esc", Description: "Đóng"},
			},
		},
	}
}
