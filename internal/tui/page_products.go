package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cloudsky01/storeadmin/internal/format"
	"github.com/Cloudsky01/storeadmin/internal/tui/components"
	"github.com/Cloudsky01/storeadmin/internal/tui/detailpanel"
	"github.com/Cloudsky01/storeadmin/pkg/models"
)

type (
	productsLoadedMsg struct {
		finished
		page models.Page[models.Product]
		err  error
	}
	categoriesLoadedMsg struct {
		finished
		categories []models.Category
		err        error
	}
	productLoadedMsg struct {
		finished
		product models.Product
		err     error
	}
	productSavedMsg struct {
		finished
		product models.Product
		created bool
		err     error
	}
	productDeletedMsg struct {
		finished
		id  int
		err error
	}
)

// productsPage shows one product at a time in its detail panel
type productsPage struct {
	pageBase
	rows       []models.Product
	categories []models.Category

	// shown is the product in the panel, as last loaded
	shown   int
	current models.Product
}

func newProductsPage(e *env) *productsPage {
	t := e.theme
	search := components.NewSearchInput(t,
		components.NewTextField("title", "Tên", "tên sản phẩm"),
		components.NewSelectField("categoryId", "Danh mục"),
		components.NewSelectField("status", "Trạng thái",
			components.Option{Label: format.ProductStatus(models.ProductActive), Value: models.ProductActive},
			components.Option{Label: format.ProductStatus(models.ProductInactive), Value: models.ProductInactive},
		),
	)
	table := components.NewDataTable(t, []components.Column{
		{Key: "code", Title: "Mã", Width: 9},
		{Key: "title", Title: "Tên sản phẩm", Flex: 3},
		{Key: "brand", Title: "Thương hiệu", Width: 12},
		{Key: "category", Title: "Danh mục", Flex: 1},
		{Key: "price", Title: "Giá", Width: 14},
		{Key: "status", Title: "Trạng thái", Width: 14},
	}, "e del")

	p := &productsPage{}
	p.pageBase = newPageBase(e, "products", "Sản phẩm", t.Icons.Products, search, table, detailpanel.Handlers{
		OnClose: func(*detailpanel.Panel) {
			p.shown = 0
			p.current = models.Product{}
		},
	})
	p.reload = p.load
	return p
}

func (p *productsPage) Init() tea.Cmd {
	return tea.Batch(p.loadCategories(), p.load())
}

func (p *productsPage) load() tea.Cmd {
	q := p.query()
	client := p.env.client
	p.table.SetLoading(true)
	return p.request("Đang tải sản phẩm", func(ctx context.Context) tea.Msg {
		page, err := client.ListProducts(ctx, q)
		return productsLoadedMsg{page: page, err: err}
	})
}

func (p *productsPage) loadCategories() tea.Cmd {
	client := p.env.client
	return p.request("Đang tải danh mục", func(ctx context.Context) tea.Msg {
		categories, err := client.ListCategories(ctx)
		return categoriesLoadedMsg{categories: categories, err: err}
	})
}

func (p *productsPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		p.table.SetLoading(false)
		if msg.err != nil {
			p.table.SetError(msg.err)
			return p.fail("list products", msg.err)
		}
		p.table.SetError(nil)
		p.rows = msg.page.Content
		return showPage(&p.pageBase, msg.page, p.row)

	case categoriesLoadedMsg:
		if msg.err != nil {
			return p.fail("list categories", msg.err)
		}
		p.categories = msg.categories
		p.setCategoryOptions()
		if len(p.rows) > 0 {
			rows := make([]components.Row, len(p.rows))
			for i, r := range p.rows {
				rows[i] = p.row(r)
			}
			p.table.SetPage(rows, p.table.Page(), p.table.TotalPages(), p.table.TotalElements())
		}

	case productLoadedMsg:
		if msg.err != nil {
			return p.fail("get product", msg.err)
		}
		return p.show(msg.product)

	case productSavedMsg:
		if msg.err != nil {
			return p.fail("save product", msg.err)
		}
		text := "Cập nhật sản phẩm thành công"
		if msg.created {
			text = "Thêm sản phẩm thành công"
		}
		var cmd tea.Cmd
		if p.shown == msg.product.ProductID {
			cmd = p.show(msg.product)
		}
		return tea.Batch(success(text), cmd, p.load())

	case productDeletedMsg:
		if msg.err != nil {
			return p.fail("delete product", msg.err)
		}
		if p.shown == msg.id {
			p.panels.CloseLast()
		}
		return tea.Batch(success("Xóa thành công"), p.load())
	}
	return nil
}

// setCategoryOptions fills the category filter once categories arrive,
// keeping a restored selection
func (p *productsPage) setCategoryOptions() {
	field, ok := p.search.Field("categoryId")
	if !ok {
		return
	}
	sel, ok := field.(*components.SelectField)
	if !ok {
		return
	}
	current := sel.Value()
	opts := make([]components.Option, len(p.categories))
	for i, c := range p.categories {
		opts[i] = components.Option{Label: c.Name, Value: strconv.Itoa(c.CategoryID)}
	}
	sel.SetOptions(opts...)
	if v, ok := p.filters["categoryId"]; ok {
		current = v
	}
	sel.SetValue(current)
}

func (p *productsPage) categoryName(id int) string {
	i := slices.IndexFunc(p.categories, func(c models.Category) bool { return c.CategoryID == id })
	if i < 0 {
		return fmt.Sprintf("#%d", id)
	}
	return p.categories[i].Name
}

func (p *productsPage) row(pr models.Product) components.Row {
	t := p.env.theme
	return components.Row{
		ID: pr.ProductID,
		Cells: map[string]any{
			"code":     dimCell(t, pr.ProductCode),
			"title":    format.Text(pr.Title),
			"brand":    format.Text(pr.Brand),
			"category": p.categoryName(pr.CategoryID),
			"price":    moneyCell(t, pr.BasePrice),
			"status":   statusCell(t, pr.Status, format.ProductStatus(pr.Status)),
		},
	}
}

// show replaces whatever product is open; the page never stacks panels
func (p *productsPage) show(pr models.Product) tea.Cmd {
	p.shown = pr.ProductID
	p.current = pr
	_, cmd := p.panels.SetContent(detailpanel.Content{
		Header: format.Text(pr.Title),
		Body:   p.body(pr),
	})
	return cmd
}

func (p *productsPage) body(pr models.Product) string {
	t := p.env.theme
	return p.details(0).
		Section("Thông tin").
		Row("Mã sản phẩm", pr.ProductCode).
		Row("Thương hiệu", pr.Brand).
		Row("Danh mục", p.categoryName(pr.CategoryID)).
		Styled("Giá", t.Money.Render(format.Currency(pr.BasePrice))).
		Styled("Trạng thái", t.Badge(pr.Status, format.ProductStatus(pr.Status))).
		Row("Ngày tạo", format.Date(pr.CreateAt.Time)).
		Row("Đường dẫn", pr.URL).
		Section("Mô tả").
		Line(format.Text(pr.Description)).
		Hint("[e] sửa  [del] xóa").
		String()
}

func (p *productsPage) selected() (models.Product, bool) {
	id, ok := p.table.SelectedID()
	if !ok {
		return models.Product{}, false
	}
	i := slices.IndexFunc(p.rows, func(pr models.Product) bool { return pr.ProductID == id })
	if i < 0 {
		return models.Product{}, false
	}
	return p.rows[i], true
}

// target is the product in the panel when it has focus, else the row.
// A focused panel never resolves to the row, which may be another product.
func (p *productsPage) target(focus Focus) (models.Product, bool) {
	if focus == FocusPanels {
		return p.current, p.shown != 0
	}
	return p.selected()
}

func (p *productsPage) HandleKey(msg tea.KeyMsg, focus Focus) (tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		if focus != FocusTable {
			return nil, false
		}
		id, ok := p.table.SelectedID()
		if !ok {
			return nil, true
		}
		client := p.env.client
		return p.request("Đang tải sản phẩm", func(ctx context.Context) tea.Msg {
			pr, err := client.GetProduct(ctx, id)
			return productLoadedMsg{product: pr, err: err}
		}), true

	case "n":
		return p.edit(models.Product{CategoryID: p.defaultCategory()}, true), true

	case "e":
		pr, ok := p.target(focus)
		if !ok {
			return warning("Chưa chọn sản phẩm"), true
		}
		return p.edit(pr, false), true

	case "delete", "backspace":
		pr, ok := p.target(focus)
		if !ok {
			return warning("Chưa chọn sản phẩm"), true
		}
		client := p.env.client
		id := pr.ProductID
		message := fmt.Sprintf("Xóa sản phẩm %s \"%s\"? %s", pr.ProductCode, format.Text(pr.Title), components.DefaultConfirmMessage)
		return confirm("Xóa sản phẩm", message, func() tea.Cmd {
			return p.request("Đang xóa sản phẩm", func(ctx context.Context) tea.Msg {
				return productDeletedMsg{id: id, err: client.DeleteProduct(ctx, id)}
			})
		}), true
	}
	return nil, false
}

func (p *productsPage) defaultCategory() int {
	if len(p.categories) == 0 {
		return 1
	}
	return p.categories[0].CategoryID
}

func (p *productsPage) edit(pr models.Product, create bool) tea.Cmd {
	f := newProductForm(pr)
	title := "Sửa sản phẩm"
	if create {
		title = "Thêm sản phẩm"
	}
	client := p.env.client
	id := pr.ProductID
	return openForm(title, f.build(p.categories), func() tea.Cmd {
		body := f.product()
		return p.request("Đang lưu sản phẩm", func(ctx context.Context) tea.Msg {
			var (
				saved models.Product
				err   error
			)
			if create {
				saved, err = client.CreateProduct(ctx, body)
			} else {
				saved, err = client.UpdateProduct(ctx, id, body)
			}
			return productSavedMsg{product: saved, created: create, err: err}
		})
	})
}

func (p *productsPage) Hints() []string {
	return []string{"[n] thêm", "[e] sửa", "[del] xóa"}
}
