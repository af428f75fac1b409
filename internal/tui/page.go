package tui

import (
	"context"
	"maps"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Cloudsky01/storeadmin/internal/api"
	"github.com/Cloudsky01/storeadmin/internal/state"
	"github.com/Cloudsky01/storeadmin/internal/tui/components"
	"github.com/Cloudsky01/storeadmin/internal/tui/detailpanel"
	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
	"github.com/Cloudsky01/storeadmin/pkg/models"
)

// Focus is the region receiving keys
type Focus int

const (
	FocusSidebar Focus = iota
	FocusSearch
	FocusTable
	FocusPanels
)

func (f Focus) String() string {
	switch f {
	case FocusSidebar:
		return "sidebar"
	case FocusSearch:
		return "search"
	case FocusPanels:
		return "panels"
	default:
		return "table"
	}
}

// Page is one resource screen. Each page owns its panels, filters and
// table and talks to the app only through commands and messages.
type Page interface {
	ID() string
	Title() string
	Icon() string

	// Init runs the first fetch; Reload refetches the current view
	Init() tea.Cmd
	Reload() tea.Cmd
	ApplyFilters() tea.Cmd
	GoTo(page int) tea.Cmd

	// Update receives every non-key message
	Update(msg tea.Msg) tea.Cmd
	// HandleKey runs page actions. It reports whether the key was used.
	HandleKey(msg tea.KeyMsg, focus Focus) (tea.Cmd, bool)

	Panels() *detailpanel.Manager
	Search() *components.SearchInput
	Table() *components.DataTable

	// Header is drawn between the search form and the table
	Header(width int) string
	Hints() []string

	Snapshot() state.PageState
	Restore(ps state.PageState)
	SetPageSize(size int)
}

// statsSampleSize caps the records fetched for the users and payments
// statistics strips. Totals always come from the backend's count.
const statsSampleSize = 1000

// env is what every page shares
type env struct {
	ctx        context.Context
	client     *api.Client
	log        *zap.Logger
	theme      *theme.Theme
	now        func() time.Time
	pageSize   int
	chartDir   string
	transition time.Duration
}

type pageBase struct {
	env    *env
	id     string
	title  string
	icon   string
	panels *detailpanel.Manager
	search components.SearchInput
	table  components.DataTable

	filters map[string]string
	page    int
	log     *zap.Logger

	reload func() tea.Cmd
}

func newPageBase(e *env, id, title, icon string, search components.SearchInput, table components.DataTable, handlers detailpanel.Handlers) pageBase {
	log := e.log.Named(id)
	return pageBase{
		env:   e,
		id:    id,
		title: title,
		icon:  icon,
		panels: detailpanel.New(
			detailpanel.WithLogger(log),
			detailpanel.WithTransition(e.transition),
			detailpanel.WithHandlers(handlers),
		),
		search:  search,
		table:   table,
		filters: map[string]string{},
		page:    1,
		log:     log,
	}
}

func (b *pageBase) ID() string                      { return b.id }
func (b *pageBase) Title() string                   { return b.title }
func (b *pageBase) Icon() string                    { return b.icon }
func (b *pageBase) Panels() *detailpanel.Manager    { return b.panels }
func (b *pageBase) Search() *components.SearchInput { return &b.search }
func (b *pageBase) Table() *components.DataTable    { return &b.table }
func (b *pageBase) Header(int) string               { return "" }

func (b *pageBase) Reload() tea.Cmd {
	if b.reload == nil {
		return nil
	}
	return b.reload()
}

// ApplyFilters takes the search form values and goes back to page one
func (b *pageBase) ApplyFilters() tea.Cmd {
	b.filters = b.search.Values()
	b.page = 1
	return b.Reload()
}

func (b *pageBase) GoTo(page int) tea.Cmd {
	if page < 1 {
		page = 1
	}
	b.page = page
	return b.Reload()
}

func (b *pageBase) SetPageSize(int) {
	b.page = 1
}

func (b *pageBase) Snapshot() state.PageState {
	return state.PageState{Filters: maps.Clone(b.filters), Page: b.page}
}

func (b *pageBase) Restore(ps state.PageState) {
	b.filters = maps.Clone(ps.Filters)
	if b.filters == nil {
		b.filters = map[string]string{}
	}
	b.search.SetValues(b.filters)
	b.page = max(1, ps.Page)
}

func (b *pageBase) query() api.Query {
	return api.Query{Filters: b.filters, Page: b.page, Size: b.env.pageSize}
}

// request runs fn off the update loop, announcing it first so the
// spinner can track it
func (b *pageBase) request(label string, fn func(ctx context.Context) tea.Msg) tea.Cmd {
	ctx := b.env.ctx
	return tea.Sequence(
		func() tea.Msg { return requestStartedMsg{label: label} },
		func() tea.Msg { return fn(ctx) },
	)
}

// fail reports err as a danger toast and logs it
func (b *pageBase) fail(action string, err error) tea.Cmd {
	b.log.Warn(action+" failed", zap.Error(err))
	return danger(api.Message(err))
}

func (b *pageBase) details(width int) *components.Details {
	return components.NewDetails(b.env.theme, width)
}

// showPage loads one server page into the table. It steps back when the
// requested page no longer exists, e.g. after deleting the last row.
func showPage[T any](b *pageBase, p models.Page[T], toRow func(T) components.Row) tea.Cmd {
	totalPages := p.TotalPages
	if totalPages <= 0 {
		totalPages = p.Pages()
	}
	if len(p.Content) == 0 && b.page > 1 && b.page > totalPages {
		return b.GoTo(totalPages)
	}
	rows := make([]components.Row, len(p.Content))
	for i, item := range p.Content {
		rows[i] = toRow(item)
	}
	page := p.PageNumber
	if page <= 0 {
		page = b.page
	}
	b.table.SetPage(rows, page, totalPages, int(p.TotalElements))
	return nil
}
