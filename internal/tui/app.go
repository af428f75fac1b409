package tui

import (
	"context"
	"slices"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Cloudsky01/storeadmin/internal/api"
	"github.com/Cloudsky01/storeadmin/internal/config"
	"github.com/Cloudsky01/storeadmin/internal/tui/components"
	"github.com/Cloudsky01/storeadmin/internal/tui/detailpanel"
	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

type App struct {
	config    *config.Config
	statePath string
	noState   bool

	env    *env
	log    *zap.Logger
	theme  *theme.Theme
	cancel context.CancelFunc

	pages       []Page
	active      int
	initialized map[string]bool
	focus       Focus

	sidebar     components.Sidebar
	cmdPalette  components.CmdPalette
	helpOverlay components.HelpOverlay
	toaster     components.Toaster
	spinner     components.Spinner
	statusBar   components.StatusBar
	helpBar     components.HelpBar
	confirm     components.ConfirmModal
	form        components.FormModal
	panelStyles detailpanel.Styles

	width  int
	height int

	refreshInterval    int
	refreshTicker      *time.Ticker
	refreshStop        chan struct{}
	refreshGen         int
	autoRefreshEnabled bool
}

type Options struct {
	Config *config.Config
	Client *api.Client
	Logger *zap.Logger

	StatePath      string
	NoRestoreState bool

	// ChartDir receives exported HTML charts
	ChartDir string
	// StartPage wins over the restored and configured page
	StartPage string

	Now             func() time.Time
	PanelTransition time.Duration
}

func NewApp(opts Options) *App {
	t := theme.Default()

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	transition := opts.PanelTransition
	if transition <= 0 {
		transition = detailpanel.DefaultTransition
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &env{
		ctx:        ctx,
		client:     opts.Client,
		log:        log,
		theme:      t,
		now:        now,
		pageSize:   cfg.UI.PageSize,
		chartDir:   opts.ChartDir,
		transition: transition,
	}

	app := &App{
		config:             cfg,
		statePath:          opts.StatePath,
		noState:            opts.NoRestoreState || opts.StatePath == "",
		env:                e,
		log:                log,
		theme:              t,
		cancel:             cancel,
		initialized:        map[string]bool{},
		focus:              FocusTable,
		sidebar:            components.NewSidebar(t),
		cmdPalette:         components.NewCmdPalette(t),
		helpOverlay:        components.NewHelpOverlay(t),
		toaster:            components.NewToaster(t),
		spinner:            components.NewSpinner(t),
		statusBar:          components.NewStatusBar(t),
		helpBar:            components.NewHelpBar(t),
		confirm:            components.NewConfirmModal(t),
		form:               components.NewFormModal(t),
		panelStyles:        detailpanel.DefaultStyles(t),
		refreshInterval:    cfg.UI.RefreshInterval,
		autoRefreshEnabled: cfg.UI.RefreshInterval > 0,
	}

	app.pages = []Page{
		newOrdersPage(e),
		newProductsPage(e),
		newUsersPage(e),
		newPaymentsPage(e),
		newSensorsPage(e),
	}

	items := make([]components.NavItem, len(app.pages))
	for i, p := range app.pages {
		items[i] = components.NavItem{ID: p.ID(), Title: p.Title(), Icon: p.Icon(), Key: strconv.Itoa(i + 1)}
	}
	app.sidebar.SetItems(items)
	app.sidebar.SetCollapsed(cfg.UI.SidebarCollapsed)
	app.setActive(cfg.UI.StartPage)

	if !app.noState {
		app.restoreState()
	}
	if opts.StartPage != "" {
		app.setActive(opts.StartPage)
	}

	app.setupCommands()
	if opts.Client != nil {
		app.statusBar.SetBackend(opts.Client.BaseURL())
	}
	app.setFocus(FocusTable, false)
	app.updateStatusBar()

	return app
}

func (a *App) page() Page {
	return a.pages[a.active]
}

func (a *App) pageIndex(id string) int {
	return slices.IndexFunc(a.pages, func(p Page) bool { return p.ID() == id })
}

// setActive selects a page without fetching; unknown ids are ignored
func (a *App) setActive(id string) {
	idx := a.pageIndex(id)
	if idx < 0 {
		return
	}
	a.active = idx
	a.sidebar.SetActive(id)
}

// ActivePage returns the id of the shown page
func (a *App) ActivePage() string {
	return a.page().ID()
}

func (a *App) Init() tea.Cmd {
	a.startRefreshTicker()
	return tea.Batch(a.initPage(), a.refreshTickerCmd())
}

// initPage runs the first fetch of the active page once
func (a *App) initPage() tea.Cmd {
	p := a.page()
	if a.initialized[p.ID()] {
		return nil
	}
	a.initialized[p.ID()] = true
	return p.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case tea.KeyMsg:
		model, cmd := a.handleKey(msg)
		a.syncFocus()
		a.updateStatusBar()
		return model, cmd

	case requestStartedMsg:
		cmd := a.spinner.Start(msg.label)
		a.updateStatusBar()
		return a, cmd

	case toastMsg:
		return a, a.showToast(msg)

	case confirmMsg:
		a.confirm.Open(msg.title, msg.message, msg.action)
		return a, nil

	case formMsg:
		return a, a.form.Open(msg.title, msg.form, msg.onSubmit)

	case refreshTickMsg:
		if msg.gen != a.refreshGen || a.refreshTicker == nil {
			return a, nil
		}
		return a, tea.Batch(a.autoRefresh(), a.refreshTickerCmd())

	case ConfigReloadedMsg:
		return a, a.applyConfig(msg.Config)

	case components.ToastExpiredMsg:
		a.toaster.Update(msg)
		return a, nil

	case components.NavSelectedMsg:
		return a, a.switchPage(msg.ID)

	case detailpanel.OpenedMsg:
		for _, p := range a.pages {
			if p.Panels().Update(msg) {
				break
			}
		}
		return a, nil
	}

	var cmds []tea.Cmd
	if _, ok := msg.(requestDone); ok {
		a.spinner.Done()
	}
	if a.form.IsActive() {
		cmds = append(cmds, a.form.Update(msg))
	}
	for _, p := range a.pages {
		cmds = append(cmds, p.Update(msg))
	}
	cmds = append(cmds, a.spinner.Update(msg))

	a.syncFocus()
	a.updateStatusBar()
	return a, tea.Batch(cmds...)
}

func (a *App) showToast(msg toastMsg) tea.Cmd {
	switch msg.level {
	case components.ToastSuccess:
		return a.toaster.Success(msg.text)
	case components.ToastWarning:
		return a.toaster.Warning(msg.text)
	case components.ToastDanger:
		return a.toaster.Danger(msg.text)
	default:
		return a.toaster.Info(msg.text)
	}
}

func (a *App) handleResize(msg tea.WindowSizeMsg) (*App, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	a.cmdPalette.SetSize(a.width, a.height)
	a.helpOverlay.SetSize(a.width, a.height)
	a.confirm.SetSize(a.width, a.height)
	a.form.SetSize(a.width, a.height)
	a.toaster.SetWidth(a.width)
	a.statusBar.SetSize(a.width)
	a.helpBar.SetSize(a.width)

	return a, nil
}

// switchPage shows another page, fetching it on first visit
func (a *App) switchPage(id string) tea.Cmd {
	idx := a.pageIndex(id)
	if idx < 0 || idx == a.active {
		return nil
	}
	a.page().Search().Blur()
	a.setActive(id)
	if a.focus != FocusSidebar {
		a.setFocus(FocusTable, false)
	}
	a.saveState()
	a.updateStatusBar()
	a.log.Debug("page switched", zap.String("page", id))
	return a.initPage()
}

// reload refetches the active page
func (a *App) reload() tea.Cmd {
	p := a.page()
	a.initialized[p.ID()] = true
	return p.Reload()
}

// applyConfig adopts a config that changed on disk
func (a *App) applyConfig(cfg *config.Config) tea.Cmd {
	if cfg == nil {
		return nil
	}
	a.config = cfg

	var cmds []tea.Cmd
	if cfg.UI.PageSize > 0 && cfg.UI.PageSize != a.env.pageSize {
		a.env.pageSize = cfg.UI.PageSize
		for _, p := range a.pages {
			p.SetPageSize(cfg.UI.PageSize)
			if p != a.page() {
				delete(a.initialized, p.ID())
			}
		}
		cmds = append(cmds, a.reload())
	}

	if cfg.UI.RefreshInterval != a.refreshInterval {
		a.refreshInterval = cfg.UI.RefreshInterval
		a.autoRefreshEnabled = a.refreshInterval > 0
		a.stopRefreshTicker()
		a.startRefreshTicker()
		cmds = append(cmds, a.refreshTickerCmd())
	}

	a.updateStatusBar()
	a.log.Info("config reloaded",
		zap.Int("page_size", cfg.UI.PageSize),
		zap.Int("refresh_interval", cfg.UI.RefreshInterval))
	cmds = append(cmds, info("Đã tải lại cấu hình"))
	return tea.Batch(cmds...)
}

// quit stops background work and persists the UI state
func (a *App) quit() (tea.Model, tea.Cmd) {
	a.stopRefreshTicker()
	a.saveState()
	a.cancel()
	return a, tea.Quit
}

// NewProgram wraps the app in a full screen program. The caller may Send
// config reloads to it.
func NewProgram(app *App) *tea.Program {
	return tea.NewProgram(app, tea.WithAltScreen())
}

func RunApp(app *App) error {
	if _, err := NewProgram(app).Run(); err != nil {
		return err
	}
	return nil
}
