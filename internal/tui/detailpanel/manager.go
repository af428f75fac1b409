// Package detailpanel manages the stack of detail panels shown beside a
// page's master table and derives the layout of both regions from the
// number of open panels.
package detailpanel

import (
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultHeader is used when a panel is opened without a header
const DefaultHeader = "Chi tiết"

// DefaultTransition is the delay before a new panel is marked open
const DefaultTransition = 10 * time.Millisecond

// Content is the caller-supplied header and body of a panel. Both are
// rendered as given.
type Content struct {
	Header string
	Body   string
}

// Panel is one open detail view. Panels are owned by a Manager and are
// compared by identity.
type Panel struct {
	id      string
	content Content
	open    bool
	compact bool
}

func (p *Panel) ID() string { return p.id }
func (p *Panel) Header() string { return p.content.Header }
func (p *Panel) Body() string { return p.content.Body }
func (p *Panel) Content() Content { return p.content }

// IsOpen reports whether the enter transition has completed
func (p *Panel) IsOpen() bool { return p.open }

// Compact reports whether the panel carries the two-panel variant
func (p *Panel) Compact() bool { return p.compact }

// ControlID names an activatable affordance owned by the manager
type ControlID string

// CollapseControl restores the master region and drains all panels.
// It is only bound while exactly two panels are open.
const CollapseControl ControlID = "collapse"

// CloseControl returns the id of the close button of a panel
func CloseControl(p *Panel) ControlID {
	return ControlID("close:" + p.id)
}

// OpenedMsg completes the enter transition of a panel
type OpenedMsg struct {
	ID string
}

// Handlers are callbacks injected at construction
type Handlers struct {
	// OnLayout runs after every layout recompute
	OnLayout func(Layout)
	// OnClose runs after a panel has left the stack
	OnClose func(*Panel)
}

type Option func(*Manager)

func WithHandlers(h Handlers) Option {
	return func(m *Manager) { m.handlers = h }
}

func WithTransition(d time.Duration) Option {
	return func(m *Manager) { m.transition = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithIDFunc overrides how panel identities are generated
func WithIDFunc(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// Manager owns the panel stack of one page
type Manager struct {
	panels     []*Panel
	layout     Layout
	controls   map[ControlID]func()
	handlers   Handlers
	transition time.Duration
	newID      func() string
	focus      int
	log        *zap.Logger
}

func New(opts ...Option) *Manager {
	m := &Manager{
		layout:     Resolve(0),
		controls:   make(map[ControlID]func()),
		transition: DefaultTransition,
		newID:      uuid.NewString,
		focus:      -1,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open appends a new panel, recomputes the layout and returns the panel
// together with the command that completes its enter transition.
func (m *Manager) Open(c Content) (*Panel, tea.Cmd) {
	p := &Panel{id: m.newID(), content: normalize(c)}
	m.panels = append(m.panels, p)
	m.bindClose(p)
	m.resolve()

	m.log.Debug("panel opened", zap.String("panel", p.id), zap.Int("count", len(m.panels)))

	id := p.id
	return p, tea.Tick(m.transition, func(time.Time) tea.Msg {
		return OpenedMsg{ID: id}
	})
}

// SetContent replaces the content of the topmost panel, or opens a panel
// when the stack is empty. Replacing does not recompute the layout.
func (m *Manager) SetContent(c Content) (*Panel, tea.Cmd) {
	top := m.Top()
	if top == nil {
		return m.Open(c)
	}
	top.content = normalize(c)
	m.bindClose(top)
	return top, nil
}

// Replace swaps the content of a panel already on the stack. It reports
// false when p is not open here. The layout is left untouched.
func (m *Manager) Replace(p *Panel, c Content) bool {
	if p == nil || !slices.Contains(m.panels, p) {
		return false
	}
	p.content = normalize(c)
	return true
}

// Close removes p, or the topmost panel when p is nil. Closing an empty
// stack or a panel that is not on it does nothing.
func (m *Manager) Close(p *Panel) {
	if len(m.panels) == 0 {
		return
	}
	if p == nil {
		p = m.panels[len(m.panels)-1]
	}
	idx := slices.Index(m.panels, p)
	if idx < 0 {
		return
	}

	m.panels = slices.Delete(m.panels, idx, idx+1)
	delete(m.controls, CloseControl(p))

	switch {
	case m.focus == idx:
		m.focus = -1
	case m.focus > idx:
		m.focus--
	}

	m.resolve()

	m.log.Debug("panel closed", zap.String("panel", p.id), zap.Int("count", len(m.panels)))

	if m.handlers.OnClose != nil {
		m.handlers.OnClose(p)
	}
}

func (m *Manager) CloseLast() {
	if len(m.panels) == 0 {
		return
	}
	m.Close(m.panels[len(m.panels)-1])
}

// Press activates a control. It reports false when the control is not
// currently bound.
func (m *Manager) Press(id ControlID) bool {
	fn, ok := m.controls[id]
	if !ok {
		return false
	}
	fn()
	return true
}

// HasControl reports whether a control is currently bound
func (m *Manager) HasControl(id ControlID) bool {
	_, ok := m.controls[id]
	return ok
}

// Controls returns the bound control ids in sorted order
func (m *Manager) Controls() []ControlID {
	ids := make([]ControlID, 0, len(m.controls))
	for id := range m.controls {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Update completes enter transitions. It reports whether msg was consumed.
func (m *Manager) Update(msg tea.Msg) bool {
	opened, ok := msg.(OpenedMsg)
	if !ok {
		return false
	}
	for _, p := range m.panels {
		if p.id == opened.ID {
			p.open = true
			return true
		}
	}
	return false
}

func (m *Manager) Len() int { return len(m.panels) }

// Panels returns the stack in left-to-right order
func (m *Manager) Panels() []*Panel { return slices.Clone(m.panels) }

// Top returns the topmost panel or nil
func (m *Manager) Top() *Panel {
	if len(m.panels) == 0 {
		return nil
	}
	return m.panels[len(m.panels)-1]
}

func (m *Manager) Layout() Layout { return m.layout }

func (m *Manager) MasterCollapsed() bool { return m.layout.MasterCollapsed }

// Focused returns the focused panel, falling back to the topmost one
func (m *Manager) Focused() *Panel {
	if m.focus >= 0 && m.focus < len(m.panels) {
		return m.panels[m.focus]
	}
	return m.Top()
}

// FocusNext moves focus one panel to the right, wrapping around
func (m *Manager) FocusNext() {
	if len(m.panels) == 0 {
		return
	}
	current := m.focusIndex()
	m.focus = (current + 1) % len(m.panels)
}

// FocusPrev moves focus one panel to the left, wrapping around
func (m *Manager) FocusPrev() {
	if len(m.panels) == 0 {
		return
	}
	current := m.focusIndex()
	m.focus = (current - 1 + len(m.panels)) % len(m.panels)
}

// CloseFocused presses the close control of the focused panel
func (m *Manager) CloseFocused() bool {
	p := m.Focused()
	if p == nil {
		return false
	}
	return m.Press(CloseControl(p))
}

func (m *Manager) focusIndex() int {
	if m.focus >= 0 && m.focus < len(m.panels) {
		return m.focus
	}
	return len(m.panels) - 1
}

// resolve re-derives the layout from scratch. The collapse control is
// always unbound first and re-bound only in the two-panel mode.
func (m *Manager) resolve() {
	delete(m.controls, CollapseControl)

	m.layout = Resolve(len(m.panels))
	for _, p := range m.panels {
		p.compact = m.layout.CompactPanels
	}

	if m.layout.CollapseControl {
		m.controls[CollapseControl] = m.collapse
	}

	if m.handlers.OnLayout != nil {
		m.handlers.OnLayout(m.layout)
	}
}

func (m *Manager) collapse() {
	m.layout.MasterCollapsed = false
	for len(m.panels) > 0 {
		m.Close(m.panels[0])
	}
	m.resolve()
	m.log.Debug("panels collapsed")
}

func (m *Manager) bindClose(p *Panel) {
	m.controls[CloseControl(p)] = func() { m.Close(p) }
}

func normalize(c Content) Content {
	if strings.TrimSpace(c.Header) == "" {
		c.Header = DefaultHeader
	}
	return c
}
