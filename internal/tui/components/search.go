package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Cloudsky01/storeadmin/internal/tui/theme"
)

// FieldKind tags the variants a search form can hold
type FieldKind int

const (
	KindText FieldKind = iota
	KindSelect
	KindRadio
)

func (k FieldKind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindRadio:
		return "radio"
	default:
		return "text"
	}
}

// Option is one choice of a select or radio field. An empty Value means
// "no filter".
type Option struct {
	Label string
	Value string
}

// Field is one entry of the search registry. Each variant owns its value
// getter and setter.
type Field interface {
	ID() string
	Label() string
	Kind() FieldKind
	Value() string
	SetValue(v string)
	Reset()
	Focus() tea.Cmd
	Blur()
	Update(msg tea.KeyMsg) tea.Cmd
	View(t *theme.Theme, focused bool) string
}

// TextField is a free text filter backed by a textinput
type TextField struct {
	id    string
	label string
	input textinput.Model
}

func NewTextField(id, label, placeholder string) *TextField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.CharLimit = 128
	in.Width = 18
	return &TextField{id: id, label: label, input: in}
}

func (f *TextField) ID() string        { return f.id }
func (f *TextField) Label() string     { return f.label }
func (f *TextField) Kind() FieldKind   { return KindText }
func (f *TextField) Value() string     { return strings.TrimSpace(f.input.Value()) }
func (f *TextField) SetValue(v string) { f.input.SetValue(v) }
func (f *TextField) Reset()            { f.input.SetValue("") }
func (f *TextField) Focus() tea.Cmd    { return f.input.Focus() }
func (f *TextField) Blur()             { f.input.Blur() }

func (f *TextField) Update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *TextField) View(t *theme.Theme, focused bool) string {
	style := t.FilterInput
	if focused {
		style = style.Foreground(t.Colors.Primary)
	}
	return fieldLabel(t, f.label, focused) + style.Render(f.input.View())
}

// SelectField cycles through options with left/right. Typing jumps to the
// best fuzzy match among the option labels.
type SelectField struct {
	id       string
	label    string
	options  []Option
	selected int
	query    string
}

// NewSelectField builds a select whose first option is "all"
func NewSelectField(id, label string, options ...Option) *SelectField {
	opts := append([]Option{{Label: "Tất cả"}}, options...)
	return &SelectField{id: id, label: label, options: opts}
}

func (f *SelectField) ID() string      { return f.id }
func (f *SelectField) Label() string   { return f.label }
func (f *SelectField) Kind() FieldKind { return KindSelect }
func (f *SelectField) Value() string   { return f.options[f.selected].Value }
func (f *SelectField) Focus() tea.Cmd  { return nil }
func (f *SelectField) Blur()           { f.query = "" }

func (f *SelectField) Reset() {
	f.selected = 0
	f.query = ""
}

// SetValue selects the option carrying v; unknown values reset the field
func (f *SelectField) SetValue(v string) {
	f.selected = optionIndex(f.options, v)
}

// SetOptions replaces the choices, keeping the current value when possible
func (f *SelectField) SetOptions(options ...Option) {
	current := f.Value()
	f.options = append([]Option{{Label: "Tất cả"}}, options...)
	f.selected = optionIndex(f.options, current)
}

func (f *SelectField) Options() []Option { return f.options }

func (f *SelectField) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left":
		f.selected = (f.selected - 1 + len(f.options)) % len(f.options)
		f.query = ""
	case "right":
		f.selected = (f.selected + 1) % len(f.options)
		f.query = ""
	case "backspace":
		if runes := []rune(f.query); len(runes) > 0 {
			f.query = string(runes[:len(runes)-1])
			f.match()
		}
	default:
		if msg.Type == tea.KeyRunes {
			f.query += string(msg.Runes)
			f.match()
		}
	}
	return nil
}

func (f *SelectField) match() {
	if f.query == "" {
		return
	}
	matches := fuzzy.FindFrom(f.query, optionSource(f.options))
	if len(matches) > 0 {
		f.selected = matches[0].Index
	}
}

func (f *SelectField) View(t *theme.Theme, focused bool) string {
	label := f.options[f.selected].Label
	if focused {
		return fieldLabel(t, f.label, true) + t.Selected.Render("‹ "+label+" ›")
	}
	return fieldLabel(t, f.label, false) + t.Text.Render(label)
}

// RadioGroup shows every option inline and marks the selected one
type RadioGroup struct {
	SelectField
}

func NewRadioGroup(id, label string, options ...Option) *RadioGroup {
	return &RadioGroup{SelectField: *NewSelectField(id, label, options...)}
}

func (f *RadioGroup) Kind() FieldKind { return KindRadio }

func (f *RadioGroup) View(t *theme.Theme, focused bool) string {
	parts := make([]string, len(f.options))
	for i, opt := range f.options {
		mark := "○ "
		style := t.TextDim
		if i == f.selected {
			mark = "● "
			style = t.Text
			if focused {
				style = t.Selected
			}
		}
		parts[i] = style.Render(mark + opt.Label)
	}
	return fieldLabel(t, f.label, focused) + strings.Join(parts, " ")
}

func fieldLabel(t *theme.Theme, label string, focused bool) string {
	style := t.TextDim
	if focused {
		style = t.FilterPrompt
	}
	return style.Render(label + ": ")
}

func optionIndex(options []Option, v string) int {
	for i, opt := range options {
		if opt.Value == v {
			return i
		}
	}
	return 0
}

type optionSource []Option

func (o optionSource) String(i int) string { return o[i].Label }
func (o optionSource) Len() int            { return len(o) }

// SearchEvent tells the caller what a key did to the search form
type SearchEvent int

const (
	SearchNone SearchEvent = iota
	SearchSubmit
	SearchCleared
	SearchLeave
)

// SearchInput is a registry of typed filter fields keyed by id
type SearchInput struct {
	fields  []Field
	byID    map[string]Field
	focus   int
	focused bool
	width   int
	theme   *theme.Theme
}

func NewSearchInput(t *theme.Theme, fields ...Field) SearchInput {
	s := SearchInput{
		byID:  make(map[string]Field, len(fields)),
		theme: t,
	}
	for _, f := range fields {
		s.fields = append(s.fields, f)
		s.byID[f.ID()] = f
	}
	return s
}

func (s *SearchInput) SetWidth(width int) {
	s.width = width
}

func (s *SearchInput) Fields() []Field {
	return s.fields
}

// Field returns the field registered under id
func (s *SearchInput) Field(id string) (Field, bool) {
	f, ok := s.byID[id]
	return f, ok
}

// Values collects every non-empty field value
func (s *SearchInput) Values() map[string]string {
	values := make(map[string]string)
	for _, f := range s.fields {
		if v := f.Value(); v != "" {
			values[f.ID()] = v
		}
	}
	return values
}

// SetValue sets one field and reports whether the id is registered
func (s *SearchInput) SetValue(id, v string) bool {
	f, ok := s.byID[id]
	if !ok {
		return false
	}
	f.SetValue(v)
	return true
}

// SetValues restores a set of values; fields not named are reset
func (s *SearchInput) SetValues(values map[string]string) {
	for _, f := range s.fields {
		f.Reset()
		if v, ok := values[f.ID()]; ok {
			f.SetValue(v)
		}
	}
}

func (s *SearchInput) Reset() {
	for _, f := range s.fields {
		f.Reset()
	}
}

func (s *SearchInput) Focused() bool {
	return s.focused
}

// FocusedField returns the field holding the cursor
func (s *SearchInput) FocusedField() Field {
	if len(s.fields) == 0 {
		return nil
	}
	return s.fields[s.focus]
}

// Focus moves focus into the form, on the first field or the last one
// when coming back from below
func (s *SearchInput) Focus(last bool) tea.Cmd {
	if len(s.fields) == 0 {
		return nil
	}
	s.focused = true
	s.focus = 0
	if last {
		s.focus = len(s.fields) - 1
	}
	return s.fields[s.focus].Focus()
}

func (s *SearchInput) Blur() {
	s.focused = false
	for _, f := range s.fields {
		f.Blur()
	}
}

func (s *SearchInput) move(delta int) (tea.Cmd, bool) {
	next := s.focus + delta
	if next < 0 || next >= len(s.fields) {
		return nil, false
	}
	s.fields[s.focus].Blur()
	s.focus = next
	return s.fields[s.focus].Focus(), true
}

// Update routes a key to the focused field. tab and shift+tab move between
// fields and leave the form past either end.
func (s *SearchInput) Update(msg tea.Msg) (SearchEvent, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !s.focused || len(s.fields) == 0 {
		return SearchNone, nil
	}

	switch key.String() {
	case "enter":
		return SearchSubmit, nil
	case "ctrl+u":
		s.Reset()
		return SearchCleared, nil
	case "esc":
		s.Blur()
		return SearchLeave, nil
	case "tab", "down":
		if cmd, moved := s.move(1); moved {
			return SearchNone, cmd
		}
		s.Blur()
		return SearchLeave, nil
	case "shift+tab", "up":
		cmd, _ := s.move(-1)
		return SearchNone, cmd
	}

	return SearchNone, s.fields[s.focus].Update(key)
}

func (s *SearchInput) View() string {
	parts := make([]string, 0, len(s.fields))
	for i, f := range s.fields {
		parts = append(parts, f.View(s.theme, s.focused && i == s.focus))
	}
	icon := s.theme.FilterPrompt.Render(s.theme.Icons.Search + " ")
	row := icon + strings.Join(parts, "   ")
	if s.width > 0 {
		return lipgloss.NewStyle().Width(s.width).MaxWidth(s.width).Render(row)
	}
	return row
}
