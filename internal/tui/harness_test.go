package tui

import (
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/Cloudsky01/storeadmin/internal/api"
	"github.com/Cloudsky01/storeadmin/internal/config"
	"github.com/Cloudsky01/storeadmin/internal/sandbox"
	"github.com/Cloudsky01/storeadmin/internal/tui/components"
)

var seedTime = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)

// cmdTimeout bounds one command; timer commands such as toast expiry
// outlive it and are dropped
const cmdTimeout = 150 * time.Millisecond

type testOptions struct {
	statePath string
	chartDir  string
	baseURL   string
	pageSize  int
}

func newTestClient(t *testing.T) *api.Client {
	t.Helper()
	srv := sandbox.New(sandbox.Seeded(seedTime), sandbox.WithClock(func() time.Time { return seedTime }))
	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(ts.Close)

	c, err := api.New(ts.URL, api.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return c
}

func newTestApp(t *testing.T, o testOptions) *App {
	t.Helper()

	var client *api.Client
	if o.baseURL != "" {
		c, err := api.New(o.baseURL, api.WithTimeout(time.Second))
		if err != nil {
			t.Fatalf("api.New: %v", err)
		}
		client = c
	} else {
		client = newTestClient(t)
	}

	cfg := config.Default()
	cfg.UI.PageSize = 10
	if o.pageSize > 0 {
		cfg.UI.PageSize = o.pageSize
	}
	cfg.UI.RefreshInterval = 0

	chartDir := o.chartDir
	if chartDir == "" {
		chartDir = t.TempDir()
	}

	app := NewApp(Options{
		Config:          cfg,
		Client:          client,
		StatePath:       o.statePath,
		ChartDir:        chartDir,
		Now:             func() time.Time { return seedTime },
		PanelTransition: time.Millisecond,
	})
	app.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	return app
}

// start runs Init and every command it produces
func start(t *testing.T, app *App) {
	t.Helper()
	run(t, app, app.Init())
}

var cmdSliceType = reflect.TypeOf(tea.BatchMsg{})

// expand unpacks batch and sequence messages into their commands
func expand(msg tea.Msg) ([]tea.Cmd, bool) {
	v := reflect.ValueOf(msg)
	if !v.IsValid() || v.Kind() != reflect.Slice || !v.Type().ConvertibleTo(cmdSliceType) {
		return nil, false
	}
	return v.Convert(cmdSliceType).Interface().(tea.BatchMsg), true
}

func execCmd(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

// run feeds cmd and everything it triggers through the app until the
// queue is empty. Sequences keep their order.
func run(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("commands did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := execCmd(c)
		if !ok || msg == nil {
			continue
		}
		if cmds, ok := expand(msg); ok {
			queue = append(cmds, queue...)
			continue
		}
		switch msg.(type) {
		case spinner.TickMsg, components.ToastExpiredMsg:
			continue
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		_, next := app.Update(msg)
		queue = append(queue, next)
	}
}

func keyMsg(k string) tea.KeyMsg {
	special := map[string]tea.KeyType{
		"enter":     tea.KeyEnter,
		"esc":       tea.KeyEsc,
		"tab":       tea.KeyTab,
		"shift+tab": tea.KeyShiftTab,
		"up":        tea.KeyUp,
		"down":      tea.KeyDown,
		"left":      tea.KeyLeft,
		"right":     tea.KeyRight,
		"home":      tea.KeyHome,
		"end":       tea.KeyEnd,
		"delete":    tea.KeyDelete,
		"ctrl+b":    tea.KeyCtrlB,
		"ctrl+c":    tea.KeyCtrlC,
		"ctrl+r":    tea.KeyCtrlR,
		"ctrl+t":    tea.KeyCtrlT,
		"ctrl+u":    tea.KeyCtrlU,
	}
	if kt, ok := special[k]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys one by one and runs what each produces
func press(t *testing.T, app *App, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := app.Update(keyMsg(k))
		run(t, app, cmd)
	}
}

func lastToast(app *App) (components.Toast, bool) {
	toasts := app.toaster.Toasts()
	if len(toasts) == 0 {
		return components.Toast{}, false
	}
	return toasts[len(toasts)-1], true
}

func expectToast(t *testing.T, app *App, level components.ToastLevel, text string) {
	t.Helper()
	toast, ok := lastToast(app)
	if !ok {
		t.Fatalf("expected toast %q, got none", text)
	}
	if toast.Level != level || toast.Message != text {
		t.Errorf("toast = (%v, %q), want (%v, %q)", toast.Level, toast.Message, level, text)
	}
}
