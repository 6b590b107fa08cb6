package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/reset"
	"github.com/sandeepkv93/cadence/internal/store"
)

type View string

const (
	ViewLists    View = "Lists"
	ViewArchive  View = "Archive"
	ViewSettings View = "Settings"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Lists    string
	Archive  string
	Settings string
	NextList string
	Help     string
	Quit     string
}

type Model struct {
	CurrentView    View
	ActiveListID   string
	Cursor         int
	ArchiveCursor  int
	Filter         model.TaskFilter
	Capture        CaptureState
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	ResetLog       []reset.Batch
	DesktopEnabled bool
	notifier       DesktopNotifier
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	ctx     context.Context
	store   *store.Store
	batches <-chan reset.Batch
	clock   func() time.Time

	// Copies read from the store after every action.
	lists     []model.ListState
	snapshots []model.Snapshot

	captureInput textinput.Model
	commandInput textinput.Model
	progressBar  progress.Model
	archiveTable table.Model
	detail       viewport.Model
	helpModel    help.Model
	uiDensity    int
}

type CaptureState struct {
	Active bool
	Input  string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// ResetBatchMsg carries a batch the poller committed.
type ResetBatchMsg struct {
	Batch reset.Batch
}

type Options struct {
	Context              context.Context
	Store                *store.Store
	Batches              <-chan reset.Batch
	Clock                func() time.Time
	Notifier             DesktopNotifier
	DesktopNotifications bool
}

func NewModel(opts Options) Model {
	m := Model{
		CurrentView:    ViewLists,
		ctx:            opts.Context,
		store:          opts.Store,
		batches:        opts.Batches,
		clock:          opts.Clock,
		DesktopEnabled: opts.DesktopNotifications,
		notifier:       NoopDesktopNotifier{},
		Keys: GlobalKeyMap{
			Lists:    "1",
			Archive:  "2",
			Settings: "3",
			NextList: "tab",
			Help:     "?",
			Quit:     "q",
		},
		uiDensity: 1,
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if opts.Notifier != nil {
		m.notifier = opts.Notifier
	}
	if m.store == nil {
		// A model without storage still works, in memory only.
		s, err := store.Open(m.ctx, store.Options{})
		if err != nil {
			m.LastError = err
		}
		m.store = s
	}
	m.initBubbleComponents()
	m.refresh()
	return m
}
