// Package update is the bubbletea program for planning, focusing on and
// reviewing the day's missions.
package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/planner"
	"github.com/sandeepkv93/lifeo/internal/storage"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Plan      string
	Focus     string
	Dashboard string
	Theme     string
	Help      string
	Quit      string
}

type FocusState struct {
	MissionID    string
	TotalSec     int
	RemainingSec int
	Running      bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Options struct {
	// Changes feeds writes from other processes; nil disables live reload.
	Changes   <-chan storage.Change
	FocusTick time.Duration
}

type Model struct {
	session *planner.Session
	ctx     context.Context
	changes <-chan storage.Change

	Screen      model.Screen
	Prefs       model.UIPrefs
	Snapshot    planner.Snapshot
	Cursor      int
	Focus       FocusState
	Palette     CommandPaletteState
	Adding      bool
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	focusTick     time.Duration
	addInput      textinput.Model
	commandInput  textinput.Model
	focusProgress progress.Model
	helpModel     help.Model
}

// SnapshotMsg carries the session state after a load or an edit.
type SnapshotMsg struct {
	Snapshot planner.Snapshot
	Status   string
	Err      error
}

type PrefsLoadedMsg struct {
	Prefs model.UIPrefs
}

type PrefsSavedMsg struct {
	Err error
}

// StoreChangedMsg reports a write to the store made outside this session.
type StoreChangedMsg struct {
	Key string
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type FocusTickMsg struct{}

func NewModel(ctx context.Context, session *planner.Session, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		session:   session,
		ctx:       ctx,
		changes:   opts.Changes,
		Screen:    model.ScreenPlan,
		Prefs:     model.DefaultUIPrefs(),
		focusTick: opts.FocusTick,
		Keys: GlobalKeyMap{
			Plan:      "1",
			Focus:     "2",
			Dashboard: "3",
			Theme:     "t",
			Help:      "?",
			Quit:      "q",
		},
	}
	if m.focusTick <= 0 {
		m.focusTick = time.Second
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.addInput = textinput.New()
	m.addInput.Placeholder = "title #category 25m"
	m.addInput.CharLimit = 120
	m.addInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Placeholder = "add|done|skip|reopen|carry|theme|go"
	m.commandInput.CharLimit = 120
	m.commandInput.Width = 48

	m.focusProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))
	m.helpModel = help.New()
}
