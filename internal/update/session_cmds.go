package update

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/lifeo/internal/model"
	"github.com/sandeepkv93/lifeo/internal/planner"
	"github.com/sandeepkv93/lifeo/internal/storage"
)

func (m Model) loadCmd() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		err := session.Load(ctx)
		return SnapshotMsg{Snapshot: session.Snapshot(), Err: err}
	}
}

// mutateCmd runs one session edit off the update loop and reports the
// resulting snapshot.
func (m Model) mutateCmd(done string, edit func(context.Context, *planner.Session) error) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		err := edit(ctx, session)
		msg := SnapshotMsg{Snapshot: session.Snapshot(), Err: err}
		if err == nil {
			msg.Status = done
		}
		return msg
	}
}

func (m Model) loadPrefsCmd() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return PrefsLoadedMsg{Prefs: session.LoadPrefs(ctx)}
	}
}

func (m Model) savePrefsCmd() tea.Cmd {
	session, ctx, prefs := m.session, m.ctx, m.Prefs
	return func() tea.Msg {
		return PrefsSavedMsg{Err: session.SavePrefs(ctx, prefs)}
	}
}

func waitForChangeCmd(ch <-chan storage.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return StoreChangedMsg{Key: change.Key}
	}
}

func (m Model) applySnapshot(msg SnapshotMsg) Model {
	m.Snapshot = msg.Snapshot
	m.Cursor = clamp(m.Cursor, len(m.Snapshot.Missions))
	m.syncFocusMission()
	switch {
	case msg.Err == nil:
		if msg.Status != "" {
			m.Status = StatusBar{Text: msg.Status}
		}
	case errors.Is(msg.Err, planner.ErrNotPersisted):
		m.LastError = msg.Err
		m.Status = StatusBar{Text: "saved in memory only, storage unavailable", IsError: true}
	default:
		m.LastError = msg.Err
		m.Status = StatusBar{Text: msg.Err.Error(), IsError: true}
	}
	return m
}

func (m Model) missionByIndex(index int) (model.Mission, error) {
	if index < 1 || index > len(m.Snapshot.Missions) {
		return model.Mission{}, fmt.Errorf("no mission %d today", index)
	}
	return m.Snapshot.Missions[index-1], nil
}

func (m Model) missionAtCursor() (model.Mission, bool) {
	if len(m.Snapshot.Missions) == 0 {
		return model.Mission{}, false
	}
	return m.Snapshot.Missions[clamp(m.Cursor, len(m.Snapshot.Missions))], true
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
