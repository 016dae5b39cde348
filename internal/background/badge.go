package background

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Badge surfaces today's completed-mission count outside the UI.
type Badge interface {
	Show(count int) error
	Clear() error
}

type LogBadge struct {
	Logger *slog.Logger
}

func (b LogBadge) Show(count int) error {
	b.Logger.Info("badge", "completed", count)
	return nil
}

func (b LogBadge) Clear() error {
	b.Logger.Info("badge cleared")
	return nil
}

// FileBadge writes the badge text to a file for status bars to read. A
// cleared badge is an empty file.
type FileBadge struct {
	Path string
}

func (b FileBadge) Show(count int) error {
	return b.write(strconv.Itoa(count))
}

func (b FileBadge) Clear() error {
	return b.write("")
}

func (b FileBadge) write(text string) error {
	if strings.TrimSpace(b.Path) == "" {
		return errors.New("background: badge file path required")
	}
	if err := os.MkdirAll(filepath.Dir(b.Path), 0o755); err != nil {
		return fmt.Errorf("create badge dir: %w", err)
	}
	tmp := b.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, b.Path)
}

// NotifyBadge posts a desktop notification when the count changes.
type NotifyBadge struct {
	run func(name string, args ...string) error
}

func NewNotifyBadge() NotifyBadge {
	return NotifyBadge{run: func(name string, args ...string) error {
		return exec.Command(name, args...).Run()
	}}
}

func (b NotifyBadge) Show(count int) error {
	noun := "missions"
	if count == 1 {
		noun = "mission"
	}
	return b.send("lifeo", fmt.Sprintf("%d %s done today", count, noun))
}

// Clear is a no-op; a posted notification cannot be withdrawn portably.
func (b NotifyBadge) Clear() error { return nil }

func (b NotifyBadge) send(title, body string) error {
	switch runtime.GOOS {
	case "linux":
		return b.run("notify-send", title, body)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(body), escapeAppleScript(title))
		return b.run("osascript", "-e", script)
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// MultiBadge fans out to every badge and joins their errors.
type MultiBadge []Badge

func (m MultiBadge) Show(count int) error {
	var errs []error
	for _, b := range m {
		errs = append(errs, b.Show(count))
	}
	return errors.Join(errs...)
}

func (m MultiBadge) Clear() error {
	var errs []error
	for _, b := range m {
		errs = append(errs, b.Clear())
	}
	return errors.Join(errs...)
}
