package background

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestFileBadgeWritesCountAndClears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status", "badge")
	badge := FileBadge{Path: path}

	if err := badge.Show(3); err != nil {
		t.Fatalf("show: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read badge: %v", err)
	}
	if string(raw) != "3" {
		t.Fatalf("unexpected badge text %q", raw)
	}

	if err := badge.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	raw, _ = os.ReadFile(path)
	if len(raw) != 0 {
		t.Fatalf("expected empty badge after clear, got %q", raw)
	}
}

func TestFileBadgeRequiresPath(t *testing.T) {
	if err := (FileBadge{}).Show(1); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestNotifyBadgeRunsPlatformCommand(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("desktop notifications only on linux and darwin")
	}
	var gotName string
	var gotArgs []string
	badge := NotifyBadge{run: func(name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}}

	if err := badge.Show(1); err != nil {
		t.Fatalf("show: %v", err)
	}
	joined := strings.Join(gotArgs, " ")
	switch runtime.GOOS {
	case "linux":
		if gotName != "notify-send" || !strings.Contains(joined, "1 mission done today") {
			t.Fatalf("unexpected command %s %v", gotName, gotArgs)
		}
	case "darwin":
		if gotName != "osascript" || !strings.Contains(joined, "1 mission done today") {
			t.Fatalf("unexpected command %s %v", gotName, gotArgs)
		}
	}
}

func TestMultiBadgeJoinsErrors(t *testing.T) {
	failing := NotifyBadge{run: func(string, ...string) error { return errors.New("no display") }}
	rec := &recordingBadge{}
	multi := MultiBadge{rec, failing}

	err := multi.Show(2)
	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		if err == nil {
			t.Fatalf("expected joined error from failing badge")
		}
	}
	if rec.Last() != "show:2" {
		t.Fatalf("healthy badge should still be updated, got %v", rec.Events())
	}
	if err := multi.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
}

func TestEscapeAppleScript(t *testing.T) {
	if got := escapeAppleScript(`say "hi" \ bye`); got != `say \"hi\" \\ bye` {
		t.Fatalf("unexpected escape: %s", got)
	}
}
