// Package commands parses the TUI's slash-command palette.
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/lifeo/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeSkip   Type = "skip"
	TypeReopen Type = "reopen"
	TypeCarry  Type = "carry"
	TypeTheme  Type = "theme"
	TypeGo     Type = "go"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs come from "/add <title> [#category] [<n>m]".
type AddArgs struct {
	Title           string
	Category        model.Category
	DurationMinutes int
}

// TargetArgs name a mission by 1-based position or by id.
type TargetArgs struct {
	Index int
	ID    string
}

type ThemeMode string

const (
	ThemeDark   ThemeMode = "dark"
	ThemeLight  ThemeMode = "light"
	ThemeToggle ThemeMode = "toggle"
)

type ThemeArgs struct {
	Mode ThemeMode
}

type GoArgs struct {
	Screen model.Screen
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	Theme  *ThemeArgs
	Go     *GoArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeSkip, TypeReopen, TypeCarry:
		return parseTarget(input, Type(head), args)
	case TypeTheme:
		return parseTheme(input, args)
	case TypeGo:
		return parseGo(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(arg, "#") && len(arg) > 1 {
			category, err := model.ParseCategory(arg[1:])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown category %s", arg)}
			}
			out.Category = category
			continue
		}
		if mins, ok := parseMinutes(arg); ok {
			out.DurationMinutes = mins
			continue
		}
		words = append(words, arg)
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseMinutes(arg string) (int, bool) {
	lower := strings.ToLower(arg)
	if !strings.HasSuffix(lower, "m") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(lower, "m"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires one mission number or id", typ)}
	}
	target := TargetArgs{}
	if n, err := strconv.Atoi(args[0]); err == nil {
		if n <= 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "mission numbers start at 1"}
		}
		target.Index = n
	} else {
		target.ID = args[0]
	}
	return Command{Type: typ, Raw: raw, Target: &target}, nil
}

func parseTheme(raw string, args []string) (Command, error) {
	mode := ThemeToggle
	if len(args) > 0 {
		mode = ThemeMode(strings.ToLower(args[0]))
	}
	switch mode {
	case ThemeDark, ThemeLight, ThemeToggle:
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "theme takes dark, light or toggle"}
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Mode: mode}}, nil
}

func parseGo(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "go requires a screen"}
	}
	screen := model.Screen(strings.ToLower(args[0]))
	if !screen.IsValid() {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown screen %s", args[0])}
	}
	return Command{Type: TypeGo, Raw: raw, Go: &GoArgs{Screen: screen}}, nil
}

// Resolve finds the mission t names in pool.
func (t TargetArgs) Resolve(pool []model.Mission) (model.Mission, error) {
	if t.ID != "" {
		for _, m := range pool {
			if m.ID == t.ID {
				return m, nil
			}
		}
		return model.Mission{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("no mission with id %s", t.ID)}
	}
	if t.Index < 1 || t.Index > len(pool) {
		return model.Mission{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("no mission %d", t.Index)}
	}
	return pool[t.Index-1], nil
}
