package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(TargetArgs) (Result, error)
	Skip   func(TargetArgs) (Result, error)
	Reopen func(TargetArgs) (Result, error)
	Carry  func(TargetArgs) (Result, error)
	Theme  func(ThemeArgs) (Result, error)
	Go     func(GoArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		return runTarget(cmd, handlers.Done)
	case TypeSkip:
		return runTarget(cmd, handlers.Skip)
	case TypeReopen:
		return runTarget(cmd, handlers.Reopen)
	case TypeCarry:
		return runTarget(cmd, handlers.Carry)
	case TypeTheme:
		if handlers.Theme == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Theme(*cmd.Theme)
	case TypeGo:
		if handlers.Go == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Go(*cmd.Go)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func runTarget(cmd Command, handler func(TargetArgs) (Result, error)) (Result, error) {
	if handler == nil {
		return Result{}, missing(cmd.Type)
	}
	return handler(*cmd.Target)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
