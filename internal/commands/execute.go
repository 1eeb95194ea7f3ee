package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/eisen/internal/model"
)

type Result struct {
	Message string
}

type Handlers struct {
	Add       func(AddArgs) (Result, error)
	Move      func(MoveArgs) (Result, error)
	Done      func(TargetArgs) (Result, error)
	Remove    func(TargetArgs) (Result, error)
	Clear     func() (Result, error)
	Export    func() (Result, error)
	Import    func(ImportArgs) (Result, error)
	Set       func(SetArgs) (Result, error)
	Wallpaper func() (Result, error)
	Theme     func(ThemeArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeMove:
		if handlers.Move == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Move(*cmd.Move)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Target)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Remove(*cmd.Target)
	case TypeClear:
		if handlers.Clear == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Clear()
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Export()
	case TypeImport:
		if handlers.Import == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Import(*cmd.Import)
	case TypeSet:
		if handlers.Set == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Set(*cmd.Set)
	case TypeWallpaper:
		if handlers.Wallpaper == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Wallpaper()
	case TypeTheme:
		if handlers.Theme == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Theme(*cmd.Theme)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

// ResolveTarget finds the task a command refers to: an exact id, a unique
// id prefix, or a 1-based position in tasks.
func ResolveTarget(target string, tasks []model.Task) (model.Task, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return model.Task{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "task reference is empty"}
	}
	for _, t := range tasks {
		if t.ID == target {
			return t, nil
		}
	}
	if n, err := strconv.Atoi(target); err == nil {
		if n >= 1 && n <= len(tasks) {
			return tasks[n-1], nil
		}
		return model.Task{}, &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no task at position %d", n)}
	}
	var match *model.Task
	lower := strings.ToLower(target)
	for i := range tasks {
		if strings.HasPrefix(strings.ToLower(tasks[i].ID), lower) {
			if match != nil {
				return model.Task{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("task reference %q is ambiguous", target)}
			}
			match = &tasks[i]
		}
	}
	if match == nil {
		return model.Task{}, &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf("task %q not found", target)}
	}
	return *match, nil
}
