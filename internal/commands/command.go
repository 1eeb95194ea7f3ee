package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/eisen/internal/model"
)

type Type string

const (
	TypeAdd       Type = "add"
	TypeMove      Type = "move"
	TypeDone      Type = "done"
	TypeRemove    Type = "rm"
	TypeClear     Type = "clear"
	TypeExport    Type = "export"
	TypeImport    Type = "import"
	TypeSet       Type = "set"
	TypeWallpaper Type = "wallpaper"
	TypeTheme     Type = "theme"
)

var aliases = map[string]Type{
	"delete":    TypeRemove,
	"del":       TypeRemove,
	"toggle":    TypeDone,
	"mv":        TypeMove,
	"wp":        TypeWallpaper,
	"backup":    TypeExport,
	"restore":   TypeImport,
	"configure": TypeSet,
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
	ErrCodeNotFound        ErrorCode = "not_found"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries an explicit quadrant when the input starts with q1..q4;
// otherwise Quadrant is empty and the task goes through the classifier.
type AddArgs struct {
	Content  string
	Quadrant model.Quadrant
}

type MoveArgs struct {
	Target   string
	Quadrant model.Quadrant
}

type TargetArgs struct {
	Target string
}

type ImportArgs struct {
	Path  string
	Merge bool
}

type SetArgs struct {
	Key   string
	Value string
}

type ThemeArgs struct {
	// Dark is nil for a plain toggle.
	Dark *bool
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Move   *MoveArgs
	Target *TargetArgs
	Import *ImportArgs
	Set    *SetArgs
	Theme  *ThemeArgs
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
	head := Type(strings.ToLower(parts[0]))
	if alias, ok := aliases[string(head)]; ok {
		head = alias
	}
	args := parts[1:]

	switch head {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeMove:
		return parseMove(input, args)
	case TypeDone, TypeRemove:
		return parseTarget(input, head, args)
	case TypeClear, TypeExport, TypeWallpaper:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: head, Raw: input}, nil
	case TypeImport:
		return parseImport(input, args)
	case TypeSet:
		return parseSet(input, args)
	case TypeTheme:
		return parseTheme(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", parts[0])}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	var q model.Quadrant
	if len(args) > 1 {
		switch candidate := model.Quadrant(strings.ToLower(args[0])); {
		case candidate.IsValid():
			q = candidate
			args = args[1:]
		case strings.EqualFold(args[0], "auto"):
			args = args[1:]
		}
	}
	content := strings.TrimSpace(strings.Join(args, " "))
	if content == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Content: content, Quadrant: q}}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "move requires a task and a quadrant"}
	}
	q, err := model.ParseQuadrant(args[1])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown quadrant %q", args[1])}
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{Target: args[0], Quadrant: q}}, nil
}

func parseTarget(raw string, t Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires one task", t)}
	}
	return Command{Type: t, Raw: raw, Target: &TargetArgs{Target: args[0]}}, nil
}

func parseImport(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "import requires a path and replace|merge"}
	}
	switch strings.ToLower(args[1]) {
	case "replace":
		return Command{Type: TypeImport, Raw: raw, Import: &ImportArgs{Path: args[0]}}, nil
	case "merge":
		return Command{Type: TypeImport, Raw: raw, Import: &ImportArgs{Path: args[0], Merge: true}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("import mode must be replace or merge, got %q", args[1])}
	}
}

func parseSet(raw string, args []string) (Command, error) {
	if len(args) < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set requires a key"}
	}
	key := args[0]
	value := strings.Join(args[1:], " ")
	if k, v, ok := strings.Cut(key, "="); ok {
		key, value = k, strings.TrimSpace(v+" "+value)
	}
	return Command{Type: TypeSet, Raw: raw, Set: &SetArgs{Key: key, Value: value}}, nil
}

func parseTheme(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{}}, nil
	}
	var dark bool
	switch strings.ToLower(args[0]) {
	case "dark":
		dark = true
	case "light":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "theme must be dark or light"}
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Dark: &dark}}, nil
}
