package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/eisen/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent tomorrow", TypeAdd},
		{"move 01J 2", TypeMove},
		{"done 3", TypeDone},
		{"rm 01J", TypeRemove},
		{"delete 01J", TypeRemove},
		{"clear", TypeClear},
		{"export", TypeExport},
		{"import ~/backup.json merge", TypeImport},
		{"set lineGap 50", TypeSet},
		{"wallpaper", TypeWallpaper},
		{"theme dark", TypeTheme},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddQuadrantPrefix(t *testing.T) {
	cmd, err := Parse("add q1 Finish Q3 report")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Quadrant != model.QuadrantDoFirst || cmd.Add.Content != "Finish Q3 report" {
		t.Fatalf("unexpected add args: %+v", cmd.Add)
	}

	cmd, _ = Parse("add do the dishes")
	if cmd.Add.Quadrant != "" || cmd.Add.Content != "do the dishes" {
		t.Fatalf("plain words must not select a quadrant: %+v", cmd.Add)
	}
	cmd, _ = Parse("add q2")
	if cmd.Add.Quadrant != "" || cmd.Add.Content != "q2" {
		t.Fatalf("a lone token is content: %+v", cmd.Add)
	}
}

func TestParseArgumentErrors(t *testing.T) {
	for _, in := range []string{"add", "move x", "move x q9", "done", "import file.json", "import file.json append", "theme blue", "clear now", "set"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseSetKeyValueForms(t *testing.T) {
	for _, in := range []string{"set apiBaseUrl http://localhost:8080", "set apiBaseUrl=http://localhost:8080"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", in, err)
		}
		if cmd.Set.Key != "apiBaseUrl" || cmd.Set.Value != "http://localhost:8080" {
			t.Fatalf("parse %q: unexpected set args %+v", in, cmd.Set)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if _, err := Parse("  / "); err == nil {
		t.Fatal("expected empty input error")
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/move 01J schedule")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Move: func(a MoveArgs) (Result, error) {
			called = true
			if a.Target != "01J" || a.Quadrant != model.QuadrantSchedule {
				t.Fatalf("unexpected move args: %+v", a)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("wallpaper")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

func TestResolveTarget(t *testing.T) {
	tasks := []model.Task{
		{ID: "01JA1", Content: "a"},
		{ID: "01JA2", Content: "b"},
		{ID: "01JB7", Content: "c"},
	}
	cases := []struct {
		in   string
		want string
	}{
		{"01JA2", "b"},
		{"01jb", "c"},
		{"1", "a"},
		{"3", "c"},
	}
	for _, tc := range cases {
		got, err := ResolveTarget(tc.in, tasks)
		if err != nil || got.Content != tc.want {
			t.Fatalf("resolve %q = %+v, %v; want %q", tc.in, got, err, tc.want)
		}
	}

	var ce *CommandError
	if _, err := ResolveTarget("01JA", tasks); !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected ambiguous error, got %v", err)
	}
	if _, err := ResolveTarget("9", tasks); !errors.As(err, &ce) || ce.Code != ErrCodeNotFound {
		t.Fatalf("expected not found for position, got %v", err)
	}
	if _, err := ResolveTarget("zz", tasks); !errors.As(err, &ce) || ce.Code != ErrCodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
