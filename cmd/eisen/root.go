package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/eisen/internal/app"
	"github.com/sandeepkv93/eisen/internal/commands"
	"github.com/sandeepkv93/eisen/internal/model"
	"github.com/sandeepkv93/eisen/internal/settings"
	"github.com/sandeepkv93/eisen/internal/tasks"
	"github.com/sandeepkv93/eisen/internal/update"
	"github.com/sandeepkv93/eisen/internal/wallpaper"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type openFunc func(ctx context.Context) (*app.Services, func(), error)

// withServices opens the services for the duration of run.
func withServices(cmd *cobra.Command, open openFunc, run func(ctx context.Context, svc *app.Services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, release, err := open(ctx)
	if err != nil {
		return err
	}
	defer release()
	return run(ctx, svc)
}

func newRootCmd(stdout, stderr io.Writer, open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "eisen",
		Short: "Eisenhower matrix task board with AI triage and wallpaper export",
		Long: "eisen sorts tasks into the four Eisenhower quadrants.\n" +
			"Run without arguments for the interactive board.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				m := update.NewModel(ctx, update.Deps{
					Tasks:      svc.Tasks,
					Settings:   svc.Settings,
					Classifier: svc.Classifier,
					Exporter:   svc.Exporter,
					ExportDir:  svc.Config.ExportDir,
					Logger:     svc.Logger,
					Now:        svc.Now,
				})
				program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
				_, err := program.Run()
				return err
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().Bool("json", false, "Output in JSON format")

	root.AddCommand(
		newAddCmd(stdout, open),
		newListCmd(stdout, open),
		newMoveCmd(stdout, open),
		newTargetCmd(stdout, open, "done", "Toggle a task's completed flag"),
		newTargetCmd(stdout, open, "rm", "Delete a task"),
		newClearCmd(stdout, open),
		newImportCmd(stdout, open),
		newExportCmd(stdout, open),
		newWallpaperCmd(stdout, open),
		newResetWallpaperCmd(stdout),
		newThemeCmd(stdout, open),
		newSettingsCmd(stdout, open),
	)
	return root
}

func newAddCmd(stdout io.Writer, open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task; without --quadrant the AI classifier files it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.TrimSpace(strings.Join(args, " "))
			if content == "" {
				return tasks.ErrEmptyContent
			}
			rawQuadrant, _ := cmd.Flags().GetString("quadrant")
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				if rawQuadrant != "" {
					q, err := model.ParseQuadrant(rawQuadrant)
					if err != nil {
						return err
					}
					t, err := svc.Tasks.Add(ctx, content, q, nil, false)
					if err != nil {
						return err
					}
					fmt.Fprintf(stdout, "added %s to %s\n", t.ID, model.QuadrantConfig(q).Subtitle)
					return nil
				}
				res := svc.Classifier.Classify(ctx, content, svc.Settings.Get())
				t, err := svc.Tasks.Add(ctx, content, res.Quadrant, res.Subtasks, !res.Fallback)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "added %s to %s: %s\n", t.ID, model.QuadrantConfig(t.Quadrant).Subtitle, res.Reasoning)
				for _, st := range t.Subtasks {
					fmt.Fprintf(stdout, "  - %s\n", st.Content)
				}
				return nil
			})
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringP("quadrant", "q", "", "Quadrant (q1-q4 or a name); skips the classifier")
	return cmd
}

func newListCmd(stdout io.Writer, open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks by quadrant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			rawQuadrant, _ := cmd.Flags().GetString("quadrant")
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				quadrants := model.Quadrants[:]
				if rawQuadrant != "" {
					q, err := model.ParseQuadrant(rawQuadrant)
					if err != nil {
						return err
					}
					quadrants = []model.Quadrant{q}
				}
				if jsonOutput {
					var out []model.Task
					for _, q := range quadrants {
						out = append(out, svc.Tasks.ByQuadrant(q)...)
					}
					raw, err := tasks.MarshalBackup(out)
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, string(raw))
					return nil
				}
				writeTaskList(stdout, svc.Tasks.List(), quadrants)
				return nil
			})
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringP("quadrant", "q", "", "Only list one quadrant")
	return cmd
}

// writeTaskList prints tasks grouped by quadrant. Positions are 1-based
// indexes into the full list, the form accepted as a task reference.
func writeTaskList(w io.Writer, all []model.Task, quadrants []model.Quadrant) {
	for _, q := range quadrants {
		info := model.QuadrantConfig(q)
		fmt.Fprintf(w, "%s %s (%s)\n", strings.ToUpper(string(q)), info.Title, info.Subtitle)
		n := 0
		for i, t := range all {
			if t.Quadrant != q {
				continue
			}
			n++
			mark := " "
			if t.Completed {
				mark = "x"
			}
			ai := ""
			if t.IsAIGenerated {
				ai = " [ai]"
			}
			fmt.Fprintf(w, "  %d. [%s] %s%s\n", i+1, mark, t.Content, ai)
			for _, st := range t.Subtasks {
				fmt.Fprintf(w, "       - %s\n", st.Content)
			}
		}
		if n == 0 {
			fmt.Fprintln(w, "  (empty)")
		}
	}
}

func newMoveCmd(stdout io.Writer, open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task> <quadrant>",
		Short: "Move a task to another quadrant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := model.ParseQuadrant(args[1])
			if err != nil {
				return err
			}
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				t, err := commands.ResolveTarget(args[0], svc.Tasks.List())
				if err != nil {
					return err
				}
				if _, err := svc.Tasks.Reassign(ctx, t.ID, q); err != nil {
					return err
				}
				fmt.Fprintf(stdout, "moved %q to %s\n", t.Content, model.QuadrantConfig(q).Subtitle)
				return nil
			})
		},
		SilenceUsage: true,
	}
}

// newTargetCmd builds the single-task commands done and rm.
func newTargetCmd(stdout io.Writer, open openFunc, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				t, err := commands.ResolveTarget(args[0], svc.Tasks.List())
				if err != nil {
					return err
				}
				if use == "rm" {
					if _, err := svc.Tasks.Delete(ctx, t.ID); err != nil {
						return err
					}
					fmt.Fprintf(stdout, "deleted %q\n", t.Content)
					return nil
				}
				if _, err := svc.Tasks.ToggleCompleted(ctx, t.ID); err != nil {
					return err
				}
				state := "completed"
				if t.Completed {
					state = "reopened"
				}
				fmt.Fprintf(stdout, "%s %q\n", state, t.Content)
				return nil
			})
		},
		SilenceUsage: true,
	}
}

var errNeedsConfirm = errors.New("clear-completed deletes tasks permanently; pass --yes to confirm")

func newClearCmd(stdout io.Writer, open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return errNeedsConfirm
			}
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				n, err := svc.Tasks.ClearCompleted(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "cleared %d completed task(s)\n", n)
				return nil
			})
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolP("yes", "y", false, "Confirm deletion")
	return cmd
}

func newImportCmd(stdout io.Writer, open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON task backup, replacing all tasks unless --merge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := tasks.ReadBackup(args[0])
			if err != nil {
				return err
			}
			mode := tasks.ImportReplace
			if merge, _ := cmd.Flags().GetBool("merge"); merge {
				mode = tasks.ImportMerge
			}
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				res, err := svc.Tasks.Import(ctx, items, mode)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "imported %d task(s) (%s), skipped %d\n", res.Added, mode, res.Skipped)
				return nil
			})
		},
		SilenceUsage: true,
	}
	cmd.Flags().Bool("merge", false, "Only add tasks whose id is not present")
	return cmd
}

func newExportCmd(stdout io.Writer, open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tasks to a dated JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				if dir == "" {
					dir = svc.Config.ExportDir
				}
				path, err := tasks.WriteBackup(dir, svc.Now(), svc.Tasks.List())
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, path)
				return nil
			})
		},
		SilenceUsage: true,
	}
	cmd.Flags().String("dir", "", "Output directory (default: configured export dir)")
	return cmd
}

func newWallpaperCmd(stdout io.Writer, open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallpaper",
		Short: "Render the matrix as a PNG wallpaper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				exporter := *svc.Exporter
				if dir != "" {
					exporter.Dir = dir
				}
				path, err := exporter.Export(ctx, svc.Frame())
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, path)
				return nil
			})
		},
		SilenceUsage: true,
	}
	cmd.Flags().String("dir", "", "Output directory (default: configured export dir)")
	return cmd
}

func newResetWallpaperCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-wallpaper",
		Short: "Explain how to restore the desktop wallpaper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, wallpaper.ResetNotice)
			return nil
		},
	}
}

func newThemeCmd(stdout io.Writer, open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				if len(args) == 0 {
					name, _ := svc.Settings.ThemeName()
					fmt.Fprintln(stdout, name)
					return nil
				}
				var dark bool
				switch strings.ToLower(args[0]) {
				case "dark":
					dark = true
				case "light":
				default:
					return fmt.Errorf("unknown theme %q (want dark or light)", args[0])
				}
				if err := svc.Settings.SetTheme(ctx, dark); err != nil {
					return err
				}
				fmt.Fprintln(stdout, strings.ToLower(args[0]))
				return nil
			})
		},
		SilenceUsage: true,
	}
}

func newSettingsCmd(stdout io.Writer, open openFunc) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asYAML, _ := cmd.Flags().GetBool("yaml")
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				s := svc.Settings.Get()
				if s.APIKey != "" {
					s.APIKey = "********"
				}
				if asYAML {
					enc := yaml.NewEncoder(stdout)
					enc.SetIndent(2)
					if err := enc.Encode(s); err != nil {
						return err
					}
					return enc.Close()
				}
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			})
		},
		SilenceUsage: true,
	}
	show.Flags().Bool("yaml", false, "Print YAML instead of JSON")

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting (keys: " + strings.Join(settings.Keys(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, open, func(ctx context.Context, svc *app.Services) error {
				next, err := settings.Set(svc.Settings.Get(), args[0], args[1])
				if err != nil {
					return err
				}
				if err := svc.Settings.Save(ctx, next); err != nil {
					return err
				}
				value, _ := settings.Value(next, args[0])
				fmt.Fprintf(stdout, "%s = %s\n", args[0], value)
				return nil
			})
		},
		SilenceUsage: true,
	}

	settingsCmd.AddCommand(show, set)
	return settingsCmd
}
