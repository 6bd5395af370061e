package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/internal/core/dnd"
	"github.com/colonyops/taskboard/internal/core/validate"
	"github.com/colonyops/taskboard/internal/core/view"
	"github.com/colonyops/taskboard/internal/host"
	"github.com/colonyops/taskboard/pkg/iojson"
)

type TaskCmd struct {
	flags *Flags

	// add flags
	title    string
	desc     string
	status   string
	priority string
	assignee string

	// move flags
	to     string
	before string

	// ls flags
	jsonOutput bool
	htmlOutput bool
}

// NewTaskCmd creates a new task command
func NewTaskCmd(flags *Flags) *TaskCmd {
	return &TaskCmd{flags: flags}
}

// Register adds the task command to the application
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "task",
		Usage: "Manage tasks without opening the board",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a task",
				UsageText: "taskboard task add [--title <title>] [options]",
				Description: `Adds a task to the end of the board. Without --title an interactive
form asks for the fields.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "title",
						Aliases:     []string{"t"},
						Usage:       "task title",
						Destination: &cmd.title,
					},
					&cli.StringFlag{
						Name:        "desc",
						Aliases:     []string{"d"},
						Usage:       "task description",
						Destination: &cmd.desc,
					},
					&cli.StringFlag{
						Name:        "status",
						Aliases:     []string{"s"},
						Usage:       "column (pending, inprogress, blocked, done)",
						Value:       string(board.StatusPending),
						Destination: &cmd.status,
					},
					&cli.StringFlag{
						Name:        "priority",
						Aliases:     []string{"p"},
						Usage:       "priority (low, medium, high)",
						Destination: &cmd.priority,
					},
					&cli.StringFlag{
						Name:        "assignee",
						Usage:       "assignee name",
						Destination: &cmd.assignee,
					},
				},
				Action: cmd.runAdd,
			},
			{
				Name:      "move",
				Usage:     "Move a task to another column",
				UsageText: "taskboard task move <id|title> --to <status> [--before <id>]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "to",
						Usage:       "target column (pending, inprogress, blocked, done)",
						Required:    true,
						Destination: &cmd.to,
					},
					&cli.StringFlag{
						Name:        "before",
						Usage:       "insert before this task id in the target column",
						Destination: &cmd.before,
					},
				},
				Action: cmd.runMove,
			},
			{
				Name:      "cycle",
				Usage:     "Advance a task's priority (low, medium, high)",
				UsageText: "taskboard task cycle <id|title>",
				Action:    cmd.runCycle,
			},
			{
				Name:      "ls",
				Usage:     "List tasks",
				UsageText: "taskboard task ls [--json | --html]",
				Description: `Prints a table when stdout is a terminal and JSON otherwise.
Use --html for the board markup.`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
					&cli.BoolFlag{
						Name:        "html",
						Usage:       "output the rendered board as HTML",
						Destination: &cmd.htmlOutput,
					},
				},
				Action: cmd.runLs,
			},
		},
	})

	return app
}

func (cmd *TaskCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if strings.TrimSpace(cmd.title) == "" {
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	title := strings.TrimSpace(cmd.title)
	if err := validate.NewTask(title, cmd.status, cmd.priority); err != nil {
		return err
	}

	action, err := board.NewAction(board.ActionAddTask, board.AddTaskPayload{
		Title:    title,
		Desc:     strings.TrimSpace(cmd.desc),
		Status:   cmd.status,
		Assignee: cmd.assignee,
		Priority: cmd.priority,
	})
	if err != nil {
		return err
	}

	rt, err := openRuntime(ctx, cmd.flags.Config)
	if err != nil {
		return err
	}
	defer rt.Close()

	before := taskIDs(rt.Module.Tasks())
	if err := rt.Module.OnAction(ctx, action); err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	for _, task := range rt.Module.Tasks() {
		if !before[task.ID] {
			return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, task)
		}
	}
	return nil
}

func (cmd *TaskCmd) runForm() error {
	statuses := make([]huh.Option[string], 0, len(board.Columns))
	for _, col := range board.Columns {
		statuses = append(statuses, huh.NewOption(col.Label, string(col.ID)))
	}

	priorities := []huh.Option[string]{huh.NewOption("None", "")}
	for _, p := range board.Priorities() {
		priorities = append(priorities, huh.NewOption(string(p), string(p)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Validate(validate.TaskTitle).
				Value(&cmd.title),
			huh.NewText().
				Title("Description").
				Value(&cmd.desc),
			huh.NewSelect[string]().
				Title("Column").
				Options(statuses...).
				Value(&cmd.status),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorities...).
				Value(&cmd.priority),
		),
	).WithTheme(huh.ThemeCharm()).Run()
}

func (cmd *TaskCmd) runMove(ctx context.Context, c *cli.Command) error {
	ref := c.Args().First()
	if ref == "" {
		return fmt.Errorf("task id or title is required")
	}
	to, err := board.ParseStatus(cmd.to)
	if err != nil {
		return err
	}

	rt, err := openRuntime(ctx, cmd.flags.Config)
	if err != nil {
		return err
	}
	defer rt.Close()

	task, ok := findTask(rt.Module.Tasks(), ref)
	if !ok {
		return fmt.Errorf("task %q not found", ref)
	}

	if cmd.before == "" {
		action, err := board.NewAction(board.ActionMoveTask, board.MoveTaskPayload{TaskID: task.ID, To: string(to)})
		if err != nil {
			return err
		}
		if err := rt.Module.OnAction(ctx, action); err != nil {
			return fmt.Errorf("move task: %w", err)
		}
	} else if err := dragBefore(ctx, rt.Module, task.ID, to, cmd.before); err != nil {
		return fmt.Errorf("move task: %w", err)
	}

	moved, _ := findTask(rt.Module.Tasks(), task.ID)
	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, moved)
}

// dragBefore replays the pointer gesture that drops taskID in front of
// beforeID, using one unit high boxes for the target column's cards.
func dragBefore(ctx context.Context, mod *host.Module, taskID string, to board.Status, beforeID string) error {
	col, ok := mod.Board().Column(to)
	if !ok {
		return board.ErrInvalidStatus
	}

	var (
		boxes []dnd.CardBox
		y     = -1.0
	)
	for _, card := range col.Cards {
		if card.TaskID == taskID {
			continue
		}
		box := dnd.CardBox{TaskID: card.TaskID, Top: float64(len(boxes)), Height: 1}
		if card.TaskID == beforeID {
			y = box.Mid()
		}
		boxes = append(boxes, box)
	}
	if y < 0 {
		return fmt.Errorf("task %q is not in %s", beforeID, to)
	}

	events := []host.Event{
		host.DragStart{TaskID: taskID},
		host.DragOver{Column: to, PointerY: y, Cards: boxes},
		host.Drop{Column: to},
		host.DragEnd{},
	}
	for _, ev := range events {
		if err := mod.Dispatch(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *TaskCmd) runCycle(ctx context.Context, c *cli.Command) error {
	ref := c.Args().First()
	if ref == "" {
		return fmt.Errorf("task id or title is required")
	}

	rt, err := openRuntime(ctx, cmd.flags.Config)
	if err != nil {
		return err
	}
	defer rt.Close()

	task, ok := findTask(rt.Module.Tasks(), ref)
	if !ok {
		return fmt.Errorf("task %q not found", ref)
	}
	if err := rt.Module.Dispatch(ctx, host.PriorityClick{TaskID: task.ID}); err != nil {
		return fmt.Errorf("cycle priority: %w", err)
	}

	updated, _ := findTask(rt.Module.Tasks(), task.ID)
	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, updated)
}

func (cmd *TaskCmd) runLs(ctx context.Context, c *cli.Command) error {
	rt, err := openRuntime(ctx, cmd.flags.Config)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := c.Root().Writer

	if cmd.htmlOutput {
		markup, err := view.HTML(rt.Module.Board())
		if err != nil {
			return fmt.Errorf("render board: %w", err)
		}
		_, err = fmt.Fprintln(out, markup)
		return err
	}

	tasks := rt.Module.Tasks()
	if cmd.jsonOutput || !isTerminal(out) {
		return iojson.WriteWith(out, c.Root().ErrWriter, tasks)
	}

	writeTaskTable(out, rt.Module.Board())
	return nil
}

// writeTaskTable prints tasks grouped by column in board order.
func writeTaskTable(out io.Writer, b view.Board) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCOLUMN\tPRIORITY\tTITLE\tASSIGNEE")
	for _, col := range b.Columns {
		for _, card := range col.Cards {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", card.TaskID, col.Label, card.Priority, card.Title, card.Assignee)
		}
	}
	_ = w.Flush()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// findTask resolves ref as a task id first, then as an exact title.
func findTask(tasks []board.Task, ref string) (board.Task, bool) {
	for _, t := range tasks {
		if t.ID == ref {
			return t, true
		}
	}
	for _, t := range tasks {
		if t.Title == ref {
			return t, true
		}
	}
	return board.Task{}, false
}

func taskIDs(tasks []board.Task) map[string]bool {
	ids := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = true
	}
	return ids
}
