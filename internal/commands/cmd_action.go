package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/board"
	"github.com/colonyops/taskboard/pkg/iojson"
)

type ActionCmd struct {
	flags  *Flags
	reader iojson.Reader[board.Action]
}

// NewActionCmd creates a new action command
func NewActionCmd(flags *Flags) *ActionCmd {
	return &ActionCmd{flags: flags}
}

// Register adds the action command to the application
func (cmd *ActionCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "action",
		Usage:     "Apply a host action to the board",
		UsageText: "taskboard action [<json> | - | -f <file>]",
		Description: `Applies an add-task or move-task action exactly as an embedding host would.

Examples:
  taskboard action '{"type":"add-task","payload":{"title":"Ship it","priority":"high"}}'
  echo '{"type":"move-task","payload":{"title":"Ship it","to":"done"}}' | taskboard action -`,
		Flags:  []cli.Flag{cmd.reader.Flag()},
		Action: cmd.run,
	})

	return app
}

func (cmd *ActionCmd) run(ctx context.Context, c *cli.Command) error {
	action, err := cmd.reader.Read(c.Args().First())
	if err != nil {
		return fmt.Errorf("read action: %w", err)
	}

	rt, err := openRuntime(ctx, cmd.flags.Config)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Module.OnAction(ctx, action); err != nil {
		return fmt.Errorf("apply %s: %w", action.Type, err)
	}

	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, rt.Module.Tasks())
}
