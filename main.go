package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/commands"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date
	if info, ok := debug.ReadBuildInfo(); ok && v == "dev" {
		if mv := info.Main.Version; mv != "" && mv != "(devel)" {
			v = mv
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				c = s.Value
			case "vcs.time":
				d = s.Value
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s) %s", v, c, d)
}

func newApp(flags *commands.Flags) *cli.Command {
	closeLog := func() {}

	app := &cli.Command{
		Name:      "taskboard",
		Usage:     "A kanban task board for the terminal and the web",
		UsageText: "taskboard [global options] [command [command options]]",
		Description: `Taskboard keeps a four column board (pending, in progress, blocked, done)
in local storage and lets you drag cards between columns.

With no command it opens the interactive board. 'taskboard serve' hosts the
web board together with the log beacon and the message relay.`,
		Version: build(),
		Flags:   flags.GlobalFlags(),
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			closer, err := flags.Setup()
			if err != nil {
				return ctx, err
			}
			closeLog = closer
			return ctx, nil
		},
		After: func(context.Context, *cli.Command) error {
			closeLog()
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags)
	app = tuiCmd.Register(app)
	app = commands.NewServeCmd(flags).Register(app)
	app = commands.NewTaskCmd(flags).Register(app)
	app = commands.NewActionCmd(flags).Register(app)
	app = commands.NewBroadcastCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// The bare command runs the board, so it accepts the tui flags too.
	app.Flags = append(app.Flags, tuiCmd.Flags()...)
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Present() {
			return fmt.Errorf("unknown command %q, see 'taskboard --help'", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}
	return app
}

func main() {
	if err := newApp(&commands.Flags{}).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
