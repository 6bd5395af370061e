package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/logging"
	"github.com/colonyops/taskboard/internal/server"
)

type ServeCmd struct {
	flags   *Flags
	port    int
	dir     string
	envFile string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the board server",
		UsageText: "taskboard serve [--port <n>] [--dir <path>]",
		Description: `Serves the built board in production mode, collects beacon logs at
POST /api/log and relays POST /message to WebSocket clients on /ws.

PORT, SERVE_DIR and IS_PRODUCTION override the config file, and a .env file
in the working directory is loaded first when present.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "port",
				Usage:       "listen port (overrides config and PORT)",
				Destination: &cmd.port,
			},
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "directory served in production mode (overrides config and SERVE_DIR)",
				Destination: &cmd.dir,
			},
			&cli.StringFlag{
				Name:        "env-file",
				Usage:       "dotenv file loaded before reading the environment",
				Value:       ".env",
				Destination: &cmd.envFile,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	if err := server.LoadDotEnv(cmd.envFile); err != nil {
		return err
	}

	opts := server.OptionsFromConfig(cmd.flags.Config.Server)
	if err := opts.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if cmd.port > 0 {
		opts.Port = cmd.port
	}
	if cmd.dir != "" {
		opts.ServeDir = cmd.dir
	}

	srv, err := server.New(opts, logging.Component("server"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
