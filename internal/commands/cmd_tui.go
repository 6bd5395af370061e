package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskboard/internal/core/config"
	"github.com/colonyops/taskboard/internal/core/eventbus"
	"github.com/colonyops/taskboard/internal/core/logging"
	"github.com/colonyops/taskboard/internal/core/notify"
	"github.com/colonyops/taskboard/internal/relay"
	"github.com/colonyops/taskboard/internal/tui"
	"github.com/colonyops/taskboard/pkg/utils"
)

const feedBuffer = 32

type TuiCmd struct {
	flags     *Flags
	serverURL string
	noWatch   bool
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "server",
			Usage:       "server URL for relay messages and the log beacon (overrides client.server_url)",
			Sources:     cli.EnvVars("TASKBOARD_SERVER_URL"),
			Destination: &cmd.serverURL,
		},
		&cli.BoolFlag{
			Name:        "no-watch",
			Usage:       "do not reload the config file when it changes",
			Destination: &cmd.noWatch,
		},
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive board",
		UsageText: "taskboard tui [--server <url>]",
		Flags:     cmd.Flags(),
		Action:    cmd.Run,
	})

	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config
	if cmd.serverURL != "" {
		cfg.Client.ServerURL = cmd.serverURL
	}

	// Background goroutines may warn before the alt screen is up; hold those
	// lines until the program exits so they do not tear the board.
	stderr := utils.NewDeferredWriter(os.Stderr)
	defer func() { _ = stderr.Release() }()

	rt, err := openRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(ctx)

	feed := tui.NewFeed(feedBuffer)

	rt.Bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
		feed.Send(tui.NotificationMsg{Notification: notify.Notification{Level: p.Level, Message: p.Message}})
	})

	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	if cfg.Client.ServerURL != "" {
		source := cfg.Client.ServerURL
		client, err := relay.NewClient(source, func(message string) {
			rt.Bus.PublishMessageReceived(eventbus.MessageReceivedPayload{Source: source, Message: message})
			feed.Send(tui.RelayMsg{Message: message})
		}, cfg.Client.ReconnectDelay, logging.Component("relay"))
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "relay disabled: %v\n", err)
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				client.Run(ctx)
			}()
		}
	}

	if !cmd.noWatch {
		watcher, err := config.NewWatcher(cmd.flags.ConfigPath, cfg.DataDir, func(next *config.Config, err error) {
			if err != nil {
				feed.Send(tui.NotificationMsg{Notification: notify.Notification{
					Level:   notify.LevelError,
					Message: fmt.Sprintf("config reload failed: %v", err),
				}})
				return
			}
			rt.Bus.PublishConfigReloaded(eventbus.ConfigReloadedPayload{Config: next})
			feed.Send(tui.ConfigMsg{Config: next})
		})
		if err != nil {
			log.Warn().Err(err).Msg("config watcher disabled")
			_, _ = fmt.Fprintf(stderr, "config watcher disabled: %v\n", err)
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				watcher.Run(ctx)
			}()
		}
	}

	m := tui.New(tui.Options{Module: rt.Module, Feed: feed})
	p := tea.NewProgram(m, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
