package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
)

type BroadcastCmd struct {
	flags     *Flags
	serverURL string
}

// NewBroadcastCmd creates a new broadcast command
func NewBroadcastCmd(flags *Flags) *BroadcastCmd {
	return &BroadcastCmd{flags: flags}
}

// Register adds the broadcast command to the application
func (cmd *BroadcastCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "broadcast",
		Usage:       "Send a message to every connected board",
		UsageText:   "taskboard broadcast [--server <url>] <message>",
		Description: "Posts the message to the server's /message endpoint, which relays it to all open sockets.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Usage:       "server URL (defaults to client.server_url)",
				Sources:     cli.EnvVars("TASKBOARD_SERVER_URL"),
				Destination: &cmd.serverURL,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *BroadcastCmd) run(ctx context.Context, c *cli.Command) error {
	message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if message == "" {
		return fmt.Errorf("message is required")
	}

	serverURL := cmd.serverURL
	if serverURL == "" {
		serverURL = cmd.flags.Config.Client.ServerURL
	}
	if serverURL == "" {
		return fmt.Errorf("no server URL: pass --server or set client.server_url")
	}

	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(serverURL, "/")+"/message", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send message: server returned %s", resp.Status)
	}

	_, _ = fmt.Fprintln(c.Root().ErrWriter, "message sent")
	return nil
}
