package relay

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// DefaultReconnectDelay is how long the client waits after a close or a
// failed dial.
const DefaultReconnectDelay = 3 * time.Second

// Handler receives non-empty messages.
type Handler func(message string)

// Client keeps a socket open to a relay hub.
type Client struct {
	url     string
	handler Handler
	delay   time.Duration
	dialer  *websocket.Dialer
	log     zerolog.Logger
}

// SocketURL derives the ws:// or wss:// address of the hub from an http(s)
// server URL.
func SocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}

	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server url %q has no host", serverURL)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// NewClient creates a client for the hub behind serverURL.
func NewClient(serverURL string, handler Handler, delay time.Duration, log zerolog.Logger) (*Client, error) {
	wsURL, err := SocketURL(serverURL)
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}
	return &Client{
		url:     wsURL,
		handler: handler,
		delay:   delay,
		dialer:  websocket.DefaultDialer,
		log:     log,
	}, nil
}

// URL returns the socket address.
func (c *Client) URL() string { return c.url }

// Run dials, delivers messages and reconnects after every close or failure
// until ctx is done.
func (c *Client) Run(ctx context.Context) {
	for {
		if err := c.session(ctx); err != nil && ctx.Err() == nil {
			c.log.Debug().Err(err).Str("url", c.url).Msg("websocket disconnected")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.delay):
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	ws, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	c.log.Debug().Str("url", c.url).Msg("websocket connected")

	stop := context.AfterFunc(ctx, func() { _ = ws.Close() })
	defer func() {
		stop()
		_ = ws.Close()
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return err
		}

		msg, ok, err := Decode(data)
		if err != nil {
			c.log.Warn().Err(err).Msg("error parsing websocket message")
			continue
		}
		if ok {
			c.handler(msg)
		}
	}
}
