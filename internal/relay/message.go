// Package relay fans host messages out to connected boards over WebSocket.
// The Hub lives in the server, Backplane links hubs across server instances
// through Redis, and Client is the reconnecting board side.
package relay

import (
	"encoding/json"
	"errors"
)

// TypeMessage is the only frame type the relay carries.
const TypeMessage = "message"

// ErrEmptyMessage is returned when a frame carries no message text.
var ErrEmptyMessage = errors.New("message is required")

// Frame is the JSON payload sent to every socket.
type Frame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewFrame builds a message frame.
func NewFrame(message string) Frame {
	return Frame{Type: TypeMessage, Message: message}
}

// Encode returns the wire form of a message frame.
func Encode(message string) ([]byte, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}
	return json.Marshal(NewFrame(message))
}

// Decode parses a frame. It reports ok=false for well-formed frames that are
// not messages or carry empty text.
func Decode(data []byte) (msg string, ok bool, err error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return "", false, err
	}
	if f.Type != TypeMessage || f.Message == "" {
		return "", false, nil
	}
	return f.Message, true, nil
}
