// Package iojson reads and writes JSON for command line tools.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Error is the JSON shape of a failed command.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func jsonError(msg string, jsonErr error) string {
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// MarshalError renders an Error. If marshaling fails a hand built blob with
// the marshal error is returned instead.
func MarshalError(msg string, data map[string]any) string {
	bits, err := json.MarshalIndent(Error{Message: msg, Data: data}, "", "  ")
	if err != nil {
		return jsonError(msg, err)
	}
	return string(bits)
}

// WriteError prints an Error to ew.
func WriteError(ew io.Writer, msg string, data map[string]any) error {
	_, err := fmt.Fprintln(ew, MarshalError(msg, data))
	return err
}

// WriteWith prints obj as indented JSON to w; marshal failures go to ew.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, err = fmt.Fprintln(ew, jsonError("error marshaling in iojson.Write", err))
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with [os.Stdout] and [os.Stderr].
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}

// Reader decodes one JSON value from an inline argument, a file, or stdin.
type Reader[T any] struct {
	file  string
	stdin io.Reader
}

// Flag returns the --file flag bound to the reader.
func (r *Reader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if not provided)",
		Destination: &r.file,
	}
}

// Read decodes arg when it is neither empty nor "-", then the --file flag,
// then stdin. A terminal stdin is an error.
func (r *Reader[T]) Read(arg string) (T, error) {
	var out T

	var src io.Reader
	switch {
	case arg != "" && arg != "-":
		src = strings.NewReader(arg)
	case r.file != "":
		f, err := os.Open(r.file)
		if err != nil {
			return out, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		src = f
	case r.stdin != nil:
		src = r.stdin
	default:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return out, fmt.Errorf("no input provided (stdin is a terminal); pass JSON, use -f or pipe input")
		}
		src = os.Stdin
	}

	if err := json.NewDecoder(src).Decode(&out); err != nil {
		return out, fmt.Errorf("decode JSON: %w", err)
	}
	return out, nil
}
