package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Type string `json:"type"`
}

func TestReader_Sources(t *testing.T) {
	r := &Reader[payload]{}
	got, err := r.Read(`{"type":"add-task"}`)
	require.NoError(t, err)
	assert.Equal(t, "add-task", got.Type)

	path := filepath.Join(t.TempDir(), "action.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"move-task"}`), 0o644))
	r = &Reader[payload]{file: path}
	got, err = r.Read("-")
	require.NoError(t, err)
	assert.Equal(t, "move-task", got.Type)

	r = &Reader[payload]{stdin: strings.NewReader(`{"type":"piped"}`)}
	got, err = r.Read("")
	require.NoError(t, err)
	assert.Equal(t, "piped", got.Type)
}

func TestReader_Errors(t *testing.T) {
	r := &Reader[payload]{}
	_, err := r.Read(`{nope`)
	assert.ErrorContains(t, err, "decode JSON")

	r = &Reader[payload]{file: filepath.Join(t.TempDir(), "missing.json")}
	_, err = r.Read("")
	assert.ErrorContains(t, err, "open file")
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, map[string]int{"count": 2}))
	assert.JSONEq(t, `{"count":2}`, out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"bad": make(chan int)}))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestMarshalError(t *testing.T) {
	var e Error
	require.NoError(t, json.Unmarshal([]byte(MarshalError("move failed", map[string]any{"taskId": "t9"})), &e))
	assert.Equal(t, "move failed", e.Message)
	assert.Equal(t, "t9", e.Data["taskId"])

	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "boom", nil))
	assert.Contains(t, buf.String(), `"boom"`)
}
