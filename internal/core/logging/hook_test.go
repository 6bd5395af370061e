package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logWith(t *testing.T, ctx context.Context) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	zerolog.New(&buf).Hook(ContextHook{}).Info().Ctx(ctx).Msg("test")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestContextHook_AddsScope(t *testing.T) {
	entry := logWith(t, WithTaskID(WithBoardID(context.Background(), "main"), "t1"))
	assert.Equal(t, "main", entry[FieldBoardID])
	assert.Equal(t, "t1", entry[FieldTaskID])
}

func TestContextHook_OmitsUnsetFields(t *testing.T) {
	entry := logWith(t, WithBoardID(context.Background(), "main"))
	assert.Equal(t, "main", entry[FieldBoardID])
	assert.NotContains(t, entry, FieldTaskID)

	entry = logWith(t, context.Background())
	assert.NotContains(t, entry, FieldBoardID)
	assert.NotContains(t, entry, FieldTaskID)
}
