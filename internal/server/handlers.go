package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// mimeTypes maps file extensions to content types; anything else is text/plain.
var mimeTypes = map[string]string{
	".html":  "text/html",
	".js":    "text/javascript",
	".css":   "text/css",
	".json":  "application/json",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".svg":   "image/svg+xml",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
}

const maxBodyBytes = 1 << 20

// ContentType returns the content type served for path.
func ContentType(path string) string {
	if ct, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return "text/plain"
}

func readJSON(c echo.Context) (any, []byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return nil, nil, false
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil || v == nil {
		return nil, nil, false
	}
	return v, body, true
}

// handleLog appends beacon entries to the event log.
func (s *Server) handleLog(c echo.Context) error {
	_, body, ok := readJSON(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
	}

	var obj map[string]json.RawMessage
	var entries []json.RawMessage
	if json.Unmarshal(body, &obj) != nil ||
		json.Unmarshal(obj["entries"], &entries) != nil ||
		len(entries) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "entries array is required"})
	}

	if err := s.events.Append(entries); err != nil {
		s.log.Error().Err(err).Str("file", s.events.Path()).Msg("failed to write log")
	}

	return c.JSON(http.StatusOK, map[string]any{"ok": true, "count": len(entries)})
}

// handleMessage relays a host message to every open socket.
func (s *Server) handleMessage(c echo.Context) error {
	v, _, ok := readJSON(c)
	if !ok {
		return c.String(http.StatusBadRequest, "Invalid JSON")
	}

	obj, _ := v.(map[string]any)
	msg, _ := obj["message"].(string)
	if msg == "" || !s.opts.WebSocket {
		return c.String(http.StatusBadRequest, "{}")
	}

	if err := s.publish(c.Request().Context(), msg); err != nil {
		s.log.Error().Err(err).Msg("failed to relay message")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "relay unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) publish(ctx context.Context, msg string) error {
	if s.backplane != nil {
		return s.backplane.Publish(ctx, msg)
	}
	return s.hub.Broadcast(msg)
}

// handleFallback answers unknown POSTs with 404 and serves static files for
// everything else.
func (s *Server) handleFallback(c echo.Context) error {
	if c.Request().Method == http.MethodPost {
		return c.String(http.StatusNotFound, "Not found")
	}
	if !s.opts.Production {
		return c.String(http.StatusNotFound, "Not found (dev mode)")
	}
	return s.serveStatic(c)
}

func (s *Server) serveStatic(c echo.Context) error {
	name := c.Request().URL.Path
	if name == "/" {
		name = "/index.html"
	}

	root, err := filepath.Abs(s.opts.ServeDir)
	if err != nil {
		return c.String(http.StatusNotFound, "Not found")
	}
	full := filepath.Join(root, strings.TrimLeft(name, "/"))

	rel, err := filepath.Rel(root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return c.String(http.StatusForbidden, "Forbidden")
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return c.String(http.StatusNotFound, "Not found")
	}
	return c.Blob(http.StatusOK, ContentType(full), data)
}
