package utils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter holds writes back while a full-screen program owns the
// terminal and releases them to the target afterwards. Safe for concurrent
// use.
type DeferredWriter struct {
	mu       sync.Mutex
	target   io.Writer
	buf      bytes.Buffer
	released bool
}

// NewDeferredWriter buffers writes destined for target.
func NewDeferredWriter(target io.Writer) *DeferredWriter {
	return &DeferredWriter{target: target}
}

// Write buffers p, or passes it through once released.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return d.target.Write(p)
	}
	return d.buf.Write(p)
}

// Release flushes everything buffered and switches to pass-through.
func (d *DeferredWriter) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.released = true
	if d.buf.Len() == 0 {
		return nil
	}
	_, err := d.buf.WriteTo(d.target)
	return err
}
