// Package utils holds small shared helpers.
package utils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter collects writes in memory until Flush pushes them to a
// real destination. Safe for concurrent use. The TUI command uses it to
// hold command output back while the alt screen is active.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (d *DeferredWriter) Write(p []byte) (n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Write(p)
}

// Flush drains everything buffered so far into w.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len() == 0 {
		return nil
	}

	_, err := d.buf.WriteTo(w)
	return err
}
