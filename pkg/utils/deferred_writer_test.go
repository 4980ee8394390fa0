package utils

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredWriter(t *testing.T) {
	t.Run("holds writes until flush", func(t *testing.T) {
		var dw DeferredWriter
		var out bytes.Buffer

		fmt.Fprint(&dw, "first\n")
		fmt.Fprint(&dw, "second\n")
		assert.Zero(t, out.Len())

		require.NoError(t, dw.Flush(&out))
		assert.Equal(t, "first\nsecond\n", out.String())
	})

	t.Run("flush on empty buffer is a no-op", func(t *testing.T) {
		var dw DeferredWriter
		var out bytes.Buffer

		require.NoError(t, dw.Flush(&out))
		assert.Zero(t, out.Len())
	})

	t.Run("flush clears the buffer", func(t *testing.T) {
		var dw DeferredWriter
		var out bytes.Buffer

		fmt.Fprint(&dw, "once")
		require.NoError(t, dw.Flush(&out))
		require.NoError(t, dw.Flush(&out))
		assert.Equal(t, "once", out.String())
	})

	t.Run("concurrent writes", func(t *testing.T) {
		var dw DeferredWriter
		var wg sync.WaitGroup

		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fmt.Fprint(&dw, "x")
			}()
		}
		wg.Wait()

		var out bytes.Buffer
		require.NoError(t, dw.Flush(&out))
		assert.Len(t, out.String(), 16)
	})
}
