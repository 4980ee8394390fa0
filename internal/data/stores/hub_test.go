package stores

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub(t *testing.T) {
	t.Run("publish copies per subscriber", func(t *testing.T) {
		h := newHub[int]()

		var first, second []int
		h.subscribe(func(items []int) { first = items })
		h.subscribe(func(items []int) { second = items })

		h.publish([]int{1, 2, 3})

		require.Equal(t, []int{1, 2, 3}, first)
		require.Equal(t, []int{1, 2, 3}, second)

		first[0] = 99
		assert.Equal(t, 1, second[0])
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		h := newHub[int]()

		count := 0
		unsub := h.subscribe(func([]int) { count++ })
		unsub()

		h.publish([]int{1})
		assert.Zero(t, count)
	})

	t.Run("initial snapshot never lands after a newer one", func(t *testing.T) {
		h := newHub[int]()

		var mu sync.Mutex
		var got [][]int
		record := func(items []int) {
			mu.Lock()
			got = append(got, items)
			mu.Unlock()
		}

		reading := make(chan struct{})
		release := make(chan struct{})

		subscribed := make(chan struct{})
		go func() {
			defer close(subscribed)
			_, err := h.subscribeAndDeliver(record, func() ([]int, error) {
				close(reading)
				<-release
				return []int{1}, nil
			})
			assert.NoError(t, err)
		}()

		<-reading

		// A mutation broadcasting mid-subscribe must wait for the initial
		// snapshot to go out first.
		published := make(chan struct{})
		go func() {
			h.publish([]int{1, 2})
			close(published)
		}()

		select {
		case <-published:
			t.Fatal("publish completed while the initial snapshot was in flight")
		case <-time.After(50 * time.Millisecond):
		}

		close(release)
		<-subscribed
		<-published

		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, [][]int{{1}, {1, 2}}, got)
	})
}
