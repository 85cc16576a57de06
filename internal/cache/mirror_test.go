package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settings struct {
	Difficulty string
	Count      int
	Tags       []string
}

func cloneSettings(s *settings) *settings {
	if s == nil {
		return nil
	}
	c := *s
	c.Tags = append([]string(nil), s.Tags...)
	return &c
}

func TestGetCopiesOnRead(t *testing.T) {
	m := NewMirror(cloneSettings)
	m.Set("u1", &settings{Difficulty: "medium", Count: 10, Tags: []string{"go"}})

	got, ok := m.Get("u1")
	require.True(t, ok)
	got.Count = 99
	got.Tags[0] = "rust"

	again, _ := m.Get("u1")
	assert.Equal(t, 10, again.Count)
	assert.Equal(t, "go", again.Tags[0])
}

func TestApplyThenRollback(t *testing.T) {
	m := NewMirror(cloneSettings)
	m.Set("u1", &settings{Difficulty: "medium", Count: 10})

	snap := m.Apply("u1", &settings{Difficulty: "medium", Count: 12})
	got, _ := m.Get("u1")
	assert.Equal(t, 12, got.Count)

	assert.True(t, m.Rollback(snap))
	got, _ = m.Get("u1")
	assert.Equal(t, &settings{Difficulty: "medium", Count: 10}, got)
}

func TestApplyThenConfirm(t *testing.T) {
	m := NewMirror(cloneSettings)
	m.Set("u1", &settings{Difficulty: "medium", Count: 10})

	snap := m.Apply("u1", &settings{Difficulty: "medium", Count: 12})
	assert.True(t, m.Confirm(snap, &settings{Difficulty: "medium", Count: 12, Tags: []string{"server"}}))

	got, _ := m.Get("u1")
	assert.Equal(t, []string{"server"}, got.Tags)
}

func TestStaleRollbackDoesNotClobberNewerWrite(t *testing.T) {
	m := NewMirror(cloneSettings)
	m.Set("u1", &settings{Count: 10})

	first := m.Apply("u1", &settings{Count: 12})
	second := m.Apply("u1", &settings{Count: 14})

	assert.False(t, m.Rollback(first), "first write is stale")
	got, _ := m.Get("u1")
	assert.Equal(t, 14, got.Count)

	assert.False(t, m.Confirm(first, &settings{Count: 12}))
	assert.True(t, m.Confirm(second, &settings{Count: 14}))
}

func TestRollbackToEmpty(t *testing.T) {
	m := NewMirror[*settings](nil)

	snap := m.Apply("u1", &settings{Count: 8})
	assert.False(t, snap.Present)

	require.True(t, m.Rollback(snap))
	_, ok := m.Get("u1")
	assert.False(t, ok)
}

func TestClearInvalidatesSnapshots(t *testing.T) {
	m := NewMirror(cloneSettings)
	snap := m.Apply("u1", &settings{Count: 8})
	m.Clear("u1")

	assert.False(t, m.Rollback(snap))
	_, ok := m.Get("u1")
	assert.False(t, ok)
}

func TestGetFresh(t *testing.T) {
	now := time.Now()
	m := NewMirror(cloneSettings)
	m.now = func() time.Time { return now }

	m.Set("u1", &settings{Count: 10})
	_, ok := m.GetFresh("u1", time.Minute)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = m.GetFresh("u1", time.Minute)
	assert.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	m := NewMirror(cloneSettings)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			snap := m.Apply("u1", &settings{Count: n})
			if n%2 == 0 {
				m.Rollback(snap)
			} else {
				m.Confirm(snap, &settings{Count: n})
			}
			m.Get("u1")
		}(i)
	}
	wg.Wait()
}
