package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRejectsInvalidSpec(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil)

	_, err := s.Schedule("not a cron spec", func() {})
	assert.Error(t, err)
}

func TestSchedulerAcceptsDailySpec(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil)

	_, err := s.Schedule("0 0 * * *", func() {})
	assert.NoError(t, err)
}

func TestSchedulerRunsJob(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil)

	var mu sync.Mutex
	ran := false
	_, err := s.Schedule("@every 10ms", func() {
		mu.Lock()
		ran = true
		mu.Unlock()
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ran
	}, time.Second, 10*time.Millisecond)
}
