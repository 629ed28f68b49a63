package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextAppliedAtAdvancesOnStalledClock(t *testing.T) {
	s := &MigrationService{}
	future := time.Now().UTC().Add(time.Hour)
	s.lastAppliedAt = future

	got := s.nextAppliedAt()

	require.Equal(t, future.Add(time.Nanosecond), got)
	require.Equal(t, got, s.lastAppliedAt)
}

func TestNextAppliedAtStrictlyIncreasing(t *testing.T) {
	s := &MigrationService{}
	prev := s.nextAppliedAt()
	for i := 0; i < 100; i++ {
		next := s.nextAppliedAt()
		require.True(t, next.After(prev))
		prev = next
	}
}
