package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyOnStart(t *testing.T) {
	ran := make(chan struct{}, 1)
	s := NewScheduler("0 * * * *", func(ctx context.Context) {
		ran <- struct{}{}
	}, quietLogger())

	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run at start")
	}
}

func TestScheduler_SurvivesPanickingJob(t *testing.T) {
	done := make(chan struct{})
	s := NewScheduler("0 * * * *", func(ctx context.Context) {
		defer close(done)
		panic("boom")
	}, quietLogger())

	require.NoError(t, s.Start())
	<-done
	assert.NotPanics(t, func() { s.Stop(context.Background()) })
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler("not a cron spec", func(ctx context.Context) {}, quietLogger())
	assert.Error(t, s.Start())
}

func TestScheduler_StopCancelsJobContext(t *testing.T) {
	started := make(chan struct{})
	finished := make(chan error, 1)
	s := NewScheduler("0 * * * *", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		finished <- ctx.Err()
	}, quietLogger())

	require.NoError(t, s.Start())
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	s.Stop(ctx)

	select {
	case err := <-finished:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("job context was not cancelled")
	}
}
