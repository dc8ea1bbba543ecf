package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPlateLockerSerializesSamePlate(t *testing.T) {
	locker := NewLocalPlateLocker()

	release, err := locker.Lock(context.Background(), "ABC")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := locker.Lock(context.Background(), "ABC")
		if err == nil {
			second()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestLocalPlateLockerIndependentPlates(t *testing.T) {
	locker := NewLocalPlateLocker()

	releaseA, err := locker.Lock(context.Background(), "AAA")
	require.NoError(t, err)
	releaseB, err := locker.Lock(context.Background(), "BBB")
	require.NoError(t, err)

	releaseA()
	releaseB()
	assert.Empty(t, locker.locks)
}

func TestLocalPlateLockerHonoursContext(t *testing.T) {
	locker := NewLocalPlateLocker()
	release, err := locker.Lock(context.Background(), "ABC")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "ABC")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocalPlateLockerReleaseIsIdempotent(t *testing.T) {
	locker := NewLocalPlateLocker()
	release, err := locker.Lock(context.Background(), "ABC")
	require.NoError(t, err)

	release()
	release()

	again, err := locker.Lock(context.Background(), "ABC")
	require.NoError(t, err)
	again()
}
