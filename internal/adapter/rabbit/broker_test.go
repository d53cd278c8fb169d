package rabbit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

func TestRoutingKeys(t *testing.T) {
	assert.Equal(t, "rescue.assigned", RescueKey(types.EventAssigned))
	assert.Equal(t, "rescue.location", RescueKey(types.EventLocation))
	assert.Equal(t, "notification.rescue_candidate", NotificationKey(types.NotificationCandidate))
}

func TestRetry(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	boom := errors.New("down")
	err = retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry(ctx, 5, time.Hour, func() error {
		calls++
		return errors.New("down")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
