package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionDefaults(t *testing.T) {
	v := Visible("//div")
	assert.Equal(t, KindVisible, v.Kind)
	assert.Equal(t, VisibleTimeout, v.Timeout)
	assert.Equal(t, DefaultPoll, v.Interval)

	h := Hidden("//div")
	assert.Equal(t, KindHidden, h.Kind)
	assert.Equal(t, GoneTimeout, h.Timeout)

	tc := TextChanged("//div", "March 2025")
	assert.Equal(t, KindTextChanged, tc.Kind)
	assert.Equal(t, "March 2025", tc.Ref)
	assert.Equal(t, OptionalTimeout, tc.Timeout)

	u := URLIs("https://example.com/")
	assert.Equal(t, KindURLIs, u.Kind)
	assert.Equal(t, "https://example.com/", u.Ref)
}

func TestPollUntilSucceedsOnLaterAttempt(t *testing.T) {
	calls := 0
	err := pollUntil(200*time.Millisecond, time.Millisecond, func(attempt int) (bool, error) {
		calls++
		return attempt >= 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPollUntilTimesOut(t *testing.T) {
	err := pollUntil(10*time.Millisecond, 2*time.Millisecond, func(int) (bool, error) {
		return false, nil
	})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestPollUntilPropagatesCheckError(t *testing.T) {
	boom := errors.New("query mechanism failed")
	err := pollUntil(50*time.Millisecond, time.Millisecond, func(int) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestPollUntilAttemptsAreSequential(t *testing.T) {
	var attempts []int
	_ = pollUntil(10*time.Millisecond, 2*time.Millisecond, func(attempt int) (bool, error) {
		attempts = append(attempts, attempt)
		return false, nil
	})
	require.NotEmpty(t, attempts)
	for i, a := range attempts {
		assert.Equal(t, i+1, a)
	}
}

func TestPollUntilRunsCheckAtLeastOnceWithZeroishTimeout(t *testing.T) {
	calls := 0
	err := pollUntil(0, time.Millisecond, func(int) (bool, error) {
		calls++
		return false, nil
	})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, calls)
}
