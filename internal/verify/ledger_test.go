package verify

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareBothNilPasses(t *testing.T) {
	l := NewLedger(nil, nil)
	l.Compare(nil, nil, "nil check")

	recs := l.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, Pass, recs[0].Level)
	assert.NoError(t, l.Finish())
}

func TestCompareMismatchAppendsExactlyOneFail(t *testing.T) {
	l := NewLedger(nil, nil)
	l.Compare("actual title", "expected title", "page title")

	recs := l.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, Fail, recs[0].Level)
	assert.Contains(t, recs[0].Message, "page title")
}

func TestCompareEqualValues(t *testing.T) {
	l := NewLedger(nil, nil)
	l.Compare(1499, 1499, "price")
	l.Compare([]string{"a"}, []string{"a"}, "slices compare structurally")

	for _, rec := range l.Records() {
		assert.Equal(t, Pass, rec.Level)
	}
	assert.NoError(t, l.Finish())
}

func TestFailDoesNotInterruptAndCapturesSnapshot(t *testing.T) {
	var captured []string
	capture := func(label string) (string, error) {
		captured = append(captured, label)
		return "shot-001.png", nil
	}

	l := NewLedger(nil, capture)
	l.Fail("first soft failure")
	l.Fail("second soft failure")
	l.Pass("still running")

	recs := l.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "shot-001.png", recs[0].Attachment)
	assert.Len(t, captured, 2)
}

func TestHaltReturnsHaltError(t *testing.T) {
	l := NewLedger(nil, nil)
	err := l.Halt("expected UI surface never appeared")

	var halt *HaltError
	require.ErrorAs(t, err, &halt)
	assert.Equal(t, "expected UI surface never appeared", halt.Message)

	recs := l.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, Error, recs[0].Level)
}

func TestFinishSurfacesEveryFailure(t *testing.T) {
	l := NewLedger(nil, nil)
	l.Fail("price is zero for 2A")
	l.Pass("train name present")
	l.Fail("price is zero for SL")

	err := l.Finish()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 verification failure(s)")
	assert.Contains(t, err.Error(), "price is zero for 2A")
	assert.Contains(t, err.Error(), "price is zero for SL")
}

func TestCaptureErrorIsSwallowed(t *testing.T) {
	l := NewLedger(nil, func(string) (string, error) {
		return "", errors.New("browser gone")
	})
	l.Fail("soft failure without snapshot")

	recs := l.Records()
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Attachment)
}

func TestConcurrentAppendsPreserveAll(t *testing.T) {
	l := NewLedger(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Pass("parallel check")
		}()
	}
	wg.Wait()

	assert.Len(t, l.Records(), 16)
}
