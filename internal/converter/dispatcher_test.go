package converter

import (
	"context"
	"errors"
	"testing"
	"time"

	"currency-converter-live/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsInOrder(t *testing.T) {
	loop := NewLoop(0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var got []int
	for i := 1; i <= 3; i++ {
		n := i
		loop.Dispatch(func() { got = append(got, n) })
	}
	loop.Dispatch(loop.Stop)

	require.NoError(t, loop.Run(ctx))
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestLoop_DispatchAfterStopIsIgnored(t *testing.T) {
	loop := NewLoop(1)
	loop.Stop()
	loop.Stop()

	assert.NotPanics(t, func() {
		loop.Dispatch(func() { t.Error("must not run") })
	})
	assert.NoError(t, loop.Run(context.Background()))
}

func TestLoop_RunReturnsOnContextCancel(t *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, loop.Run(ctx), context.Canceled)
}

func TestDispatchFunc(t *testing.T) {
	called := false
	var d Dispatcher = DispatchFunc(func(fn func()) { fn() })
	d.Dispatch(func() { called = true })
	assert.True(t, called)
}

func TestFanout(t *testing.T) {
	var order []string
	first := Observers{
		OnResultUpdated:       func(text string) { order = append(order, "first:"+text) },
		OnLoadingStateChanged: func(bool) { order = append(order, "first:loading") },
	}
	second := Observers{
		OnResultUpdated: func(text string) { order = append(order, "second:"+text) },
		OnErrorOccurred: func(message string) { order = append(order, "second:"+message) },
	}

	o := Fanout(first, Observers{}, second)
	o.resultUpdated("ok")
	o.loadingStateChanged(true)
	o.errorOccurred("bad")

	assert.Equal(t, []string{"first:ok", "second:ok", "first:loading", "second:bad"}, order)
}

func TestDisplayMessage(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		expect string
	}{
		{name: "Malformed", err: ErrMalformedResponse, expect: "Invalid response format."},
		{name: "Fetch", err: &FetchError{Err: errors.New("timed out")}, expect: "Failed to fetch conversion rate: timed out"},
		{name: "Status", err: &FetchError{Err: &transport.StatusError{Code: 500, Status: "500 Internal Server Error"}}, expect: "Failed to fetch conversion rate: API returned status 500: 500 Internal Server Error"},
		{name: "Plain", err: errors.New("boom"), expect: "Failed to fetch conversion rate: boom"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, DisplayMessage(tc.err))
		})
	}
}
