package presenter

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestStore_Lifecycle(t *testing.T) {
	s := NewStore()
	fixed := time.Date(2024, 12, 19, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	o := s.Observers()

	assert.Equal(t, State{Result: InitialResultText}, s.Snapshot())

	o.OnLoadingStateChanged(true)
	assert.True(t, s.Snapshot().Loading)

	o.OnLoadingStateChanged(false)
	o.OnErrorOccurred("Invalid response format.")
	assert.Equal(t, State{Result: InitialResultText, Error: "Invalid response format.", UpdatedAt: fixed}, s.Snapshot())

	o.OnResultUpdated("Result: 1.08 USD")
	assert.Equal(t, State{Result: "Result: 1.08 USD", UpdatedAt: fixed}, s.Snapshot())
}

func TestStore_ErrorRefreshesTimestamp(t *testing.T) {
	s := NewStore()
	first := time.Date(2024, 12, 19, 10, 0, 0, 0, time.UTC)
	second := first.Add(10 * time.Second)
	s.now = func() time.Time { return first }
	o := s.Observers()

	o.OnResultUpdated("Result: 1.08 USD")
	assert.Equal(t, first, s.Snapshot().UpdatedAt)

	s.now = func() time.Time { return second }
	o.OnErrorOccurred("Failed to fetch conversion rate: timed out")

	state := s.Snapshot()
	assert.Equal(t, second, state.UpdatedAt)
	assert.Equal(t, "Result: 1.08 USD", state.Result)
}

func TestStore_ErrorKeepsLastResult(t *testing.T) {
	s := NewStore()
	o := s.Observers()

	o.OnResultUpdated("Result: 150.2 JPY")
	o.OnErrorOccurred("Failed to fetch conversion rate: timed out")

	state := s.Snapshot()
	assert.Equal(t, "Result: 150.2 JPY", state.Result)
	assert.Equal(t, "Failed to fetch conversion rate: timed out", state.Error)
}

func TestTerminal_Output(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	var buf bytes.Buffer
	term := NewTerminal(&buf)
	o := term.Observers()

	o.OnLoadingStateChanged(true)
	o.OnLoadingStateChanged(false)
	o.OnResultUpdated("Result: 123.45 USD")
	o.OnErrorOccurred("Invalid response format.")
	term.Info("Auto update %s", "on")

	assert.Equal(t, "Loading...\nResult: 123.45 USD\nError: Invalid response format.\nAuto update on\n", buf.String())
}
