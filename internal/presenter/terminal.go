package presenter

import (
	"fmt"
	"io"
	"sync"

	"currency-converter-live/internal/converter"

	"github.com/fatih/color"
)

// Terminal печатает события клиента построчно
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	result  *color.Color
	loading *color.Color
	failure *color.Color
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:     out,
		result:  color.New(color.FgGreen, color.Bold),
		loading: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
}

func (t *Terminal) Observers() converter.Observers {
	return converter.Observers{
		OnResultUpdated: func(text string) {
			t.println(t.result, text)
		},
		OnLoadingStateChanged: func(isLoading bool) {
			if isLoading {
				t.println(t.loading, "Loading...")
			}
		},
		OnErrorOccurred: func(message string) {
			t.println(t.failure, "Error: "+message)
		},
	}
}

// Info печатает служебную строку без цвета
func (t *Terminal) Info(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format+"\n", args...)
}

func (t *Terminal) println(c *color.Color, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c.Fprintln(t.out, text)
}
