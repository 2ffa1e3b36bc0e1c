package converter

import "time"

// Ticker - источник тиков автообновления
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc создаёт Ticker с заданным интервалом
type TickerFunc func(interval time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.t.C
}

func (t timeTicker) Stop() {
	t.t.Stop()
}

func newTimeTicker(interval time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(interval)}
}

// autoUpdate - владеющий хэндл одного активного таймера
type autoUpdate struct {
	ticker Ticker
	done   chan struct{}
}

func (a *autoUpdate) stop() {
	close(a.done)
	a.ticker.Stop()
}
