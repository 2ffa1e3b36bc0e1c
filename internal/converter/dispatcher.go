package converter

import (
	"context"
	"sync"
)

// Dispatcher переносит выполнение колбэков в контекст представления.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatchFunc позволяет использовать обычную функцию как Dispatcher
type DispatchFunc func(fn func())

func (f DispatchFunc) Dispatch(fn func()) {
	f(fn)
}

// serialDispatcher выполняет fn сразу, но не более одного за раз
type serialDispatcher struct {
	mu sync.Mutex
}

func (d *serialDispatcher) Dispatch(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// Loop - главный цикл событий: всё, что передано в Dispatch,
// выполняется по очереди в горутине, вызвавшей Run.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Dispatch ставит fn в очередь. После Stop вызовы игнорируются.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Run обрабатывает очередь до отмены ctx или вызова Stop
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.queue:
			fn()
		}
	}
}

func (l *Loop) Stop() {
	l.once.Do(func() {
		close(l.done)
	})
}
