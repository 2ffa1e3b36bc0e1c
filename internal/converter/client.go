// Package converter держит параметры конвертации, ходит в API курсов
// и сообщает наблюдателям о результате, загрузке и ошибках.
package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"currency-converter-live/internal/config"
	"currency-converter-live/internal/model"
	"currency-converter-live/internal/transport"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	interval   time.Duration
	transport  transport.Transport
	dispatcher Dispatcher
	newTicker  TickerFunc
	logger     *zap.Logger
	latestOnly bool

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	params    model.ConversionRequest
	observers Observers
	timer     *autoUpdate
	seq       uint64
	closed    bool

	inflight sync.WaitGroup
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

func WithTransport(t transport.Transport) Option {
	return func(c *Client) { c.transport = t }
}

func WithDispatcher(d Dispatcher) Option {
	return func(c *Client) { c.dispatcher = d }
}

func WithTicker(f TickerFunc) Option {
	return func(c *Client) { c.newTicker = f }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithObservers(o Observers) Option {
	return func(c *Client) { c.observers = o }
}

// WithParams задаёт начальные сумму и валюты без запроса
func WithParams(req model.ConversionRequest) Option {
	return func(c *Client) { c.params = req }
}

// WithLatestOnly отбрасывает результаты и ошибки запросов, которые уже
// перекрыты более новым. loading=false приходит для каждого запроса.
func WithLatestOnly() Option {
	return func(c *Client) { c.latestOnly = true }
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    config.DefaultBaseURL,
		interval:   config.DefaultRefreshInterval,
		dispatcher: &serialDispatcher{},
		newTicker:  newTimeTicker,
		params: model.ConversionRequest{
			Amount: decimal.NewFromInt(1),
			From:   model.EUR,
			To:     model.USD,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.transport == nil {
		c.transport = transport.NewHTTPTransport(config.DefaultAPITimeout, c.logger)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

func (c *Client) SetObservers(o Observers) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = o
}

func (c *Client) SetAmount(value decimal.Decimal) {
	c.mu.Lock()
	c.params.Amount = value
	c.mu.Unlock()
	c.refresh("amount")
}

func (c *Client) SetFromCurrency(code model.CurrencyCode) {
	c.mu.Lock()
	c.params.From = code
	c.mu.Unlock()
	c.refresh("from")
}

func (c *Client) SetToCurrency(code model.CurrencyCode) {
	c.mu.Lock()
	c.params.To = code
	c.mu.Unlock()
	c.refresh("to")
}

// Refresh запрашивает курс с текущими параметрами
func (c *Client) Refresh() {
	c.refresh("manual")
}

func (c *Client) Params() model.ConversionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

func (c *Client) AutoUpdating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// StartAutoUpdate перезапускает таймер: старый, если был, останавливается.
func (c *Client) StartAutoUpdate() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.stop()
	}
	h := &autoUpdate{
		ticker: c.newTicker(c.interval),
		done:   make(chan struct{}),
	}
	c.timer = h
	c.mu.Unlock()

	c.logger.Debug("Auto update started", zap.Duration("interval", c.interval))
	go c.runAutoUpdate(h)
}

// StopAutoUpdate не отменяет запросы, которые уже в полёте
func (c *Client) StopAutoUpdate() {
	c.mu.Lock()
	h := c.timer
	c.timer = nil
	c.mu.Unlock()

	if h != nil {
		h.stop()
		c.logger.Debug("Auto update stopped")
	}
}

// Close останавливает таймер и отменяет запросы. Колбэки после Close не вызываются.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	h := c.timer
	c.timer = nil
	c.mu.Unlock()

	if h != nil {
		h.stop()
	}
	c.cancel()
	c.logger.Debug("Conversion client closed")
}

// Wait ждёт завершения всех запущенных запросов
func (c *Client) Wait() {
	c.inflight.Wait()
}

func (c *Client) runAutoUpdate(h *autoUpdate) {
	for {
		select {
		case <-h.done:
			return
		case <-h.ticker.C():
			c.dispatcher.Dispatch(func() {
				if !c.isCurrentTimer(h) {
					return
				}
				c.refresh("timer")
			})
		}
	}
}

func (c *Client) isCurrentTimer(h *autoUpdate) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer == h
}

func (c *Client) refresh(trigger string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Debug("Refresh ignored on closed client", zap.String("trigger", trigger))
		return
	}
	c.seq++
	seq := c.seq
	req := c.params
	observers := c.observers
	c.inflight.Add(1)
	c.mu.Unlock()

	observers.loadingStateChanged(true)

	url := transport.BuildURL(c.baseURL, req)
	c.logger.Debug("Fetching conversion rate",
		zap.String("trigger", trigger),
		zap.Uint64("request", seq),
		zap.String("url", url),
	)
	go c.fetch(seq, req, url)
}

func (c *Client) fetch(seq uint64, req model.ConversionRequest, url string) {
	defer c.inflight.Done()

	body, err := c.transport.Get(c.ctx, url)
	var amount string
	if err != nil {
		err = &FetchError{Err: err}
	} else {
		amount, err = parseAmount(body)
	}

	c.dispatcher.Dispatch(func() {
		c.complete(seq, req, amount, err)
	})
}

// complete подписывает результат валютой, выбранной на момент ответа
func (c *Client) complete(seq uint64, req model.ConversionRequest, amount string, err error) {
	c.mu.Lock()
	closed := c.closed
	latest := c.seq
	observers := c.observers
	to := c.params.To
	c.mu.Unlock()

	if closed {
		return
	}
	observers.loadingStateChanged(false)

	if c.latestOnly && seq != latest {
		c.logger.Debug("Discarding superseded response",
			zap.Uint64("request", seq),
			zap.Uint64("latest", latest),
		)
		return
	}
	if err != nil {
		c.logger.Warn("Conversion failed",
			zap.Uint64("request", seq),
			zap.String("from", req.From.String()),
			zap.String("to", req.To.String()),
			zap.Error(err),
		)
		observers.errorOccurred(DisplayMessage(err))
		return
	}
	text := formatResult(amount, to)
	c.logger.Debug("Conversion completed",
		zap.Uint64("request", seq),
		zap.String("result", text),
	)
	observers.resultUpdated(text)
}

// parseAmount ожидает JSON-объект со строковым полем amount
func parseAmount(body []byte) (string, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", &FetchError{Err: err}
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return "", ErrMalformedResponse
	}
	amount, ok := obj["amount"].(string)
	if !ok {
		return "", ErrMalformedResponse
	}
	return amount, nil
}

func formatResult(amount string, to model.CurrencyCode) string {
	return fmt.Sprintf("Result: %s %s", amount, to)
}
