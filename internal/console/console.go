// Package console - интерактивный терминальный экран конвертера.
// Строки из ввода превращаются в вызовы клиента.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"currency-converter-live/internal/model"

	"github.com/shopspring/decimal"
)

// ErrQuit - пользователь ввёл quit
var ErrQuit = errors.New("quit")

// ConversionClient - то, что экран вызывает у клиента
type ConversionClient interface {
	SetAmount(value decimal.Decimal)
	SetFromCurrency(code model.CurrencyCode)
	SetToCurrency(code model.CurrencyCode)
	StartAutoUpdate()
	StopAutoUpdate()
	Params() model.ConversionRequest
	AutoUpdating() bool
}

// Printer - вывод служебных строк
type Printer interface {
	Info(format string, args ...any)
}

// Dispatcher - главный цикл, на котором выполняются команды
type Dispatcher interface {
	Dispatch(fn func())
}

type Console struct {
	client ConversionClient
	out    Printer
}

func New(client ConversionClient, out Printer) *Console {
	return &Console{client: client, out: out}
}

const helpText = `Commands:
  amount <value>   set amount, e.g. amount 12.5
  from <code>      set source currency
  to <code>        set target currency
  start            start auto update
  stop             stop auto update
  show             print current parameters
  help             print this help
  quit             exit`

// Execute разбирает одну строку и вызывает клиента.
// Неверный ввод возвращает ошибку и клиента не трогает.
func (c *Console) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "amount":
		if len(args) != 1 {
			return fmt.Errorf("usage: amount <value>")
		}
		value, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[0])
		}
		c.client.SetAmount(value)
	case "from", "to":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <code>", cmd)
		}
		code, err := ParseCurrency(args[0])
		if err != nil {
			return err
		}
		if cmd == "from" {
			c.client.SetFromCurrency(code)
		} else {
			c.client.SetToCurrency(code)
		}
	case "start":
		c.client.StartAutoUpdate()
		c.out.Info("Auto update on")
	case "stop":
		c.client.StopAutoUpdate()
		c.out.Info("Auto update off")
	case "show":
		p := c.client.Params()
		c.out.Info("%s %s -> %s (auto update: %t)", p.Amount.String(), p.From, p.To, c.client.AutoUpdating())
	case "help":
		c.out.Info(helpText)
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
	return nil
}

// ParseCurrency принимает только коды из фиксированного списка
func ParseCurrency(s string) (model.CurrencyCode, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if !model.IsSupported(code) {
		return "", fmt.Errorf("unsupported currency %q, expected one of %v", s, model.Currencies)
	}
	return model.CurrencyCode(code), nil
}

// Run читает команды из in и выполняет их на loop, пока не придёт quit,
// EOF или отмена ctx. Ошибки ввода печатаются и чтение продолжается.
func (c *Console) Run(ctx context.Context, in io.Reader, loop Dispatcher) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			result := make(chan error, 1)
			loop.Dispatch(func() { result <- c.Execute(line) })
			select {
			case err := <-result:
				if errors.Is(err, ErrQuit) {
					return nil
				}
				if err != nil {
					c.out.Info("%v", err)
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
