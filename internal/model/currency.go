package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyCode - трёхбуквенный код валюты
type CurrencyCode string

const (
	EUR CurrencyCode = "EUR"
	USD CurrencyCode = "USD"
	JPY CurrencyCode = "JPY"
	GBP CurrencyCode = "GBP"
	AUD CurrencyCode = "AUD"
	CAD CurrencyCode = "CAD"
)

// Currencies - фиксированный список, порядок как в селекторе
var Currencies = []CurrencyCode{EUR, USD, JPY, GBP, AUD, CAD}

func (c CurrencyCode) String() string {
	return string(c)
}

// IsSupported проверяет принадлежность к фиксированному списку
func IsSupported(code string) bool {
	for _, c := range Currencies {
		if string(c) == code {
			return true
		}
	}
	return false
}

// ConversionRequest - текущие параметры конвертации
type ConversionRequest struct {
	Amount decimal.Decimal
	From   CurrencyCode
	To     CurrencyCode
}

// ConversionResult - результат для отображения
type ConversionResult struct {
	DisplayText string
}

// AmountRequest - тело PUT /conversion/amount.
// decimal принимает и число, и строку: {"amount":12.5} или {"amount":"12.5"}.
type AmountRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// CurrencyRequest - тело PUT /conversion/from и /conversion/to
type CurrencyRequest struct {
	Currency string `json:"currency" binding:"required,oneof=EUR USD JPY GBP AUD CAD"`
}

// StateResponse - состояние экрана конвертера
type StateResponse struct {
	Amount     string    `json:"amount"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Result     string    `json:"result"`
	Loading    bool      `json:"loading"`
	Error      string    `json:"error,omitempty"`
	AutoUpdate bool      `json:"auto_update"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// ErrorResponse - структура для ошибок
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}
