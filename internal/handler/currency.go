package handler

import (
	"net/http"

	"currency-converter-live/internal/model"
	"currency-converter-live/internal/presenter"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ConversionClient - интерфейс для тестирования
type ConversionClient interface {
	SetAmount(value decimal.Decimal)
	SetFromCurrency(code model.CurrencyCode)
	SetToCurrency(code model.CurrencyCode)
	StartAutoUpdate()
	StopAutoUpdate()
	Params() model.ConversionRequest
	AutoUpdating() bool
}

// StateReader отдаёт то, что сейчас показал бы экран
type StateReader interface {
	Snapshot() presenter.State
}

type CurrencyHandler struct {
	client ConversionClient
	state  StateReader
}

func NewCurrencyHandler(client ConversionClient, state StateReader) *CurrencyHandler {
	return &CurrencyHandler{
		client: client,
		state:  state,
	}
}

func (h *CurrencyHandler) Currencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"currencies": model.Currencies})
}

func (h *CurrencyHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.stateResponse())
}

// SetAmount принимает сумму числом или строкой; строка не теряет точность
func (h *CurrencyHandler) SetAmount(c *gin.Context) {
	var req model.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return
	}
	h.client.SetAmount(*req.Amount)
	c.JSON(http.StatusAccepted, h.stateResponse())
}

func (h *CurrencyHandler) SetFrom(c *gin.Context) {
	code, ok := bindCurrency(c)
	if !ok {
		return
	}
	h.client.SetFromCurrency(code)
	c.JSON(http.StatusAccepted, h.stateResponse())
}

func (h *CurrencyHandler) SetTo(c *gin.Context) {
	code, ok := bindCurrency(c)
	if !ok {
		return
	}
	h.client.SetToCurrency(code)
	c.JSON(http.StatusAccepted, h.stateResponse())
}

func (h *CurrencyHandler) StartAutoUpdate(c *gin.Context) {
	h.client.StartAutoUpdate()
	c.JSON(http.StatusOK, h.stateResponse())
}

func (h *CurrencyHandler) StopAutoUpdate(c *gin.Context) {
	h.client.StopAutoUpdate()
	c.JSON(http.StatusOK, h.stateResponse())
}

func bindCurrency(c *gin.Context) (model.CurrencyCode, bool) {
	var req model.CurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "Invalid request",
			Details: err.Error(),
		})
		return "", false
	}
	return model.CurrencyCode(req.Currency), true
}

func (h *CurrencyHandler) stateResponse() model.StateResponse {
	params := h.client.Params()
	state := h.state.Snapshot()
	return model.StateResponse{
		Amount:     params.Amount.String(),
		From:       params.From.String(),
		To:         params.To.String(),
		Result:     state.Result,
		Loading:    state.Loading,
		Error:      state.Error,
		AutoUpdate: h.client.AutoUpdating(),
		UpdatedAt:  state.UpdatedAt,
	}
}
