package converter

import (
	"errors"
	"fmt"
)

const (
	invalidResponseMessage = "Invalid response format."
	fetchFailedPrefix      = "Failed to fetch conversion rate: "
)

// ErrMalformedResponse - JSON разобран, но поля amount нет или оно не строка
var ErrMalformedResponse = errors.New("invalid response format")

// FetchError - сетевая ошибка, не-2xx статус или невалидный JSON
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch conversion rate: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DisplayMessage превращает ошибку в текст для onErrorOccurred
func DisplayMessage(err error) string {
	if errors.Is(err, ErrMalformedResponse) {
		return invalidResponseMessage
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchFailedPrefix + fetchErr.Err.Error()
	}
	return fetchFailedPrefix + err.Error()
}
