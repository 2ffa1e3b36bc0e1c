package presenter

import (
	"sync"
	"time"

	"currency-converter-live/internal/converter"
)

// InitialResultText - текст до первого ответа
const InitialResultText = "Converted Amount"

// State - последнее, что показывает экран конвертера
type State struct {
	Result    string
	Loading   bool
	Error     string
	UpdatedAt time.Time
}

// Store хранит State и обновляется колбэками клиента
type Store struct {
	mu    sync.RWMutex
	state State
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		state: State{Result: InitialResultText},
		now:   time.Now,
	}
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Observers() converter.Observers {
	return converter.Observers{
		OnResultUpdated:       s.setResult,
		OnLoadingStateChanged: s.setLoading,
		OnErrorOccurred:       s.setError,
	}
}

// Новый результат сбрасывает прошлую ошибку
func (s *Store) setResult(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Result = text
	s.state.Error = ""
	s.state.UpdatedAt = s.now()
}

func (s *Store) setLoading(isLoading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = isLoading
}

func (s *Store) setError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = message
	s.state.UpdatedAt = s.now()
}
