package airtable

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrUnauthorized = errors.New("record store rejected credentials")
)

// StoreError — ответ record store с кодом вне 2xx. Несем статус и тело
// апстрима наверх как есть: ретраев и маскировки на этом слое нет.
type StoreError struct {
	Status int
	Body   string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("record store returned %d: %s", e.Status, e.Body)
}

// Unwrap маппит HTTP-статус в сентинелы таксономии (errors.Is работает сквозь обертки).
func (e *StoreError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return nil
	}
}
