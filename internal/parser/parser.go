package parser

import (
	"errors"
	"fmt"
	"pbcheck/internal/models"
)

// ErrMalformedPayload is the single failure kind of every parser. Callers fall back to cached data on it.
var ErrMalformedPayload = errors.New("malformed drawing payload")

const (
	StrategyJSON     = "json"
	StrategyMarkup   = "markup"
	StrategyEnvelope = "envelope"
)

type Parser interface {
	Parse(raw []byte) (models.Drawing, error)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}

func checkDrawing(d models.Drawing) error {
	if err := d.Check(); err != nil {
		return malformed("%s", err)
	}
	return nil
}
