package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("model returned empty response")

// Generator produces a completion for a single prompt. It is the only
// boundary between the interview core and the hosted model.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
