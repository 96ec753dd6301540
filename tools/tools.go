package tools

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrFailedUnmarshalInput is returned when the tool input is not valid
// JSON for the tool's schema.
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

// ITool is a callable operation exposed to an AI assistant.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	Description() string
	// Parameters returns the parameters definition of the tool arguments.
	Parameters() any

	// Call executes the tool with the given input and returns the result
	// rendered as display text.
	// If the tool fails to parse the input, it returns ErrFailedUnmarshalInput.
	Call(context.Context, string) (string, error)
}

type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}
