package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrGateway       = errors.New("ai gateway error")
	ErrConfiguration = errors.New("ai configuration error")
)

// GatewayError wraps any failure coming from the provider side: network,
// auth rejection, rate limits, malformed or empty replies.
type GatewayError struct {
	Provider Provider
	Status   int
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

// ConfigurationError means no usable credential is available. It is raised
// before any network call.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "ai not configured: " + e.Reason }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// AsGateway wraps err as a GatewayError unless it already is one, is a
// configuration problem or is a context cancellation.
func AsGateway(provider Provider, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrGateway) || errors.Is(err, ErrConfiguration) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &GatewayError{Provider: provider, Err: err}
}
