package llm

import (
	"context"
	"errors"
	"strings"
)

// TestConnection resolves the credentials, builds a model and sends one tiny
// prompt. Any provider failure comes back as a GatewayError.
func TestConnection(ctx context.Context, factory Factory, override *Credentials, defaults Credentials) error {
	creds, err := Resolve(override, defaults)
	if err != nil {
		return err
	}
	model, err := factory(ctx, creds)
	if err != nil {
		return err
	}
	reply, err := Ask(ctx, model, "You are a connectivity probe.", "Reply with OK.")
	if err != nil {
		return AsGateway(creds.Provider, err)
	}
	if strings.TrimSpace(reply) == "" {
		return &GatewayError{Provider: creds.Provider, Err: errors.New("empty reply")}
	}
	return nil
}
