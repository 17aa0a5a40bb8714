package sensorapi

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TokenSource hands out the identity token sent as the Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a token known up front.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return strings.TrimSpace(string(t)), nil
}

// FileToken reads the token from a session file on every call, so a token
// refreshed by another process is picked up on the next fetch.
type FileToken string

func (p FileToken) Token(context.Context) (string, error) {
	b, err := os.ReadFile(string(p))
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}
