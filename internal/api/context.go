package api

import (
	"context"

	"github.com/terra-clan/course-demand/internal/models"
)

type contextKey string

const (
	clientContextKey  contextKey = "api_client"
	sessionContextKey contextKey = "session"
)

// ClientFromContext extracts ApiClient from context
func ClientFromContext(ctx context.Context) *models.ApiClient {
	client, ok := ctx.Value(clientContextKey).(*models.ApiClient)
	if !ok {
		return nil
	}
	return client
}

// ContextWithClient adds ApiClient to context
func ContextWithClient(ctx context.Context, client *models.ApiClient) context.Context {
	return context.WithValue(ctx, clientContextKey, client)
}

// SessionFromContext extracts the resolved session from context
func SessionFromContext(ctx context.Context) *models.Session {
	s, ok := ctx.Value(sessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return s
}

// ContextWithSession adds the resolved session to context
func ContextWithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}
