package utils

import (
	"context"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/google/uuid"
)

func GetNewUUID() string {
	return uuid.New().String()
}

// UserFrom returns the authenticated username stored by the auth middleware.
func UserFrom(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(config.USER_KEY).(string)
	return user, ok && user != ""
}

func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, config.USER_KEY, user)
}

func TraceFrom(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}
