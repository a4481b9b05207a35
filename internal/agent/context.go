package agent

import "context"

type contextKey int

const sessionIDKey contextKey = iota

// ContextWithSessionID tags ctx with the chat session a turn belongs to.
// Tools that keep session-scoped state read it back via SessionIDFromContext.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}
