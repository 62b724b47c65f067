package dispatch

import "context"

type requestContextKey string

const requestContextIDKey requestContextKey = "readviz.request_id"

func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestContextIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	v := ctx.Value(requestContextIDKey)
	s, _ := v.(string)
	return s
}
