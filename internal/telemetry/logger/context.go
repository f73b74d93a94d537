package logger

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	clientIPKey
)

// WithRequestID records the gateway request ID in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithClientIP records the address the rate limiter keyed the request on.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIPFromContext returns the client IP, or "".
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// L returns the default logger tagged with the request ID and client IP
// carried by ctx.
func L(ctx context.Context) Logger {
	l := Default()
	if id := RequestIDFromContext(ctx); id != "" {
		l = l.With("request_id", id)
	}
	if ip := ClientIPFromContext(ctx); ip != "" {
		l = l.With("client_ip", ip)
	}
	return l.WithContext(ctx)
}
